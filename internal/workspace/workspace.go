// Package workspace holds one client's guide-request session: the draft
// form, the in-flight generation, the latest outcome and the recent history.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"puente-backend/internal/catalog"
	"puente-backend/internal/generation"
	"puente-backend/internal/progress"
	"puente-backend/internal/render"
	"puente-backend/internal/shared/metrics"
	"puente-backend/internal/shared/telemetry"
)

var (
	ErrCannotSubmit = errors.New("draft is not ready to submit")
	ErrBusy         = errors.New("a generation is already in progress")
)

// Snapshot is a consistent, copied view of a workspace.
type Snapshot struct {
	Draft       Draft                `json:"draft"`
	Status      Status               `json:"status"`
	Phrase      string               `json:"phrase,omitempty"`
	Result      string               `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
	History     []generation.Request `json:"history"`
	LastPayload *generation.Request  `json:"lastPayload,omitempty"`
	CanSubmit   bool                 `json:"canSubmit"`
	Version     uint64               `json:"version"`
}

// Options configures a Workspace.
type Options struct {
	ID        string
	Catalog   catalog.Catalog
	Generator generation.Generator
	// Cycle defaults to the catalog's progress settings when it has no phrases.
	Cycle    progress.Cycle
	Renderer *render.Markdown
	Now      func() time.Time
}

// Workspace is safe for concurrent use.
type Workspace struct {
	id        string
	catalog   catalog.Catalog
	generator generation.Generator
	cycle     progress.Cycle
	renderer  *render.Markdown
	now       func() time.Time

	mu          sync.Mutex
	draft       Draft
	status      Status
	phrase      string
	result      string
	errMsg      string
	history     Ledger
	lastPayload *generation.Request
	version     uint64
	lastSeen    time.Time
	subs        map[chan Snapshot]struct{}
}

// New builds a workspace seeded with the catalog's initial draft.
func New(opts Options) *Workspace {
	gen := opts.Generator
	if gen == nil {
		gen = generation.Unconfigured{}
	}
	cycle := opts.Cycle
	if len(cycle.Phrases) == 0 {
		cycle.Phrases = opts.Catalog.Progress.Phrases
		cycle.Interval = opts.Catalog.Progress.Interval
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewMarkdown()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Workspace{
		id:        opts.ID,
		catalog:   opts.Catalog,
		generator: gen,
		cycle:     cycle,
		renderer:  renderer,
		now:       now,
		draft:     InitialDraft(opts.Catalog),
		status:    StatusIdle,
		lastSeen:  now(),
		subs:      make(map[chan Snapshot]struct{}),
	}
}

// ID returns the owning client identifier.
func (w *Workspace) ID() string { return w.id }

// Snapshot returns the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() Snapshot {
	snap := Snapshot{
		Draft:     w.draft,
		Status:    w.status,
		Phrase:    w.phrase,
		Result:    w.result,
		Error:     w.errMsg,
		History:   w.history.Entries(),
		CanSubmit: w.status != StatusLoading && w.draft.Ready(),
		Version:   w.version,
	}
	if w.lastPayload != nil {
		p := *w.lastPayload
		snap.LastPayload = &p
	}
	return snap
}

// CanSubmit reports whether a generation may start now.
func (w *Workspace) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status != StatusLoading && w.draft.Ready()
}

// UpdateField replaces one draft attribute, keeping the others.
func (w *Workspace) UpdateField(key, value string) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
	next, err := w.draft.With(w.catalog, key, value)
	if err != nil {
		return w.snapshotLocked(), err
	}
	w.draft = next
	w.changedLocked()
	return w.snapshotLocked(), nil
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the most recent one. cancel unregisters the
// channel; it is never closed.
func (w *Workspace) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, ch)
			w.mu.Unlock()
		})
	}
}

// changedLocked bumps the version and pushes a snapshot to subscribers.
func (w *Workspace) changedLocked() {
	w.version++
	if len(w.subs) == 0 {
		return
	}
	snap := w.snapshotLocked()
	for ch := range w.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Replace the stale pending snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Generate runs one generation to completion. It returns ErrBusy or
// ErrCannotSubmit without changing state when it cannot start; failures of
// the generation itself end up in the snapshot, not in the return value.
func (w *Workspace) Generate(ctx context.Context) error {
	run, err := w.begin()
	if err != nil {
		return err
	}
	w.run(ctx, run)
	return nil
}

// Start is Generate on a background goroutine. The call is detached from
// ctx cancellation so a closed request does not abort the generation. It
// returns the generation run ID.
func (w *Workspace) Start(ctx context.Context) (string, error) {
	run, err := w.begin()
	if err != nil {
		return "", err
	}
	go w.run(context.WithoutCancel(ctx), run)
	return run.id, nil
}

type runState struct {
	id      string
	payload generation.Request
	started time.Time
}

func (w *Workspace) begin() (runState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
	if w.status == StatusLoading {
		metrics.IncGenerationRejected()
		return runState{}, ErrBusy
	}
	if !w.draft.Ready() {
		metrics.IncGenerationRejected()
		return runState{}, ErrCannotSubmit
	}
	w.errMsg = ""
	w.result = ""
	w.phrase = ""
	w.status = StatusLoading
	run := runState{
		id:      uuid.NewString(),
		payload: w.draft.Payload(),
		started: w.now(),
	}
	metrics.IncGenerationStarted()
	w.changedLocked()
	return run, nil
}

func (w *Workspace) run(ctx context.Context, run runState) {
	stop := w.cycle.Start(w.setPhrase)

	telemetry.Info("generation.start", map[string]any{
		"client_id":     w.id,
		"generation_id": run.id,
		"subject":       run.payload.Subject,
	})

	var (
		resp    generation.Response
		callErr error
	)
	defer func() {
		if r := recover(); r != nil {
			callErr = &generation.Error{Err: fmt.Errorf("generator panic: %v", r)}
		}
		stop()
		w.settle(run, resp, callErr)
	}()

	resp, callErr = w.generator.Generate(ctx, run.payload)
}

func (w *Workspace) setPhrase(phrase string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusLoading {
		return
	}
	w.phrase = phrase
	w.changedLocked()
}

// settle records the outcome and leaves loading.
func (w *Workspace) settle(run runState, resp generation.Response, callErr error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	elapsed := w.now().Sub(run.started)
	metrics.ObserveGenerationDurationMs(float64(elapsed.Milliseconds()))
	fields := map[string]any{
		"client_id":     w.id,
		"generation_id": run.id,
		"duration_ms":   elapsed.Milliseconds(),
	}
	w.phrase = ""
	if callErr != nil {
		w.status = StatusError
		w.result = ""
		w.errMsg = generation.UserMessage(callErr)
		fields["error"] = callErr
		metrics.IncGenerationFailed()
		telemetry.Error("generation.failed", fields)
	} else {
		w.status = StatusSuccess
		w.errMsg = ""
		w.result = resp.ResultText
		w.history.Record(run.payload)
		p := run.payload
		w.lastPayload = &p
		fields["result_chars"] = len([]rune(resp.ResultText))
		metrics.IncGenerationSucceeded()
		telemetry.Info("generation.complete", fields)
	}
	w.changedLocked()
}

// idleSince reports when the workspace was last touched, and whether it is
// pinned by a generation in flight or an open subscription.
func (w *Workspace) idleSince() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen, w.status == StatusLoading || len(w.subs) > 0
}
