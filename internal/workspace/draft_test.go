package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puente-backend/internal/catalog"
	"puente-backend/internal/generation"
)

func TestDraftWithReplacesSingleField(t *testing.T) {
	c := catalog.Default()
	d := InitialDraft(c)

	next, err := d.With(c, FieldSubject, "Filosofía")
	require.NoError(t, err)
	assert.Equal(t, "Filosofía", next.Subject)
	assert.Equal(t, d.Topic, next.Topic)
	assert.Equal(t, d.StudentProfile, next.StudentProfile)
	assert.Equal(t, "Historia", d.Subject, "original draft must be untouched")
}

func TestDraftWithRejectsBadInput(t *testing.T) {
	c := catalog.Default()
	d := InitialDraft(c)

	_, err := d.With(c, "materia", "Historia")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = d.With(c, FieldSubject, "Matemáticas")
	assert.ErrorIs(t, err, ErrInvalidSubject)
}

func TestDraftReady(t *testing.T) {
	cases := []struct {
		name    string
		topic   string
		profile string
		want    bool
	}{
		{"minimums met", "Año", "Mixto", true},
		{"topic too short after trim", "  ab  ", "Grupo mixto", false},
		{"profile too short after trim", "La Guerra Civil", " abcd ", false},
		{"whitespace only", "     ", "        ", false},
		{"multibyte counts as characters", "ñññ", "ééééé", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Draft{Topic: tc.topic, Subject: "Historia", StudentProfile: tc.profile}
			assert.Equal(t, tc.want, d.Ready())
		})
	}
}

func TestDraftPayloadTrimsFreeText(t *testing.T) {
	d := Draft{Topic: "\t Tema \n", Subject: "Literatura", StudentProfile: "  Perfil  "}
	assert.Equal(t, generation.Request{Topic: "Tema", Subject: "Literatura", StudentProfile: "Perfil"}, d.Payload())
}

func TestLedgerPrependsWithoutDedupe(t *testing.T) {
	var l Ledger
	req := generation.Request{Topic: "Tema", Subject: "Historia", StudentProfile: "Perfil"}
	l.Record(req)
	l.Record(req)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, req, entries[0])
	assert.Equal(t, req, entries[1])

	entries[0].Topic = "changed"
	assert.Equal(t, "Tema", l.Entries()[0].Topic)
}

func TestLedgerTruncatesToCapacity(t *testing.T) {
	var l Ledger
	for i := 0; i < HistoryCapacity+3; i++ {
		l.Record(generation.Request{Topic: string(rune('a' + i))})
	}
	assert.Equal(t, HistoryCapacity, l.Len())
	assert.Equal(t, string(rune('a'+HistoryCapacity+2)), l.Entries()[0].Topic)
}
