package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"puente-backend/internal/bootstrap"
	"puente-backend/internal/catalog"
	"puente-backend/internal/generation"
	"puente-backend/internal/shared/util"
	"puente-backend/internal/workspace"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one guide and save it as markdown",
	Long: `generate runs a single guide request without the web page. Unset flags
keep the form's initial values. Progress phrases go to stderr; the guide is
saved as Ficha_PuenteCultural_<topic>.md in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if name, _ := cmd.Flags().GetString("generator"); name != "" {
			cfg.Generator = name
		}

		cat, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return err
		}
		gen, err := bootstrap.BuildGenerator(cfg)
		if err != nil {
			return err
		}
		ws := bootstrap.WorkspaceFactory(cat, gen)("cli")

		for _, f := range []struct{ flag, field string }{
			{"topic", workspace.FieldTopic},
			{"subject", workspace.FieldSubject},
			{"profile", workspace.FieldStudentProfile},
		} {
			if !cmd.Flags().Changed(f.flag) {
				continue
			}
			value, _ := cmd.Flags().GetString(f.flag)
			if _, err := ws.UpdateField(f.field, value); err != nil {
				return fmt.Errorf("--%s: %w", f.flag, err)
			}
		}

		outDir, _ := cmd.Flags().GetString("out")
		return runGenerate(cmd.Context(), ws, cmd.ErrOrStderr(), &dirSaver{dir: outDir})
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "topic or concept")
	generateCmd.Flags().String("subject", "", "subject value (Historia, Literatura, Filosofía, Ciencias Sociales)")
	generateCmd.Flags().String("profile", "", "student profile description")
	generateCmd.Flags().String("out", ".", "directory for the downloaded guide")
	generateCmd.Flags().String("generator", "", "generator override: remote, openai or placeholder")
	rootCmd.AddCommand(generateCmd)
}

// runGenerate drives one generation, echoing progress phrases to progress,
// and saves the result through saver.
func runGenerate(ctx context.Context, ws *workspace.Workspace, progress io.Writer, saver *dirSaver) error {
	updates, cancel := ws.Subscribe()
	defer cancel()
	quit := make(chan struct{})
	done := make(chan struct{})
	go echoProgress(updates, quit, done, progress)

	if err := ws.Generate(ctx); err != nil {
		close(quit)
		<-done
		return err
	}
	<-done

	snap := ws.Snapshot()
	if snap.Status == workspace.StatusError {
		return errors.New(snap.Error)
	}
	saved, err := ws.DownloadAsFile(ctx, saver)
	if err != nil {
		return err
	}
	if !saved {
		return errors.New(generation.FallbackMessage)
	}
	fmt.Fprintln(progress, saver.path)
	return nil
}

// echoProgress prints each new phrase until the generation settles or quit
// is closed. It closes done on return.
func echoProgress(updates <-chan workspace.Snapshot, quit <-chan struct{}, done chan<- struct{}, progress io.Writer) {
	defer close(done)
	last := ""
	for {
		select {
		case <-quit:
			return
		case snap := <-updates:
			if snap.Phrase != "" && snap.Phrase != last {
				fmt.Fprintln(progress, snap.Phrase)
				last = snap.Phrase
			}
			if snap.Status == workspace.StatusSuccess || snap.Status == workspace.StatusError {
				return
			}
		}
	}
}

// dirSaver writes downloaded guides into a directory.
type dirSaver struct {
	dir  string
	path string
}

func (s *dirSaver) Save(_ context.Context, f workspace.File) error {
	name, err := util.SanitizeFileName(f.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return err
	}
	s.path = path
	return nil
}
