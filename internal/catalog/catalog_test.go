package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Len(t, c.Subjects, 4)
	assert.Equal(t, "Historia", c.InitialSubject())
	assert.Equal(t, "La Guerra Civil Española", c.InitialTopic())
	assert.Equal(t, "Mayoría de estudiantes de Colombia y Venezuela", c.InitialProfile())
	assert.Equal(t, 3500*time.Millisecond, c.Progress.Interval)
	assert.Len(t, c.Progress.Phrases, 6)
	assert.Equal(t, "Lengua y Literatura", c.SubjectLabel("Literatura"))
	assert.True(t, c.HasSubject("Filosofía"))
	assert.False(t, c.HasSubject("Matemáticas"))
	assert.Equal(t, "Matemáticas", c.SubjectLabel("Matemáticas"))
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no subjects", doc: "progress: {interval: 1s, phrases: [a]}"},
		{name: "duplicate subject", doc: "subjects: [{value: A}, {value: A}]\nprogress: {interval: 1s, phrases: [a]}"},
		{name: "no phrases", doc: "subjects: [{value: A}]\nprogress: {interval: 1s}"},
		{name: "zero interval", doc: "subjects: [{value: A}]\nprogress: {phrases: [a]}"},
		{name: "malformed", doc: "subjects: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "subjects: [{value: Música, label: Música}]\nquick_topics: [Flamenco]\nprogress: {interval: 2s, phrases: [uno, dos]}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Música", c.InitialSubject())
	assert.Equal(t, "Flamenco", c.InitialTopic())
	assert.Equal(t, "", c.InitialProfile())
	assert.Equal(t, []string{"uno", "dos"}, c.Progress.Phrases)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Subjects, c.Subjects)
}
