// Package catalog holds the fixed choices offered by the request form: the
// subject enumeration, quick-pick topics and profiles, and the phrases shown
// while a guide is being generated.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Subject is one entry of the enumerated subject set.
type Subject struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Progress configures the cosmetic loading phrases.
type Progress struct {
	Interval time.Duration `yaml:"interval"`
	Phrases  []string      `yaml:"phrases"`
}

// Catalog is the immutable set of form choices.
type Catalog struct {
	Subjects      []Subject `yaml:"subjects"`
	QuickTopics   []string  `yaml:"quick_topics"`
	QuickProfiles []string  `yaml:"quick_profiles"`
	Progress      Progress  `yaml:"progress"`
	LatencyHint   string    `yaml:"latency_hint"`
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	if len(c.Subjects) == 0 {
		return errors.New("catalog: at least one subject is required")
	}
	seen := make(map[string]struct{}, len(c.Subjects))
	for _, s := range c.Subjects {
		if strings.TrimSpace(s.Value) == "" {
			return errors.New("catalog: subject value is empty")
		}
		if _, dup := seen[s.Value]; dup {
			return fmt.Errorf("catalog: duplicate subject %q", s.Value)
		}
		seen[s.Value] = struct{}{}
	}
	if len(c.Progress.Phrases) == 0 {
		return errors.New("catalog: at least one progress phrase is required")
	}
	if c.Progress.Interval <= 0 {
		return errors.New("catalog: progress interval must be positive")
	}
	return nil
}

// HasSubject reports whether value belongs to the subject enumeration.
func (c Catalog) HasSubject(value string) bool {
	for _, s := range c.Subjects {
		if s.Value == value {
			return true
		}
	}
	return false
}

// SubjectLabel returns the display label for value, or value itself.
func (c Catalog) SubjectLabel(value string) string {
	for _, s := range c.Subjects {
		if s.Value == value {
			if s.Label != "" {
				return s.Label
			}
			break
		}
	}
	return value
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// InitialTopic is the topic a fresh draft starts with.
func (c Catalog) InitialTopic() string { return first(c.QuickTopics) }

// InitialProfile is the student profile a fresh draft starts with.
func (c Catalog) InitialProfile() string { return first(c.QuickProfiles) }

// InitialSubject is the subject a fresh draft starts with.
func (c Catalog) InitialSubject() string { return c.Subjects[0].Value }
