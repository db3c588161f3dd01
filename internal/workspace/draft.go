package workspace

import (
	"errors"
	"strings"
	"unicode/utf8"

	"puente-backend/internal/catalog"
	"puente-backend/internal/generation"
)

// Field names accepted by UpdateField.
const (
	FieldTopic          = "topic"
	FieldSubject        = "subject"
	FieldStudentProfile = "studentProfile"
)

// Minimum trimmed lengths, in characters, for a draft to be submittable.
const (
	MinTopicLength   = 3
	MinProfileLength = 5
)

var (
	ErrUnknownField   = errors.New("unknown draft field")
	ErrInvalidSubject = errors.New("subject is not offered")
)

// Draft is the in-progress form data.
type Draft struct {
	Topic          string `json:"topic"`
	Subject        string `json:"subject"`
	StudentProfile string `json:"studentProfile"`
}

// InitialDraft is the draft a new workspace starts from.
func InitialDraft(c catalog.Catalog) Draft {
	return Draft{
		Topic:          c.InitialTopic(),
		Subject:        c.InitialSubject(),
		StudentProfile: c.InitialProfile(),
	}
}

// With returns a copy of d with one field replaced.
func (d Draft) With(c catalog.Catalog, key, value string) (Draft, error) {
	switch key {
	case FieldTopic:
		d.Topic = value
	case FieldSubject:
		if !c.HasSubject(value) {
			return d, ErrInvalidSubject
		}
		d.Subject = value
	case FieldStudentProfile:
		d.StudentProfile = value
	default:
		return d, ErrUnknownField
	}
	return d, nil
}

// Ready reports whether the draft meets the minimum lengths to be submitted.
func (d Draft) Ready() bool {
	return utf8.RuneCountInString(strings.TrimSpace(d.Topic)) >= MinTopicLength &&
		utf8.RuneCountInString(strings.TrimSpace(d.StudentProfile)) >= MinProfileLength
}

// Payload snapshots the draft for sending, with free-text fields trimmed.
func (d Draft) Payload() generation.Request {
	return generation.Request{
		Topic:          strings.TrimSpace(d.Topic),
		Subject:        d.Subject,
		StudentProfile: strings.TrimSpace(d.StudentProfile),
	}
}
