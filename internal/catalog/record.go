// Package catalog holds the in-memory catalog registry.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Visibility is the access policy attached to a catalog.
// It is a closed set; only the access gate interprets it.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityPassword Visibility = "password"
)

// ParseVisibility converts a string into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate, VisibilityPassword:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("unknown visibility %q", s)
	}
}

// Valid reports whether v is a member of the closed set.
func (v Visibility) Valid() bool {
	_, err := ParseVisibility(string(v))
	return err == nil
}

// ErrPasswordRequired and ErrPasswordForbidden enforce the record invariant:
// a password is present if and only if visibility is "password".
var (
	ErrPasswordRequired  = errors.New("password visibility requires a password")
	ErrPasswordForbidden = errors.New("password is only allowed with password visibility")
)

// Record is a catalog: display metadata plus a PDF source reference and an
// access policy. Owned by the Store; mutated only through its operations.
type Record struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Author      string     `json:"author,omitempty"`
	Visibility  Visibility `json:"visibility"`
	Password    string     `json:"-"`

	// SourceRef is the document source: "blob:<id>" for uploads, an
	// absolute http(s) URL, or any other string for the demo placeholder.
	SourceRef    string `json:"source_ref"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`

	// PageCount is 0 until the document has been opened once.
	PageCount int `json:"page_count"`

	Views     int `json:"views"`
	Downloads int `json:"downloads"`
	Shares    int `json:"shares"`

	UploadedAt time.Time `json:"uploaded_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Validate checks the record's structural invariants.
func (r *Record) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if !r.Visibility.Valid() {
		return fmt.Errorf("unknown visibility %q", r.Visibility)
	}
	if r.Visibility == VisibilityPassword && r.Password == "" {
		return ErrPasswordRequired
	}
	if r.Visibility != VisibilityPassword && r.Password != "" {
		return ErrPasswordForbidden
	}
	return nil
}
