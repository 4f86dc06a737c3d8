// Package access decides whether a browser session may open a catalog.
//
// It is the only place that branches on catalog visibility; callers deal
// in the resulting State, never in visibility values.
package access

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/session"
)

// State is the gate's verdict for one (session, catalog) pair.
type State string

const (
	// Unlocked means the session may open the catalog.
	Unlocked State = "unlocked"
	// Locked means the catalog needs a password the session has not supplied.
	Locked State = "locked"
	// Denied means the catalog is private and never opens via direct link.
	Denied State = "denied"
)

// ErrBadPassword is returned by Unlock on a password mismatch.
var ErrBadPassword = errors.New("incorrect password")

// Gate checks catalog visibility against per-session unlock flags.
type Gate struct {
	sessions *session.Store
	logger   *slog.Logger
}

// NewGate creates a gate backed by the given session store.
func NewGate(sessions *session.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{sessions: sessions, logger: logger.With("component", "access")}
}

func authKey(catalogID string) string {
	return fmt.Sprintf("catalog_auth_%s", catalogID)
}

// Check returns the session's access state for the catalog. The switch
// below is the single visibility dispatch point in the codebase.
func (g *Gate) Check(sessionID string, rec catalog.Record) State {
	switch rec.Visibility {
	case catalog.VisibilityPublic:
		return Unlocked
	case catalog.VisibilityPrivate:
		return Denied
	case catalog.VisibilityPassword:
		if v, ok := g.sessions.Get(sessionID, authKey(rec.ID)); ok && v == "true" {
			return Unlocked
		}
		return Locked
	default:
		// Visibility is a closed type; an unknown value is a bug upstream.
		g.logger.Error("unknown visibility", "catalog", rec.ID, "visibility", rec.Visibility)
		return Denied
	}
}

// Unlock attempts a password unlock. On success the session flag is set and
// later Checks return Unlocked until the session ends. On mismatch the flag
// is left untouched and the caller may retry without limit.
func (g *Gate) Unlock(sessionID string, rec catalog.Record, password string) error {
	if rec.Visibility != catalog.VisibilityPassword {
		// Nothing to unlock; treat as success for public, refuse private.
		if rec.Visibility == catalog.VisibilityPrivate {
			return ErrBadPassword
		}
		return nil
	}
	if password != rec.Password {
		g.logger.Info("unlock rejected", "catalog", rec.ID)
		return ErrBadPassword
	}
	g.sessions.Set(sessionID, authKey(rec.ID), "true")
	g.logger.Info("catalog unlocked", "catalog", rec.ID)
	return nil
}
