// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/folioview/folio/internal/access"
	"github.com/folioview/folio/internal/blob"
	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/config"
	"github.com/folioview/folio/internal/home"
	"github.com/folioview/folio/internal/session"
	"github.com/folioview/folio/internal/viewer"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Catalogs      *catalog.Store
	Blobs         *blob.Registry
	Sessions      *session.Store
	Gate          *access.Gate
	Viewers       *viewer.Manager
	ConfigManager *config.Manager
	Home          *home.Dir
	Logger        *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// CatalogsFrom extracts the catalog store from context.
func CatalogsFrom(ctx context.Context) *catalog.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Catalogs
	}
	return nil
}

// BlobsFrom extracts the blob registry from context.
func BlobsFrom(ctx context.Context) *blob.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Blobs
	}
	return nil
}

// SessionsFrom extracts the session store from context.
func SessionsFrom(ctx context.Context) *session.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Sessions
	}
	return nil
}

// GateFrom extracts the access gate from context.
func GateFrom(ctx context.Context) *access.Gate {
	if s := ServicesFrom(ctx); s != nil {
		return s.Gate
	}
	return nil
}

// ViewersFrom extracts the viewer session manager from context.
func ViewersFrom(ctx context.Context) *viewer.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Viewers
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

type sessionIDKey struct{}

// WithSessionID attaches the browser session id to the context.
// Set by server middleware after the session cookie is resolved.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFrom extracts the browser session id from context.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
