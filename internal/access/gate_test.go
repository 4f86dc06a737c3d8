package access

import (
	"errors"
	"testing"

	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/session"
)

func newGate() (*Gate, *session.Store) {
	sessions := session.NewStore()
	return NewGate(sessions, nil), sessions
}

func TestGate_Check(t *testing.T) {
	g, sessions := newGate()

	public := catalog.Record{ID: "p", Visibility: catalog.VisibilityPublic}
	private := catalog.Record{ID: "x", Visibility: catalog.VisibilityPrivate}
	locked := catalog.Record{ID: "2", Visibility: catalog.VisibilityPassword, Password: "tech2024"}

	if got := g.Check("sid", public); got != Unlocked {
		t.Errorf("Check(public) = %v, want Unlocked", got)
	}
	if got := g.Check("sid", private); got != Denied {
		t.Errorf("Check(private) = %v, want Denied", got)
	}
	if got := g.Check("sid", locked); got != Locked {
		t.Errorf("Check(password, no flag) = %v, want Locked", got)
	}

	// Only the exact "true" flag unlocks.
	sessions.Set("sid", "catalog_auth_2", "yes")
	if got := g.Check("sid", locked); got != Locked {
		t.Errorf("Check(password, wrong flag value) = %v, want Locked", got)
	}
	sessions.Set("sid", "catalog_auth_2", "true")
	if got := g.Check("sid", locked); got != Unlocked {
		t.Errorf("Check(password, flag set) = %v, want Unlocked", got)
	}
}

func TestGate_Unlock(t *testing.T) {
	g, sessions := newGate()
	rec := catalog.Record{ID: "2", Visibility: catalog.VisibilityPassword, Password: "tech2024"}

	t.Run("wrong password", func(t *testing.T) {
		if err := g.Unlock("sid", rec, "guess"); !errors.Is(err, ErrBadPassword) {
			t.Fatalf("Unlock() error = %v, want ErrBadPassword", err)
		}
		if _, ok := sessions.Get("sid", "catalog_auth_2"); ok {
			t.Error("failed unlock wrote the session flag")
		}
		if got := g.Check("sid", rec); got != Locked {
			t.Errorf("Check() after failed unlock = %v, want Locked", got)
		}
	})

	t.Run("retry succeeds", func(t *testing.T) {
		if err := g.Unlock("sid", rec, "tech2024"); err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		if got := g.Check("sid", rec); got != Unlocked {
			t.Errorf("Check() after unlock = %v, want Unlocked", got)
		}
	})

	t.Run("unlock persists for the session", func(t *testing.T) {
		// Repeated checks stay unlocked; another session stays locked.
		if got := g.Check("sid", rec); got != Unlocked {
			t.Errorf("Check() = %v, want Unlocked", got)
		}
		if got := g.Check("other", rec); got != Locked {
			t.Errorf("Check(other session) = %v, want Locked", got)
		}
	})

	t.Run("public unlock is a no-op", func(t *testing.T) {
		pub := catalog.Record{ID: "p", Visibility: catalog.VisibilityPublic}
		if err := g.Unlock("sid", pub, ""); err != nil {
			t.Errorf("Unlock(public) error = %v", err)
		}
	})

	t.Run("private never unlocks", func(t *testing.T) {
		priv := catalog.Record{ID: "x", Visibility: catalog.VisibilityPrivate}
		if err := g.Unlock("sid", priv, "anything"); !errors.Is(err, ErrBadPassword) {
			t.Errorf("Unlock(private) error = %v, want ErrBadPassword", err)
		}
	})
}
