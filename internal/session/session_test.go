package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStore(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("sid", "k"); ok {
		t.Error("Get() on empty store returned ok")
	}

	s.Set("sid", "k", "v")
	if got, ok := s.Get("sid", "k"); !ok || got != "v" {
		t.Errorf("Get() = (%q, %v), want (%q, true)", got, ok, "v")
	}

	// Sessions are isolated from each other.
	if _, ok := s.Get("other", "k"); ok {
		t.Error("Get() leaked value across sessions")
	}

	s.Delete("sid", "k")
	if _, ok := s.Get("sid", "k"); ok {
		t.Error("Get() after Delete returned ok")
	}

	s.Set("sid", "a", "1")
	s.Set("sid", "b", "2")
	s.Drop("sid")
	if _, ok := s.Get("sid", "a"); ok {
		t.Error("Get() after Drop returned ok")
	}
}

func TestEnsure(t *testing.T) {
	t.Run("mints cookie when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		id := Ensure(w, r)
		if id == "" {
			t.Fatal("Ensure() returned empty id")
		}

		cookies := w.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != id {
			t.Errorf("Ensure() set cookies %v, want one %s=%s", cookies, CookieName, id)
		}
	})

	t.Run("reuses existing cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "existing"})

		if id := Ensure(w, r); id != "existing" {
			t.Errorf("Ensure() = %q, want %q", id, "existing")
		}
		if len(w.Result().Cookies()) != 0 {
			t.Error("Ensure() set a cookie despite one being present")
		}
	})
}
