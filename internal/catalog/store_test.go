package catalog

import (
	"errors"
	"testing"
)

func TestStore_CRUD(t *testing.T) {
	s := NewStore()

	created, err := s.Create(Record{
		Title:      "Spring Catalog",
		Visibility: VisibilityPublic,
		SourceRef:  "/demo.pdf",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if created.UploadedAt.IsZero() || created.ModifiedAt.IsZero() {
		t.Error("Create() did not stamp timestamps")
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(created.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "Spring Catalog" {
			t.Errorf("Get().Title = %q, want %q", got.Title, "Spring Catalog")
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		updated, err := s.Update(created.ID, func(r *Record) {
			r.Description = "updated"
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Description != "updated" {
			t.Errorf("Update().Description = %q, want %q", updated.Description, "updated")
		}
		if !updated.ModifiedAt.After(created.ModifiedAt) && updated.ModifiedAt.Equal(created.ModifiedAt) {
			t.Log("ModifiedAt unchanged (clock resolution); acceptable")
		}
	})

	t.Run("update cannot change id", func(t *testing.T) {
		got, err := s.Update(created.ID, func(r *Record) {
			r.ID = "hijacked"
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("Update() changed id to %q", got.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		var deleted Record
		s.OnDelete(func(rec Record) { deleted = rec })

		if err := s.Delete(created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if deleted.ID != created.ID {
			t.Errorf("OnDelete hook got id %q, want %q", deleted.ID, created.ID)
		}
		if _, err := s.Get(created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestStore_PasswordInvariant(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name       string
		visibility Visibility
		password   string
		wantErr    error
	}{
		{"password visibility requires password", VisibilityPassword, "", ErrPasswordRequired},
		{"public visibility rejects password", VisibilityPublic, "secret", ErrPasswordForbidden},
		{"private visibility rejects password", VisibilityPrivate, "secret", ErrPasswordForbidden},
		{"password visibility with password ok", VisibilityPassword, "tech2024", nil},
		{"public without password ok", VisibilityPublic, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(Record{
				Title:      "t",
				Visibility: tt.visibility,
				Password:   tt.password,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Create() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("update cannot break invariant", func(t *testing.T) {
		rec, err := s.Create(Record{Title: "locked", Visibility: VisibilityPassword, Password: "pw"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := s.Update(rec.ID, func(r *Record) { r.Password = "" }); !errors.Is(err, ErrPasswordRequired) {
			t.Errorf("Update() error = %v, want ErrPasswordRequired", err)
		}
		// Record is unchanged after the failed update.
		got, _ := s.Get(rec.ID)
		if got.Password != "pw" {
			t.Errorf("failed update mutated record: password = %q", got.Password)
		}
	})
}

func TestStore_ListAndCounters(t *testing.T) {
	s := NewStore()
	s.Seed()

	all := s.List(false)
	if len(all) != 2 {
		t.Fatalf("List(false) returned %d records, want 2", len(all))
	}

	public := s.List(true)
	if len(public) != 1 {
		t.Fatalf("List(true) returned %d records, want 1", len(public))
	}
	if public[0].Visibility != VisibilityPublic {
		t.Errorf("List(true) returned visibility %q", public[0].Visibility)
	}

	t.Run("seed is idempotent", func(t *testing.T) {
		s.Seed()
		if got := len(s.List(false)); got != 2 {
			t.Errorf("List() after second Seed() = %d records, want 2", got)
		}
	})

	t.Run("counters", func(t *testing.T) {
		before, _ := s.Get("1")
		if err := s.RecordView("1"); err != nil {
			t.Fatalf("RecordView() error = %v", err)
		}
		if err := s.RecordDownload("1"); err != nil {
			t.Fatalf("RecordDownload() error = %v", err)
		}
		if err := s.RecordShare("1"); err != nil {
			t.Fatalf("RecordShare() error = %v", err)
		}
		after, _ := s.Get("1")
		if after.Views != before.Views+1 || after.Downloads != before.Downloads+1 || after.Shares != before.Shares+1 {
			t.Errorf("counters = %d/%d/%d, want %d/%d/%d",
				after.Views, after.Downloads, after.Shares,
				before.Views+1, before.Downloads+1, before.Shares+1)
		}
	})

	t.Run("set page count", func(t *testing.T) {
		if err := s.SetPageCount("1", 52); err != nil {
			t.Fatalf("SetPageCount() error = %v", err)
		}
		got, _ := s.Get("1")
		if got.PageCount != 52 {
			t.Errorf("PageCount = %d, want 52", got.PageCount)
		}
	})
}

func TestParseVisibility(t *testing.T) {
	for _, ok := range []string{"public", "private", "password"} {
		if _, err := ParseVisibility(ok); err != nil {
			t.Errorf("ParseVisibility(%q) error = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "PUBLIC", "hidden"} {
		if _, err := ParseVisibility(bad); err == nil {
			t.Errorf("ParseVisibility(%q) expected error", bad)
		}
	}
}
