package viewer

import (
	"errors"
	"testing"

	"github.com/folioview/folio/internal/config"
)

func newNav(pages int) *Navigation {
	return NewNavigation(pages, config.DefaultConfig().Viewer)
}

func checkConverged(t *testing.T, n *Navigation) {
	t.Helper()
	if n.CurrentPage() != n.WidgetIndex()+1 {
		t.Errorf("position diverged: current page %d, widget index %d", n.CurrentPage(), n.WidgetIndex())
	}
}

func TestNavigation_GoToPage(t *testing.T) {
	n := newNav(48)

	if n.CurrentPage() != 1 || n.WidgetIndex() != 0 {
		t.Fatalf("fresh navigation at page %d / index %d, want 1 / 0", n.CurrentPage(), n.WidgetIndex())
	}

	t.Run("jump commands the widget", func(t *testing.T) {
		cmd, err := n.GoToPage(10)
		if err != nil {
			t.Fatalf("GoToPage(10) error = %v", err)
		}
		if !cmd {
			t.Error("GoToPage(10) did not command the widget")
		}
		if n.CurrentPage() != 10 {
			t.Errorf("CurrentPage() = %d, want 10", n.CurrentPage())
		}
		checkConverged(t, n)
	})

	t.Run("noop when widget already there", func(t *testing.T) {
		cmd, err := n.GoToPage(10)
		if err != nil {
			t.Fatalf("GoToPage(10) error = %v", err)
		}
		if cmd {
			t.Error("GoToPage() to current position commanded the widget")
		}
		checkConverged(t, n)
	})

	t.Run("out of range rejected", func(t *testing.T) {
		for _, page := range []int{0, -3, 49} {
			if _, err := n.GoToPage(page); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("GoToPage(%d) error = %v, want ErrOutOfRange", page, err)
			}
		}
		// Position unchanged after rejections.
		if n.CurrentPage() != 10 {
			t.Errorf("CurrentPage() after rejected jumps = %d, want 10", n.CurrentPage())
		}
		checkConverged(t, n)
	})
}

func TestNavigation_Flip(t *testing.T) {
	n := newNav(48)

	// The widget reports 0-based indices.
	if err := n.Flip(4); err != nil {
		t.Fatalf("Flip(4) error = %v", err)
	}
	if n.CurrentPage() != 5 {
		t.Errorf("CurrentPage() after Flip(4) = %d, want 5", n.CurrentPage())
	}
	checkConverged(t, n)

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 48} {
			if err := n.Flip(idx); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Flip(%d) error = %v, want ErrOutOfRange", idx, err)
			}
		}
		checkConverged(t, n)
	})

	t.Run("echo of a commanded flip converges", func(t *testing.T) {
		n.GoToPage(20)
		// The widget animates and reports back the same position.
		if err := n.Flip(19); err != nil {
			t.Fatalf("Flip(19) error = %v", err)
		}
		if n.CurrentPage() != 20 {
			t.Errorf("CurrentPage() = %d, want 20", n.CurrentPage())
		}
		checkConverged(t, n)
	})
}

func TestNavigation_Keys(t *testing.T) {
	n := newNav(3)

	t.Run("left at first page is a noop", func(t *testing.T) {
		n.KeyLeft()
		if n.CurrentPage() != 1 {
			t.Errorf("CurrentPage() = %d, want 1", n.CurrentPage())
		}
		checkConverged(t, n)
	})

	t.Run("right steps forward", func(t *testing.T) {
		n.KeyRight()
		n.KeyRight()
		if n.CurrentPage() != 3 {
			t.Errorf("CurrentPage() = %d, want 3", n.CurrentPage())
		}
		checkConverged(t, n)
	})

	t.Run("right at last page is a noop", func(t *testing.T) {
		n.KeyRight()
		if n.CurrentPage() != 3 {
			t.Errorf("CurrentPage() = %d, want 3", n.CurrentPage())
		}
		checkConverged(t, n)
	})

	t.Run("left steps back", func(t *testing.T) {
		n.KeyLeft()
		if n.CurrentPage() != 2 {
			t.Errorf("CurrentPage() = %d, want 2", n.CurrentPage())
		}
		checkConverged(t, n)
	})
}

func TestNavigation_Zoom(t *testing.T) {
	n := newNav(10)

	if n.Scale() != 1.0 {
		t.Fatalf("initial Scale() = %v, want 1.0", n.Scale())
	}

	n.ZoomIn()
	if got := n.Scale(); got != 1.25 {
		t.Errorf("Scale() after ZoomIn = %v, want 1.25", got)
	}

	t.Run("clamps at max", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			n.ZoomIn()
		}
		if got := n.Scale(); got != 4.0 {
			t.Errorf("Scale() = %v, want 4.0", got)
		}
	})

	t.Run("clamps at min", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			n.ZoomOut()
		}
		if got := n.Scale(); got != 0.25 {
			t.Errorf("Scale() = %v, want 0.25", got)
		}
	})
}

func TestNavigation_Sidebar(t *testing.T) {
	n := newNav(10)

	open, tab := n.Sidebar()
	if open || tab != TabThumbnails {
		t.Fatalf("Sidebar() = (%v, %q), want (false, thumbnails)", open, tab)
	}

	n.SetSidebar(true, TabOutline)
	open, tab = n.Sidebar()
	if !open || tab != TabOutline {
		t.Errorf("Sidebar() = (%v, %q), want (true, outline)", open, tab)
	}

	// Empty tab keeps the previous selection.
	n.SetSidebar(false, "")
	open, tab = n.Sidebar()
	if open || tab != TabOutline {
		t.Errorf("Sidebar() = (%v, %q), want (false, outline)", open, tab)
	}
}
