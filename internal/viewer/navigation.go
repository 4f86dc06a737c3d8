package viewer

import (
	"errors"

	"github.com/folioview/folio/internal/config"
)

// ErrOutOfRange rejects navigation outside [1, totalPages].
var ErrOutOfRange = errors.New("page out of range")

// SidebarTab identifies the open sidebar panel.
type SidebarTab string

const (
	TabThumbnails SidebarTab = "thumbnails"
	TabOutline    SidebarTab = "outline"
	TabSearch     SidebarTab = "search"
)

// Navigation tracks the reading position of a flip-book session.
//
// Two views of the position exist: CurrentPage is 1-based and is what the
// service and its API speak; WidgetIndex is the 0-based index the flip
// widget reports. Conversion between them happens only inside this type.
// Navigation is not self-locking; the owning Session serializes access.
type Navigation struct {
	totalPages  int
	currentPage int
	widgetIndex int

	scale       float64
	minScale    float64
	maxScale    float64
	scaleStep   float64
	sidebarOpen bool
	sidebarTab  SidebarTab
}

// NewNavigation starts at page 1 with scale 1.0.
func NewNavigation(totalPages int, cfg config.ViewerCfg) *Navigation {
	return &Navigation{
		totalPages:  totalPages,
		currentPage: 1,
		widgetIndex: 0,
		scale:       1.0,
		minScale:    cfg.MinScale,
		maxScale:    cfg.MaxScale,
		scaleStep:   cfg.ScaleStep,
		sidebarTab:  TabThumbnails,
	}
}

// CurrentPage returns the 1-based reading position.
func (n *Navigation) CurrentPage() int { return n.currentPage }

// WidgetIndex returns the 0-based flip widget position.
func (n *Navigation) WidgetIndex() int { return n.widgetIndex }

// TotalPages returns the page count the navigation was built with.
func (n *Navigation) TotalPages() int { return n.totalPages }

// Scale returns the current zoom factor.
func (n *Navigation) Scale() float64 { return n.scale }

// Sidebar returns the sidebar visibility and active tab.
func (n *Navigation) Sidebar() (bool, SidebarTab) { return n.sidebarOpen, n.sidebarTab }

// GoToPage moves the reading position to the 1-based page. It is the single
// transition path for every page change the service originates. The
// returned flag tells the caller to command the flip widget to the new
// index; it is false when the widget is already there.
func (n *Navigation) GoToPage(page int) (commandWidget bool, err error) {
	if page < 1 || page > n.totalPages {
		return false, ErrOutOfRange
	}
	n.currentPage = page
	if page != n.widgetIndex+1 {
		n.widgetIndex = page - 1
		return true, nil
	}
	return false, nil
}

// Flip records a widget-originated page turn. The widget speaks 0-based
// indices; this is where they become pages.
func (n *Navigation) Flip(index int) error {
	if index < 0 || index >= n.totalPages {
		return ErrOutOfRange
	}
	n.widgetIndex = index
	if page := index + 1; page != n.currentPage {
		n.currentPage = page
	}
	return nil
}

// KeyLeft steps one page back. At the first page it does nothing.
func (n *Navigation) KeyLeft() {
	if n.currentPage > 1 {
		n.GoToPage(n.currentPage - 1)
	}
}

// KeyRight steps one page forward. At the last page it does nothing.
func (n *Navigation) KeyRight() {
	if n.currentPage < n.totalPages {
		n.GoToPage(n.currentPage + 1)
	}
}

// ZoomIn raises the scale one step, clamped to the configured maximum.
func (n *Navigation) ZoomIn() float64 {
	n.scale = clamp(n.scale+n.scaleStep, n.minScale, n.maxScale)
	return n.scale
}

// ZoomOut lowers the scale one step, clamped to the configured minimum.
func (n *Navigation) ZoomOut() float64 {
	n.scale = clamp(n.scale-n.scaleStep, n.minScale, n.maxScale)
	return n.scale
}

// SetSidebar updates sidebar visibility and, when tab is non-empty, the
// active tab.
func (n *Navigation) SetSidebar(open bool, tab SidebarTab) {
	n.sidebarOpen = open
	if tab != "" {
		n.sidebarTab = tab
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
