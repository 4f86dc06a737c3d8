package viewer

import (
	"sync"

	"github.com/folioview/folio/internal/pdf"
)

// State is a viewing session's lifecycle phase.
type State string

const (
	// StateLoading covers open and the first-paint render window.
	StateLoading State = "loading"
	// StateReady means the first-paint window has fully resolved.
	StateReady State = "ready"
	// StateFailed means the document never opened. Terminal.
	StateFailed State = "failed"
)

// Session is one browser session's view onto one catalog: the open
// document, the page cache filling behind it, and the navigation state.
type Session struct {
	CatalogID string

	owner string // browser session id

	mu         sync.Mutex
	generation uint64
	doc        pdf.Document
	cache      *PageCache
	nav        *Navigation
	state      State
	loadErr    error
}

// State returns the session's lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadErr returns the open failure for a Failed session, nil otherwise.
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// PageCount returns the document's page count, or 0 before open completed.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil {
		return 0
	}
	return s.nav.TotalPages()
}

// PageImage returns the rendered JPEG for the 1-based page n. ok=false
// means the slot is empty, either still rendering or permanently failed;
// the two are indistinguishable to callers and the client polls.
func (s *Session) PageImage(n int) ([]byte, bool) {
	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()
	if cache == nil {
		return nil, false
	}
	return cache.Get(n)
}

// CachedPages reports how many page slots are filled.
func (s *Session) CachedPages() int {
	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()
	if cache == nil {
		return 0
	}
	return cache.Len()
}

// GoToPage moves to the 1-based page. The returned flag commands the flip
// widget when it is out of step.
func (s *Session) GoToPage(page int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil {
		return false, ErrOutOfRange
	}
	return s.nav.GoToPage(page)
}

// Flip records a widget-originated page turn by 0-based index.
func (s *Session) Flip(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil {
		return ErrOutOfRange
	}
	return s.nav.Flip(index)
}

// Key applies an arrow-key navigation. Unknown keys are ignored.
func (s *Session) Key(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil {
		return
	}
	switch key {
	case "left":
		s.nav.KeyLeft()
	case "right":
		s.nav.KeyRight()
	}
}

// Zoom applies a zoom step: +1 in, -1 out. Returns the resulting scale.
func (s *Session) Zoom(direction int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil {
		return 0
	}
	if direction >= 0 {
		return s.nav.ZoomIn()
	}
	return s.nav.ZoomOut()
}

// SetSidebar updates sidebar state.
func (s *Session) SetSidebar(open bool, tab SidebarTab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav != nil {
		s.nav.SetSidebar(open, tab)
	}
}

// Snapshot is the wire-friendly view of a session.
type Snapshot struct {
	CatalogID   string     `json:"catalog_id"`
	State       State      `json:"state"`
	Error       string     `json:"error,omitempty"`
	PageCount   int        `json:"page_count"`
	CurrentPage int        `json:"current_page"`
	WidgetIndex int        `json:"widget_index"`
	Scale       float64    `json:"scale"`
	SidebarOpen bool       `json:"sidebar_open"`
	SidebarTab  SidebarTab `json:"sidebar_tab"`
	CachedPages int        `json:"cached_pages"`
}

// Snapshot captures the session state for API responses.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CatalogID: s.CatalogID,
		State:     s.state,
	}
	if s.loadErr != nil {
		snap.Error = s.loadErr.Error()
	}
	if s.nav != nil {
		snap.PageCount = s.nav.TotalPages()
		snap.CurrentPage = s.nav.CurrentPage()
		snap.WidgetIndex = s.nav.WidgetIndex()
		snap.Scale = s.nav.Scale()
		snap.SidebarOpen, snap.SidebarTab = s.nav.Sidebar()
	}
	if s.cache != nil {
		snap.CachedPages = s.cache.Len()
	}
	return snap
}
