package viewer

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/folioview/folio/internal/config"
	"github.com/folioview/folio/internal/pdf"
)

// Opener resolves a catalog source reference to an open document.
type Opener interface {
	Open(ctx context.Context, ref string) (pdf.Document, error)
}

// PageRenderer renders one page of an open document to JPEG bytes.
type PageRenderer interface {
	RenderPage(ctx context.Context, doc pdf.Document, n int) ([]byte, error)
}

// Config wires a Manager.
type Config struct {
	Opener   Opener
	Renderer PageRenderer
	Render   config.RenderCfg
	Viewer   config.ViewerCfg
	Logger   *slog.Logger
}

// Manager owns the viewing sessions, one active per browser session, and
// schedules page prefetch around them.
//
// Opening a catalog advances the browser session's generation counter.
// Every render task captures the generation it was spawned under and its
// result is dropped if a newer open has happened since, so a stale
// background wave can never write into the session that replaced it.
type Manager struct {
	opener   Opener
	renderer PageRenderer
	render   config.RenderCfg
	viewer   config.ViewerCfg
	logger   *slog.Logger

	mu          sync.Mutex
	sessions    map[string]*Session
	generations map[string]uint64
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Render.Workers <= 0 {
		cfg.Render.Workers = runtime.NumCPU()
	}
	return &Manager{
		opener:      cfg.Opener,
		renderer:    cfg.Renderer,
		render:      cfg.Render,
		viewer:      cfg.Viewer,
		logger:      logger.With("component", "viewer"),
		sessions:    make(map[string]*Session),
		generations: make(map[string]uint64),
	}
}

// Get returns the browser session's active viewing session.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Open starts a viewing session for the catalog source and blocks until
// the first-paint window has fully resolved (every page in it rendered or
// failed). Pages beyond the window fill in from a background wave that
// starts after the configured delay.
//
// A failed open still installs the session, in Failed state, so the
// client can observe the error; the failure is terminal.
func (m *Manager) Open(ctx context.Context, sessionID, catalogID, sourceRef string) (*Session, error) {
	gen, prev := m.advance(sessionID)

	if prev != nil {
		prev.close()
	}

	doc, err := m.opener.Open(ctx, sourceRef)
	if err != nil {
		m.logger.Error("document open failed", "catalog", catalogID, "error", err)
		sess := &Session{
			CatalogID:  catalogID,
			owner:      sessionID,
			generation: gen,
			state:      StateFailed,
			loadErr:    err,
		}
		m.install(sessionID, gen, sess)
		return sess, err
	}

	total := doc.PageCount()
	sess := &Session{
		CatalogID:  catalogID,
		owner:      sessionID,
		generation: gen,
		doc:        doc,
		cache:      NewPageCache(),
		nav:        NewNavigation(total, m.viewer),
		state:      StateLoading,
	}
	if !m.install(sessionID, gen, sess) {
		// A newer open raced us; this session never becomes visible.
		doc.Close()
		return sess, nil
	}

	window := total
	if m.render.FirstPaintPages < window {
		window = m.render.FirstPaintPages
	}

	m.logger.Info("viewing session opened",
		"catalog", catalogID, "pages", total, "first_paint", window)

	m.renderRange(ctx, sess, doc, 1, window)

	sess.mu.Lock()
	sess.state = StateReady
	sess.mu.Unlock()

	if total > window {
		go m.backgroundWave(context.WithoutCancel(ctx), sess, doc, window+1, total)
	}

	return sess, nil
}

// advance bumps the generation for the browser session and returns the
// new value plus the session being replaced, if any.
func (m *Manager) advance(sessionID string) (uint64, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[sessionID]++
	return m.generations[sessionID], m.sessions[sessionID]
}

// install publishes the session unless its generation is already stale.
func (m *Manager) install(sessionID string, gen uint64, sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[sessionID] != gen {
		return false
	}
	m.sessions[sessionID] = sess
	return true
}

// live reports whether the session is still the active generation for its
// browser session.
func (m *Manager) live(sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[sess.owner] == sess.generation
}

// backgroundWave renders the remainder of the document after the
// configured delay. Arrivals populate the cache in whatever order the
// workers finish; there is no completion signal and no retry.
func (m *Manager) backgroundWave(ctx context.Context, sess *Session, doc pdf.Document, from, to int) {
	if m.render.BackgroundDelay > 0 {
		timer := time.NewTimer(m.render.BackgroundDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}
	if !m.live(sess) {
		return
	}
	m.logger.Debug("background wave started", "catalog", sess.CatalogID, "from", from, "to", to)
	m.renderRange(ctx, sess, doc, from, to)
}

// renderRange renders pages [from, to] concurrently and blocks until each
// has either landed in the cache or failed. Failures are logged and leave
// the slot empty; they never abort siblings.
func (m *Manager) renderRange(ctx context.Context, sess *Session, doc pdf.Document, from, to int) {
	if from > to {
		return
	}

	type result struct {
		page int
		err  error
	}

	count := to - from + 1
	results := make(chan result, count)
	sem := make(chan struct{}, m.render.Workers)

	for page := from; page <= to; page++ {
		sem <- struct{}{} // acquire
		go func(n int) {
			defer func() { <-sem }() // release

			if _, ok := sess.cache.Get(n); ok {
				results <- result{page: n}
				return
			}

			data, err := m.renderer.RenderPage(ctx, doc, n)
			if err == nil && m.live(sess) {
				sess.cache.Put(n, data)
			}
			results <- result{page: n, err: err}
		}(page)
	}

	for i := 0; i < count; i++ {
		r := <-results
		if r.err != nil {
			m.logger.Warn("page render failed", "catalog", sess.CatalogID, "page", r.page, "error", r.err)
		}
	}
}

// close releases the session's document. Render tasks still in flight for
// a replaced session fail against the closed document and are discarded
// by the generation check.
func (s *Session) close() {
	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.mu.Unlock()
	if doc != nil {
		doc.Close()
	}
}
