package viewer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/folioview/folio/internal/config"
	"github.com/folioview/folio/internal/pdf"
)

type fakeDoc struct {
	pages int

	mu     sync.Mutex
	closed bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) Page(n int) (pdf.Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return nil, nil
}

func (d *fakeDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDoc) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakeOpener struct {
	doc *fakeDoc
	err error
}

func (o *fakeOpener) Open(ctx context.Context, ref string) (pdf.Document, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls map[int]int
	fail  map[int]bool

	// gate, when set, blocks renders of pages above gateAfter until closed.
	gate      chan struct{}
	gateAfter int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{calls: make(map[int]int), fail: make(map[int]bool)}
}

func (r *fakeRenderer) RenderPage(ctx context.Context, doc pdf.Document, n int) ([]byte, error) {
	if r.gate != nil && n > r.gateAfter {
		<-r.gate
	}

	r.mu.Lock()
	r.calls[n]++
	failed := r.fail[n]
	r.mu.Unlock()

	if failed {
		return nil, &pdf.RenderError{Page: n, Err: fmt.Errorf("injected failure")}
	}
	return []byte(fmt.Sprintf("jpeg-%d", n)), nil
}

func (r *fakeRenderer) callCount(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[n]
}

func newTestManager(doc *fakeDoc, renderer *fakeRenderer, delay time.Duration) *Manager {
	cfg := config.DefaultConfig()
	cfg.Render.BackgroundDelay = delay
	cfg.Render.Workers = 4
	return NewManager(Config{
		Opener:   &fakeOpener{doc: doc},
		Renderer: renderer,
		Render:   cfg.Render,
		Viewer:   cfg.Viewer,
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestManager_FirstPaintWindow(t *testing.T) {
	doc := &fakeDoc{pages: 48}
	renderer := newFakeRenderer()
	// Background delay long enough that the wave cannot interfere.
	m := newTestManager(doc, renderer, time.Hour)

	sess, err := m.Open(context.Background(), "sid", "1", "/sample-catalog.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := sess.State(); got != StateReady {
		t.Errorf("State() = %v, want Ready", got)
	}
	if got := sess.CachedPages(); got != 6 {
		t.Errorf("CachedPages() after open = %d, want 6", got)
	}
	for n := 1; n <= 6; n++ {
		if _, ok := sess.PageImage(n); !ok {
			t.Errorf("PageImage(%d) missing from first-paint window", n)
		}
	}
	if _, ok := sess.PageImage(7); ok {
		t.Error("PageImage(7) present before background wave")
	}
}

func TestManager_SmallDocument(t *testing.T) {
	doc := &fakeDoc{pages: 3}
	renderer := newFakeRenderer()
	m := newTestManager(doc, renderer, time.Millisecond)

	sess, err := m.Open(context.Background(), "sid", "1", "ref")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := sess.State(); got != StateReady {
		t.Errorf("State() = %v, want Ready", got)
	}
	if got := sess.CachedPages(); got != 3 {
		t.Errorf("CachedPages() = %d, want 3", got)
	}

	// No page beyond the document was ever requested.
	time.Sleep(20 * time.Millisecond)
	if got := renderer.callCount(4); got != 0 {
		t.Errorf("render called for page 4 of a 3 page document (%d times)", got)
	}
}

func TestManager_FailedPageLeavesSlotEmpty(t *testing.T) {
	doc := &fakeDoc{pages: 6}
	renderer := newFakeRenderer()
	renderer.fail[2] = true
	m := newTestManager(doc, renderer, time.Millisecond)

	sess, err := m.Open(context.Background(), "sid", "1", "ref")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// The failed page does not block readiness or its siblings.
	if got := sess.State(); got != StateReady {
		t.Errorf("State() = %v, want Ready", got)
	}
	if got := sess.CachedPages(); got != 5 {
		t.Errorf("CachedPages() = %d, want 5", got)
	}
	if _, ok := sess.PageImage(2); ok {
		t.Error("PageImage(2) present despite render failure")
	}

	// No retry: the slot stays empty.
	time.Sleep(20 * time.Millisecond)
	if got := renderer.callCount(2); got != 1 {
		t.Errorf("failed page rendered %d times, want 1", got)
	}
}

func TestManager_FailedOpen(t *testing.T) {
	m := NewManager(Config{
		Opener:   &fakeOpener{err: &pdf.LoadError{Kind: pdf.LoadNetwork, Ref: "ref", Err: fmt.Errorf("boom")}},
		Renderer: newFakeRenderer(),
		Render:   config.DefaultConfig().Render,
		Viewer:   config.DefaultConfig().Viewer,
	})

	sess, err := m.Open(context.Background(), "sid", "1", "ref")
	if err == nil {
		t.Fatal("Open() expected error")
	}
	if got := sess.State(); got != StateFailed {
		t.Errorf("State() = %v, want Failed", got)
	}

	// The failed session is still observable for the browser session.
	got, ok := m.Get("sid")
	if !ok || got != sess {
		t.Error("Get() did not return the failed session")
	}
	if snap := sess.Snapshot(); snap.Error == "" {
		t.Error("Snapshot().Error empty for failed session")
	}
}

func TestManager_BackgroundWave(t *testing.T) {
	doc := &fakeDoc{pages: 10}
	renderer := newFakeRenderer()
	m := newTestManager(doc, renderer, time.Millisecond)

	sess, err := m.Open(context.Background(), "sid", "1", "ref")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := sess.CachedPages(); got != 6 {
		t.Fatalf("CachedPages() after open = %d, want 6", got)
	}

	waitFor(t, 2*time.Second, func() bool { return sess.CachedPages() == 10 })

	// Each page rendered exactly once across window and wave.
	for n := 1; n <= 10; n++ {
		if got := renderer.callCount(n); got != 1 {
			t.Errorf("page %d rendered %d times, want 1", n, got)
		}
	}
}

func TestManager_GenerationDiscardsStaleWave(t *testing.T) {
	doc := &fakeDoc{pages: 10}
	renderer := newFakeRenderer()
	renderer.gate = make(chan struct{})
	renderer.gateAfter = 6
	m := newTestManager(doc, renderer, time.Millisecond)

	first, err := m.Open(context.Background(), "sid", "1", "ref")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := first.CachedPages(); got != 6 {
		t.Fatalf("CachedPages() = %d, want 6", got)
	}

	// Reopen before the gated background wave can land anything.
	renderer2 := newFakeRenderer()
	doc2 := &fakeDoc{pages: 5}
	m.opener = &fakeOpener{doc: doc2}
	m.renderer = renderer2

	second, err := m.Open(context.Background(), "sid", "2", "ref2")
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if got, _ := m.Get("sid"); got != second {
		t.Fatal("Get() did not return the new session")
	}
	if !doc.isClosed() {
		t.Error("replaced session's document not closed")
	}

	// Release the stale wave and give it time to finish.
	close(renderer.gate)
	time.Sleep(50 * time.Millisecond)

	if got := first.CachedPages(); got != 6 {
		t.Errorf("stale wave wrote into replaced session: CachedPages() = %d, want 6", got)
	}
	if got := second.CachedPages(); got != 5 {
		t.Errorf("new session CachedPages() = %d, want 5", got)
	}
}
