package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cv-builder/internal/adapter/repository"
	"cv-builder/internal/export"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/timer/timertest"
)

var testNow = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeEnhancer returns out for every call. When block is set each call
// waits for it to close.
type fakeEnhancer struct {
	out     string
	err     error
	block   chan struct{}
	started chan string

	mu    sync.Mutex
	calls []string
}

func (f *fakeEnhancer) EnhanceText(_ context.Context, text string, _ i18n.Lang) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- text
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func (f *fakeEnhancer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []*model.Document
}

func (s *fakeSaver) SaveCV(_ context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, doc)
	return nil
}

type fakePrinter struct {
	mu    sync.Mutex
	calls int
	html  string
}

func (p *fakePrinter) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.html = html
	return []byte("%PDF-1.7\n%fake"), nil
}

func (p *fakePrinter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type editorFixture struct {
	editor   *Editor
	clock    *timertest.Manual
	enhancer *fakeEnhancer
	saver    *fakeSaver
	printer  *fakePrinter
}

func newEditorFixture(t *testing.T, consent bool) *editorFixture {
	t.Helper()
	f := &editorFixture{
		clock:    timertest.New(),
		enhancer: &fakeEnhancer{out: "Enhanced text"},
		saver:    &fakeSaver{},
		printer:  &fakePrinter{},
	}
	deps := EditorDeps{
		Scheduler: f.clock,
		Debounce:  render.DefaultDebounce,
		Enhancer:  f.enhancer,
		Saver:     f.saver,
		Pipeline:  export.NewPipeline(f.printer),
		Consent:   consent,
		Countdown: export.DefaultCountdown,
		Now:       fixedClock,
	}
	doc := model.NewDefault(i18n.EN, "jane@example.com", testNow)
	e, err := NewEditor("ed-1", i18n.EN, doc, render.NewRegistry(i18n.EN), "minimalist", "", deps)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	f.editor = e
	return f
}

func newTestApp(t *testing.T, admins ...string) *App {
	t.Helper()
	app, err := NewApp(context.Background(), repository.NewCollections(repository.NewMemoryStore()), AppConfig{
		AdminEmails: admins,
		BcryptCost:  4,
		Now:         fixedClock,
	})
	require.NoError(t, err)
	return app
}
