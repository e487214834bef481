package render

import (
	"html/template"
	"log/slog"
	"sync"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/model"
	"cv-builder/internal/timer"
)

type Viewport string

const (
	Desktop Viewport = "desktop"
	Mobile  Viewport = "mobile"
)

func (v Viewport) Valid() bool { return v == Desktop || v == Mobile }

// DefaultDebounce is the edit inactivity window before the preview catches
// up with the draft.
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is the last rendered preview. Markup is exactly what the user
// sees, and what gets printed.
type Snapshot struct {
	Doc        *model.Document
	TemplateID string
	Accent     string
	Markup     template.HTML
	Version    uint64
}

// Previewer keeps a rendered preview that trails the live draft by a
// debounce window. Template and color changes apply at once to the current
// snapshot.
type Previewer struct {
	reg *Registry
	deb *timer.Debouncer[*model.Document]

	mu       sync.Mutex
	tpl      Template
	accent   string
	viewport Viewport
	snap     Snapshot
	err      error
	closed   bool
}

// NewPreviewer renders doc immediately so there is always a snapshot.
func NewPreviewer(reg *Registry, sched timer.Scheduler, delay time.Duration, doc *model.Document, templateID, accent string) (*Previewer, error) {
	tpl, err := reg.Get(templateID)
	if err != nil {
		return nil, err
	}
	if accent != "" && !ValidAccent(accent) {
		return nil, domain.NewValidationError("accent", "%q is not a hex color", accent)
	}
	p := &Previewer{reg: reg, tpl: tpl, accent: accent, viewport: Desktop}
	p.deb = timer.NewDebouncer(sched, delay, p.apply)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.renderLocked(doc); err != nil {
		return nil, err
	}
	return p, nil
}

// Update schedules doc to become the preview once edits pause.
func (p *Previewer) Update(doc *model.Document) { p.deb.Trigger(doc) }

// Flush renders a pending update now.
func (p *Previewer) Flush() bool { return p.deb.Flush() }

func (p *Previewer) Pending() bool { return p.deb.Pending() }

func (p *Previewer) apply(doc *model.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if err := p.renderLocked(doc); err != nil {
		slog.Warn("preview render failed", "template", p.tpl.ID(), "error", err)
	}
}

func (p *Previewer) renderLocked(doc *model.Document) error {
	accent := p.accent
	if accent == "" {
		accent = p.tpl.DefaultAccent()
	}
	markup, err := p.tpl.Render(doc, accent)
	if err != nil {
		p.err = err
		return err
	}
	p.err = nil
	p.snap = Snapshot{
		Doc:        doc,
		TemplateID: p.tpl.ID(),
		Accent:     accent,
		Markup:     markup,
		Version:    p.snap.Version + 1,
	}
	return nil
}

func (p *Previewer) SetTemplate(id string) error {
	tpl, err := p.reg.Get(id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.tpl
	p.tpl = tpl
	if err := p.renderLocked(p.snap.Doc); err != nil {
		p.tpl = prev
		return err
	}
	return nil
}

// SetAccent changes the color. An empty accent means the template default.
func (p *Previewer) SetAccent(accent string) error {
	if accent != "" && !ValidAccent(accent) {
		return domain.NewValidationError("accent", "%q is not a hex color", accent)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accent = accent
	return p.renderLocked(p.snap.Doc)
}

func (p *Previewer) SetViewport(v Viewport) error {
	if !v.Valid() {
		return domain.NewValidationError("viewport", "must be %q or %q", Desktop, Mobile)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewport = v
	return nil
}

func (p *Previewer) Viewport() Viewport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewport
}

func (p *Previewer) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Err is the error of the last render attempt, nil once one succeeds.
func (p *Previewer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Markup is the snapshot inside its viewport frame.
func (p *Previewer) Markup() template.HTML {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Frame(p.viewport, p.snap.Markup)
}

// Close cancels the pending render. The snapshot stays readable.
func (p *Previewer) Close() {
	p.deb.Stop()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Frame wraps rendered markup in the viewport surface: a page-sized sheet
// on desktop, a small scrolling phone frame on mobile.
func Frame(v Viewport, inner template.HTML) template.HTML {
	class := "preview-desktop"
	if v == Mobile {
		class = "preview-mobile"
	}
	return template.HTML(`<div class="` + class + `">`) + inner + template.HTML(`</div>`)
}
