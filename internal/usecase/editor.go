package usecase

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/export"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/timer"
)

var (
	ErrEnhanceInFlight = fmt.Errorf("%w: this field is already being enhanced", domain.ErrConflict)
	ErrEditorClosed    = fmt.Errorf("%w: editor is closed", domain.ErrNotFound)
)

// MobileView is the pane shown on narrow screens.
type MobileView string

const (
	MobileForm    MobileView = "form"
	MobilePreview MobileView = "preview"
)

// EditorDeps are shared by every editor session.
type EditorDeps struct {
	Scheduler timer.Scheduler
	Debounce  time.Duration
	Enhancer  Enhancer
	Saver     CVSaver
	Pipeline  *export.Pipeline
	Consent   bool
	Countdown time.Duration
	Now       Clock
}

// Editor is one open editing session: a draft document plus the UI state
// around it. The draft is replaced, never mutated, on every edit.
type Editor struct {
	id   string
	lang i18n.Lang
	deps EditorDeps

	preview *render.Previewer
	flow    *export.Flow

	mu        sync.Mutex
	draft     *model.Document
	panels    map[model.SectionName]bool
	mobile    MobileView
	enhancing map[string]bool
	closed    bool
}

// NewEditor opens doc for editing. The preview is rendered before it
// returns.
func NewEditor(id string, lang i18n.Lang, doc *model.Document, reg *render.Registry, templateID, accent string, deps EditorDeps) (*Editor, error) {
	if deps.Scheduler == nil {
		deps.Scheduler = timer.Real{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	preview, err := render.NewPreviewer(reg, deps.Scheduler, deps.Debounce, doc, templateID, accent)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		id:        id,
		lang:      lang,
		deps:      deps,
		preview:   preview,
		flow:      export.NewFlow(deps.Scheduler, deps.Consent, deps.Countdown),
		draft:     doc,
		panels:    map[model.SectionName]bool{},
		mobile:    MobileForm,
		enhancing: map[string]bool{},
	}
	for _, s := range model.RequiredSections {
		e.panels[s] = true
	}
	return e, nil
}

func (e *Editor) ID() string      { return e.id }
func (e *Editor) Lang() i18n.Lang { return e.lang }

// Owner is the email of the user the draft belongs to.
func (e *Editor) Owner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.UserEmail
}

// Draft is the current document. Callers must not mutate it.
func (e *Editor) Draft() *model.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// apply runs edit against the current draft and installs the result.
func (e *Editor) apply(edit func(*model.Document) (*model.Document, error)) (*model.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEditorClosed
	}
	next, err := edit(e.draft)
	if err != nil {
		return nil, err
	}
	if next != e.draft {
		e.draft = next
		e.preview.Update(next)
	}
	return next, nil
}

func (e *Editor) EditField(section model.SectionName, key string, value any, index *int) (*model.Document, error) {
	return e.apply(func(d *model.Document) (*model.Document, error) {
		return d.WithField(section, key, value, index)
	})
}

func (e *Editor) SetCurrentlyEmployed(index int, on bool) (*model.Document, error) {
	return e.apply(func(d *model.Document) (*model.Document, error) {
		return d.WithCurrentlyEmployed(index, on)
	})
}

func (e *Editor) AddItem(section model.SectionName) (*model.Document, error) {
	return e.apply(func(d *model.Document) (*model.Document, error) {
		return d.WithItemAdded(section)
	})
}

func (e *Editor) RemoveItem(section model.SectionName, index int) (*model.Document, error) {
	return e.apply(func(d *model.Document) (*model.Document, error) {
		return d.WithItemRemoved(section, index)
	})
}

// AddOptionalSection adds the section when absent and opens its panel.
// Adding a present section changes nothing but the panel.
func (e *Editor) AddOptionalSection(section model.SectionName) (*model.Document, error) {
	doc, err := e.apply(func(d *model.Document) (*model.Document, error) {
		next, _, err := d.WithOptionalSection(section)
		return next, err
	})
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.panels[section] = true
	e.mu.Unlock()
	return doc, nil
}

// TogglePanel flips a panel and returns whether it is now open.
func (e *Editor) TogglePanel(section model.SectionName) (bool, error) {
	if !section.Known() || section == model.SectionTitle {
		return false, domain.NewValidationError("section", "unknown section %q", section)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrEditorClosed
	}
	e.panels[section] = !e.panels[section]
	return e.panels[section], nil
}

func (e *Editor) SetTemplate(id string) error   { return e.preview.SetTemplate(id) }
func (e *Editor) SetAccent(accent string) error { return e.preview.SetAccent(accent) }

func (e *Editor) SetViewport(v render.Viewport) error { return e.preview.SetViewport(v) }

func (e *Editor) SetMobileView(v MobileView) error {
	if v != MobileForm && v != MobilePreview {
		return domain.NewValidationError("mobileView", "must be %q or %q", MobileForm, MobilePreview)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mobile = v
	return nil
}

// Preview is the framed preview markup as last rendered.
func (e *Editor) Preview() template.HTML { return e.preview.Markup() }

// FlushPreview renders a pending edit now.
func (e *Editor) FlushPreview() bool { return e.preview.Flush() }

// fieldRef is a parsed enhance target: the summary or the description of
// the experience entry with itemID.
type fieldRef struct {
	key    string
	itemID string
}

func (e *Editor) resolve(ref string) (fieldRef, string, error) {
	if ref == string(model.SectionSummary) {
		return fieldRef{key: ref}, e.draft.Summary, nil
	}
	parts := strings.Split(ref, ".")
	if len(parts) == 3 && parts[0] == string(model.SectionExperience) && parts[2] == "description" {
		i, err := strconv.Atoi(parts[1])
		if err == nil && i >= 0 && i < len(e.draft.Experience) {
			item := e.draft.Experience[i]
			return fieldRef{key: "experience:" + item.ID, itemID: item.ID}, item.Description, nil
		}
		return fieldRef{}, "", domain.NewValidationError("field", "experience index %s out of range", parts[1])
	}
	return fieldRef{}, "", domain.NewValidationError("field", "%q cannot be enhanced", ref)
}

// Enhance rewrites the summary ("summary") or an experience description
// ("experience.<i>.description") through the AI boundary. The result is
// applied to whatever the draft is when the call returns. A field being
// enhanced rejects a second request with ErrEnhanceInFlight.
func (e *Editor) Enhance(ctx context.Context, ref string) (*model.Document, error) {
	if e.deps.Enhancer == nil {
		return nil, fmt.Errorf("text enhancement: %w", domain.ErrNotConfigured)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEditorClosed
	}
	field, text, err := e.resolve(ref)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.enhancing[field.key] {
		e.mu.Unlock()
		return nil, ErrEnhanceInFlight
	}
	e.enhancing[field.key] = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.enhancing, field.key)
		e.mu.Unlock()
	}()

	out, err := e.deps.Enhancer.EnhanceText(ctx, text, e.lang)
	if err != nil {
		return nil, err
	}

	return e.apply(func(d *model.Document) (*model.Document, error) {
		if field.itemID == "" {
			return d.WithField(model.SectionSummary, "", out, nil)
		}
		for i, item := range d.Experience {
			if item.ID == field.itemID {
				return d.WithField(model.SectionExperience, "description", out, &i)
			}
		}
		return nil, domain.NewValidationError("field", "experience entry was removed")
	})
}

// SaveAndExit validates and stores the draft, then closes the session.
func (e *Editor) SaveAndExit(ctx context.Context) (*model.Document, error) {
	if e.deps.Saver == nil {
		return nil, fmt.Errorf("cv store: %w", domain.ErrNotConfigured)
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEditorClosed
	}
	doc := e.draft.Clone()
	e.mu.Unlock()

	doc.Touch(e.deps.Now())
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := e.deps.Saver.SaveCV(ctx, doc); err != nil {
		return nil, err
	}
	slog.Info("cv saved", "id", doc.ID, "editor", e.id)
	e.Close()
	return doc, nil
}

// StartExport begins an export. Without the consent step the PDF is
// returned at once; otherwise the result is nil and the flow waits for
// ConfirmExport.
func (e *Editor) StartExport(ctx context.Context) (*export.Result, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	now, err := e.flow.Start()
	if err != nil || !now {
		return nil, err
	}
	return e.export(ctx)
}

func (e *Editor) ConfirmExport() error { return e.flow.Confirm() }
func (e *Editor) CancelExport() error  { return e.flow.Cancel() }

// CloseExport dismisses the sponsor content once the countdown is over
// and prints the preview.
func (e *Editor) CloseExport(ctx context.Context) (*export.Result, error) {
	ok, err := e.flow.Close()
	if err != nil || !ok {
		return nil, err
	}
	return e.export(ctx)
}

func (e *Editor) ExportStatus() export.Status { return e.flow.Status() }

func (e *Editor) export(ctx context.Context) (*export.Result, error) {
	if e.deps.Pipeline == nil {
		return nil, fmt.Errorf("pdf export: %w", domain.ErrNotConfigured)
	}
	// Print what is on screen; a pending draft is not rendered first.
	res, err := e.deps.Pipeline.Export(ctx, e.preview.Snapshot())
	if err != nil {
		slog.Warn("export failed", "editor", e.id, "error", err)
		return nil, err
	}
	slog.Info("cv exported", "editor", e.id, "bytes", len(res.PDF))
	return res, nil
}

func (e *Editor) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	return nil
}

// EditorState is a read-only view of a session for clients.
type EditorState struct {
	ID             string              `json:"id"`
	Document       *model.Document     `json:"document"`
	TemplateID     string              `json:"templateId"`
	Accent         string              `json:"accent"`
	Viewport       render.Viewport     `json:"viewport"`
	MobileView     MobileView          `json:"mobileView"`
	OpenPanels     []model.SectionName `json:"openPanels"`
	Addable        []model.SectionName `json:"addableSections"`
	Enhancing      []string            `json:"enhancing"`
	PreviewVersion uint64              `json:"previewVersion"`
	PreviewPending bool                `json:"previewPending"`
	Export         export.Status       `json:"export"`
}

func (e *Editor) State() EditorState {
	snap := e.preview.Snapshot()
	st := EditorState{
		ID:             e.id,
		TemplateID:     snap.TemplateID,
		Accent:         snap.Accent,
		Viewport:       e.preview.Viewport(),
		PreviewVersion: snap.Version,
		PreviewPending: e.preview.Pending(),
		Export:         e.flow.Status(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st.Document = e.draft
	st.MobileView = e.mobile
	st.Addable = e.draft.MissingSections()
	for _, s := range append(append([]model.SectionName{}, model.RequiredSections...), model.OptionalSections...) {
		if e.panels[s] {
			st.OpenPanels = append(st.OpenPanels, s)
		}
	}
	st.Enhancing = make([]string, 0, len(e.enhancing))
	for k := range e.enhancing {
		st.Enhancing = append(st.Enhancing, k)
	}
	sort.Strings(st.Enhancing)
	return st
}

// Close tears the session down: pending preview renders and a running
// export countdown are cancelled. It is safe to call more than once.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.preview.Close()
	e.flow.Stop()
}
