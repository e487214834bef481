package usecase

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
)

// Editors keeps the open editor sessions. A session not touched for the
// idle timeout is evicted and closed, so no timer outlives its editor.
type Editors struct {
	deps       EditorDeps
	registries render.Registries
	sessions   *cache.Cache
}

func NewEditors(deps EditorDeps, registries render.Registries, idle time.Duration) *Editors {
	expiry, cleanup := idle, time.Minute
	if idle <= 0 {
		expiry, cleanup = cache.NoExpiration, 0
	} else if idle < cleanup {
		cleanup = idle
	}
	c := cache.New(expiry, cleanup)
	c.OnEvicted(func(id string, v interface{}) {
		if e, ok := v.(*Editor); ok {
			e.Close()
			slog.Info("editor closed", "editor", id)
		}
	})
	return &Editors{deps: deps, registries: registries, sessions: c}
}

// Open starts a session on doc with the given template and accent.
func (r *Editors) Open(doc *model.Document, lang i18n.Lang, templateID, accent string) (*Editor, error) {
	if templateID == "" {
		templateID = render.DefaultTemplateID
	}
	e, err := NewEditor(uuid.NewString(), lang, doc, r.registries.For(lang), templateID, accent, r.deps)
	if err != nil {
		return nil, err
	}
	r.sessions.SetDefault(e.ID(), e)
	slog.Info("editor opened", "editor", e.ID(), "cv", doc.ID, "template", templateID)
	return e, nil
}

// Get returns a session owned by email, or any session for an admin. A
// successful lookup resets the idle timer.
func (r *Editors) Get(id, email string, admin bool) (*Editor, error) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e := v.(*Editor)
	if !admin && e.Owner() != email {
		return nil, domain.ErrForbidden
	}
	if e.checkOpen() != nil {
		r.sessions.Delete(id)
		return nil, ErrEditorClosed
	}
	r.sessions.SetDefault(e.ID(), e)
	return e, nil
}

// Remove closes and forgets a session.
func (r *Editors) Remove(id string) { r.sessions.Delete(id) }

func (r *Editors) Count() int { return r.sessions.ItemCount() }

// CloseAll closes every session, for shutdown.
func (r *Editors) CloseAll() {
	for id := range r.sessions.Items() {
		r.sessions.Delete(id)
	}
}

// CloseOwnedBy closes every session of a user, after the account is
// deleted or banned.
func (r *Editors) CloseOwnedBy(email string) {
	for id, item := range r.sessions.Items() {
		if e, ok := item.Object.(*Editor); ok && e.Owner() == email {
			r.sessions.Delete(id)
		}
	}
}
