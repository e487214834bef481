package render

import (
	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
)

// catalog is the fixed template list in display order, with each
// template's default accent.
var catalog = []struct{ id, accent string }{
	{"minimalist", "#4f46e5"},
	{"corporate", "#1f2937"},
	{"creative-column", "#10b981"},
	{"infographic", "#3b82f6"},
	{"photo-focus", "#8b5cf6"},
	{"dark-mode", "#ec4899"},
	{"color-block", "#f59e0b"},
	{"typographic", "#d946ef"},
	{"modern-grid", "#06b6d4"},
	{"sidebar-nav", "#ef4444"},
}

const DefaultTemplateID = "minimalist"

// Registry is the set of templates with labels bound for one language.
type Registry struct {
	lang      i18n.Lang
	templates []Template
	byID      map[string]Template
}

func NewRegistry(lang i18n.Lang) *Registry {
	r := &Registry{lang: lang, byID: make(map[string]Template, len(catalog))}
	labels := i18n.LabelsFor(lang)
	for _, c := range catalog {
		t := &htmlTemplate{id: c.id, accent: c.accent, labels: labels}
		r.templates = append(r.templates, t)
		r.byID[c.id] = t
	}
	return r
}

func (r *Registry) Lang() i18n.Lang { return r.lang }

func (r *Registry) List() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

func (r *Registry) Get(id string) (Template, error) {
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, domain.NewValidationError("template", "unknown template %q", id)
}

// Registries caches one Registry per language.
type Registries map[i18n.Lang]*Registry

func NewRegistries() Registries {
	return Registries{i18n.EN: NewRegistry(i18n.EN), i18n.TR: NewRegistry(i18n.TR)}
}

func (rs Registries) For(lang i18n.Lang) *Registry {
	if r, ok := rs[lang]; ok {
		return r
	}
	return rs[i18n.EN]
}
