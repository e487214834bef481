// Package render turns a Document into CV markup. Each visual template is
// an html/template layout sharing one set of section partials.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"cv-builder/internal/i18n"
	"cv-builder/internal/model"

	"golang.org/x/net/publicsuffix"
)

// Template renders a document with an accent color. Implementations are
// pure: the same input always gives the same markup and nothing else is
// touched.
type Template interface {
	ID() string
	DisplayNameKey() string
	DefaultAccent() string
	Render(doc *model.Document, accent string) (template.HTML, error)
}

//go:embed templates/*.html templates/style.css
var files embed.FS

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	layouts  = template.Must(template.New("cv").Funcs(funcs).ParseFS(files, "templates/*.html"))
)

// Stylesheet is the CSS every template relies on. It is inlined wherever
// markup leaves the service.
func Stylesheet() string {
	b, err := files.ReadFile("templates/style.css")
	if err != nil {
		panic(err)
	}
	return string(b)
}

// ValidAccent reports whether c is a CSS hex color.
func ValidAccent(c string) bool { return hexColor.MatchString(c) }

type view struct {
	Doc    *model.Document
	Accent template.CSS
	L      i18n.Labels
}

type htmlTemplate struct {
	id     string
	accent string
	labels i18n.Labels
}

func (t *htmlTemplate) ID() string             { return t.id }
func (t *htmlTemplate) DisplayNameKey() string { return "template." + t.id }
func (t *htmlTemplate) DefaultAccent() string  { return t.accent }

func (t *htmlTemplate) Render(doc *model.Document, accent string) (template.HTML, error) {
	if doc == nil {
		return "", fmt.Errorf("render %s: nil document", t.id)
	}
	if !ValidAccent(accent) {
		accent = t.accent
	}
	var buf bytes.Buffer
	v := view{Doc: doc, Accent: template.CSS(accent), L: t.labels}
	if err := layouts.ExecuteTemplate(&buf, t.id, v); err != nil {
		return "", fmt.Errorf("render %s: %w", t.id, err)
	}
	return template.HTML(buf.String()), nil
}

var funcs = template.FuncMap{
	"picture":   picture,
	"linkLabel": linkLabel,
	"levelPct":  func(level int) int { return clampLevel(level) * 20 },
	"dots":      dots,
	"initials":  initials,
	"endDate": func(l i18n.Labels, end string) string {
		if end == model.PresentSentinel {
			return l.Present
		}
		return end
	},
	"proficiency": func(l i18n.Labels, p model.Proficiency) string {
		if s, ok := l.Proficiency[string(p)]; ok {
			return s
		}
		return string(p)
	},
}

// picture returns a src attribute value only for sources a CV may embed.
func picture(src string) template.URL {
	if !model.IsPictureSource(src) {
		return ""
	}
	return template.URL(src)
}

// linkLabel shows a link by its registrable domain, "https://www.github.com/x"
// becomes "github.com".
func linkLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 5 {
		return 5
	}
	return level
}

func dots(level int) []bool {
	out := make([]bool, 5)
	for i := 0; i < clampLevel(level); i++ {
		out[i] = true
	}
	return out
}

func initials(name string) string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return ""
	}
	out := strings.ToUpper(string([]rune(f[0])[:1]))
	if len(f) > 1 {
		out += strings.ToUpper(string([]rune(f[len(f)-1])[:1]))
	}
	return out
}
