package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"cv-builder/internal/domain"
	"cv-builder/internal/render"
)

// Printer turns a standalone HTML page into PDF bytes.
type Printer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

const pageCSS = `@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; background: #fff; }
body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
.a4-container { width: 210mm; min-height: 297mm; }
`

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body><div class="a4-container">{{.Markup}}</div></body>
</html>
`))

// Pipeline prints what the preview last rendered. It never re-renders the
// draft, so the PDF matches what was on screen.
type Pipeline struct {
	printer Printer
	css     template.CSS
}

func NewPipeline(p Printer) *Pipeline {
	return &Pipeline{printer: p, css: template.CSS(pageCSS + render.Stylesheet())}
}

// Materialize builds the isolated print surface: one A4 page holding only
// the rendered markup and the styles it needs.
func (p *Pipeline) Materialize(markup template.HTML, title string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Title  string
		CSS    template.CSS
		Markup template.HTML
	}{title, p.css, markup}
	if err := page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("materialize print page: %w", err)
	}
	return buf.String(), nil
}

type Result struct {
	PDF      []byte
	Filename string
}

// Export prints a preview snapshot.
func (p *Pipeline) Export(ctx context.Context, snap render.Snapshot) (*Result, error) {
	if p.printer == nil {
		return nil, fmt.Errorf("pdf printer: %w", domain.ErrNotConfigured)
	}
	if snap.Markup == "" {
		return nil, domain.NewValidationError("preview", "nothing has been rendered yet")
	}
	title := "CV"
	if snap.Doc != nil && snap.Doc.Title != "" {
		title = snap.Doc.Title
	}
	html, err := p.Materialize(snap.Markup, title)
	if err != nil {
		return nil, err
	}
	pdf, err := p.printer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, &domain.UpstreamError{Message: "PDF export failed", Cause: err}
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, &domain.UpstreamError{Message: "PDF export failed", Cause: fmt.Errorf("printer returned %d bytes without a PDF header", len(pdf))}
	}
	return &Result{PDF: pdf, Filename: Filename(title)}, nil
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Filename makes a download name from a CV title.
func Filename(title string) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "cv"
	}
	return slug + ".pdf"
}
