// Command render_sample renders a CV document with one template and writes
// the print page to disk, optionally printing it to PDF as well.
//
//	go run ./cmd/render_sample -in cv.json -template corporate -pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cv-builder/internal/export"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	infra "cv-builder/pkg/infrastructure"
)

func main() {
	in := flag.String("in", "", "CV document JSON; the seed document when empty")
	tplID := flag.String("template", render.DefaultTemplateID, "template id")
	accent := flag.String("accent", "", "accent color, template default when empty")
	lang := flag.String("lang", "en", "label language (en, tr)")
	outDir := flag.String("out", filepath.Join("data", "generated"), "output directory")
	asPDF := flag.Bool("pdf", false, "also print a PDF with headless Chrome")
	flag.Parse()

	l := i18n.Normalize(*lang, i18n.EN)
	doc := model.NewDefault(l, "sample@example.com", time.Now())
	if *in != "" {
		b, err := os.ReadFile(*in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read document: %v\n", err)
			os.Exit(2)
		}
		var imported model.Document
		if err := json.Unmarshal(b, &imported); err != nil {
			fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
			os.Exit(2)
		}
		doc = model.NewDocument(l, "sample@example.com", &imported, time.Now())
	}

	tpl, err := render.NewRegistry(l).Get(*tplID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "template: %v\n", err)
		os.Exit(2)
	}
	markup, err := tpl.Render(doc, *accent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}

	printer := infra.NewChromedpPrinter(os.Getenv("CHROME_PATH"), 0)
	pipeline := export.NewPipeline(printer)
	html, err := pipeline.Materialize(markup, doc.Title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "materialize: %v\n", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	htmlFile := filepath.Join(*outDir, *tplID+".html")
	if err := os.WriteFile(htmlFile, []byte(html), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write html: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", htmlFile)

	if !*asPDF {
		return
	}
	res, err := pipeline.Export(context.Background(), render.Snapshot{Doc: doc, TemplateID: *tplID, Accent: *accent, Markup: markup})
	if err != nil {
		fmt.Fprintf(os.Stderr, "export pdf: %v\n", err)
		os.Exit(1)
	}
	pdfFile := filepath.Join(*outDir, res.Filename)
	if err := os.WriteFile(pdfFile, res.PDF, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write pdf: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", pdfFile)
}
