// Package extract turns an uploaded CV file into plain text and, for
// Word documents, the first embedded image.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"cv-builder/internal/domain"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Result is what an upload yields. Image is a base64 data URI or empty.
type Result struct {
	Mime  string
	Text  string
	Image string
}

// Detect returns the accepted MIME type of b or domain.ErrUnsupportedFile.
func Detect(b []byte) (string, error) {
	mt := mimetype.Detect(b)
	switch {
	case mt.Is(MimePDF):
		return MimePDF, nil
	case mt.Is(MimeDOCX):
		return MimeDOCX, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, mt.String())
}

// File extracts the text of a PDF or DOCX upload.
func File(b []byte) (*Result, error) {
	mime, err := Detect(b)
	if err != nil {
		return nil, err
	}
	res := &Result{Mime: mime}
	switch mime {
	case MimePDF:
		res.Text, err = PDFText(b)
	case MimeDOCX:
		res.Text, err = DOCXText(b)
		if err == nil {
			res.Image = DOCXImage(b)
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PDFText returns the plain text of every page, pages separated by a
// blank line. Pages that fail to decode are skipped.
func PDFText(b []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return CleanText(sb.String()), nil
}

// DOCXText returns the text of the main document part, one line per
// paragraph.
func DOCXText(b []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	text, err := wordText(r.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	return CleanText(text), nil
}

// wordText walks WordprocessingML keeping runs of text, tabs and breaks.
func wordText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// DOCXImage returns the first image under word/media as a data URI, or ""
// when there is none.
func DOCXImage(b []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if path.Dir(f.Name) != "word/media" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "image/") {
			continue
		}
		return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	return ""
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
