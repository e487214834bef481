package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/pkg/ai/formatters"
)

// ErrNotConfigured is returned by every call when no generator is wired.
var ErrNotConfigured = fmt.Errorf("AI provider %w", domain.ErrNotConfigured)

// Request is one prompt. JSON asks for a single object shaped like the CV
// import schema.
type Request struct {
	Prompt string
	JSON   bool
}

// Generator sends a prompt to a language model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client is the text enhancement and CV parse boundary. It makes exactly
// one generator call per operation.
type Client struct {
	gen    Generator
	policy *bluemonday.Policy
}

// NewClient wraps gen. A nil gen yields a client whose calls fail with
// ErrNotConfigured.
func NewClient(gen Generator) *Client {
	return &Client{gen: gen, policy: bluemonday.StrictPolicy()}
}

func (c *Client) Configured() bool { return c != nil && c.gen != nil }

// EnhanceText rewrites text in a more professional register. Blank input
// returns "" without calling the model.
func (c *Client) EnhanceText(ctx context.Context, text string, lang i18n.Lang) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	out, err := c.gen.Generate(ctx, Request{Prompt: formatters.EnhancePrompt(lang, text)})
	if err != nil {
		slog.Warn("ai.client: enhance failed", "lang", lang, "error", err)
		return "", &domain.UpstreamError{Message: i18n.MessagesFor(lang).EnhanceFailed, Cause: err}
	}
	return c.clean(out), nil
}

// ParseCV structures plain CV text into a partial document. Every list
// section of the result is present, possibly empty. A non-empty image is
// used as the profile picture.
func (c *Client) ParseCV(ctx context.Context, text, image string, lang i18n.Lang) (*model.Document, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "CV text is empty.")
	}

	fail := func(err error) error {
		slog.Warn("ai.client: parse failed", "error", err)
		return &domain.UpstreamError{Message: i18n.MessagesFor(lang).ParseFailed, Cause: err}
	}

	out, err := c.gen.Generate(ctx, Request{Prompt: formatters.ParsePrompt(text), JSON: true})
	if err != nil {
		return nil, fail(err)
	}
	m, err := formatters.ExtractJSON(out)
	if err != nil {
		return nil, fail(err)
	}
	formatters.NormalizeParsed(m)
	if err := model.ValidateMap(m); err != nil {
		return nil, fail(err)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fail(err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fail(err)
	}
	if image != "" {
		doc.PersonalInfo.ProfilePicture = image
	}
	return &doc, nil
}

// clean strips markup and the quotes the prompt wraps the text in.
func (c *Client) clean(s string) string {
	s = html.UnescapeString(c.policy.Sanitize(s))
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
