package http

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"cv-builder/internal/domain"
	"cv-builder/internal/model"
	"cv-builder/pkg/extract"
)

func (h *Handler) ListCVs(c *fiber.Ctx) error {
	return c.JSON(h.app.CVs(currentUser(c).Email))
}

func (h *Handler) GetCV(c *fiber.Ctx) error {
	u := currentUser(c)
	doc, err := h.app.CV(param(c, "id"), u.Email, u.IsAdmin())
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (h *Handler) DeleteCV(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.app.DeleteCV(c.UserContext(), param(c, "id"), u.Email, u.IsAdmin()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type openReq struct {
	TemplateID string `json:"templateId"`
	Accent     string `json:"accent"`
}

func (h *Handler) parseOpen(c *fiber.Ctx) (openReq, error) {
	req := openReq{TemplateID: h.opts.DefaultTemplate, Accent: h.opts.DefaultAccent}
	if len(c.Body()) == 0 {
		return req, nil
	}
	err := c.BodyParser(&req)
	if req.TemplateID == "" {
		req.TemplateID = h.opts.DefaultTemplate
	}
	return req, err
}

// openEditor starts an editor on doc and answers with its state.
func (h *Handler) openEditor(c *fiber.Ctx, doc *model.Document, req openReq, status int) error {
	e, err := h.editors.Open(doc, h.lang(c), req.TemplateID, req.Accent)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(e.State())
}

// NewCV opens an editor on a freshly seeded document. Nothing is stored
// until the editor saves.
func (h *Handler) NewCV(c *fiber.Ctx) error {
	req, err := h.parseOpen(c)
	if err != nil {
		return badPayload(c)
	}
	doc := h.app.NewCV(currentUser(c).Email, h.lang(c), nil)
	return h.openEditor(c, doc, req, fiber.StatusCreated)
}

// EditCV opens an editor on a stored CV.
func (h *Handler) EditCV(c *fiber.Ctx) error {
	req, err := h.parseOpen(c)
	if err != nil {
		return badPayload(c)
	}
	u := currentUser(c)
	doc, err := h.app.CV(param(c, "id"), u.Email, u.IsAdmin())
	if err != nil {
		return err
	}
	return h.openEditor(c, doc, req, fiber.StatusOK)
}

// ImportCV reads an uploaded PDF or DOCX, has the AI provider structure
// it and opens an editor on the result.
func (h *Handler) ImportCV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "a PDF or DOCX file is required")
	}
	if h.opts.MaxFileSize > 0 && fh.Size > h.opts.MaxFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file size exceeds %d MB", h.opts.MaxFileSize/(1024*1024)))
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := extract.File(data)
	if err != nil {
		return err
	}
	slog.Info("cv uploaded", "file", fh.Filename, "mime", res.Mime, "chars", len(res.Text), "image", res.Image != "")

	if h.parser == nil {
		return fmt.Errorf("cv import: %w", domain.ErrNotConfigured)
	}
	lang := h.lang(c)
	parsed, err := h.parser.ParseCV(c.UserContext(), res.Text, res.Image, lang)
	if err != nil {
		return err
	}
	doc := h.app.NewCV(currentUser(c).Email, lang, parsed)
	req := openReq{
		TemplateID: utils.CopyString(c.FormValue("templateId", h.opts.DefaultTemplate)),
		Accent:     utils.CopyString(c.FormValue("accent", h.opts.DefaultAccent)),
	}
	return h.openEditor(c, doc, req, fiber.StatusCreated)
}
