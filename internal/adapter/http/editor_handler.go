package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/export"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/usecase"
)

func (h *Handler) editor(c *fiber.Ctx) (*usecase.Editor, error) {
	u := currentUser(c)
	return h.editors.Get(param(c, "eid"), u.Email, u.IsAdmin())
}

// withEditor adapts an editor operation into a handler that answers with
// the editor state.
func (h *Handler) withEditor(op func(c *fiber.Ctx, e *usecase.Editor) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := h.editor(c)
		if err != nil {
			return err
		}
		if err := op(c, e); err != nil {
			return err
		}
		return c.JSON(e.State())
	}
}

func section(c *fiber.Ctx) model.SectionName { return model.SectionName(param(c, "section")) }

func (h *Handler) EditorState(c *fiber.Ctx) error {
	return h.withEditor(func(*fiber.Ctx, *usecase.Editor) error { return nil })(c)
}

// Preview serves the framed preview markup. ?flush=true renders pending
// edits first.
func (h *Handler) Preview(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	if c.QueryBool("flush") {
		e.FlushPreview()
	}
	c.Type("html", "utf-8")
	return c.SendString(string(e.Preview()))
}

type fieldReq struct {
	Section model.SectionName `json:"section"`
	Key     string            `json:"key"`
	Value   any               `json:"value"`
	Index   *int              `json:"index"`
}

func (h *Handler) EditField(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		_, err := e.EditField(req.Section, req.Key, req.Value, req.Index)
		return err
	})(c)
}

type employedReq struct {
	On bool `json:"on"`
}

func (h *Handler) SetCurrentlyEmployed(c *fiber.Ctx) error {
	var req employedReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		i, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid index")
		}
		_, err = e.SetCurrentlyEmployed(i, req.On)
		return err
	})(c)
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		_, err := e.AddItem(section(c))
		return err
	})(c)
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		i, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid index")
		}
		_, err = e.RemoveItem(section(c), i)
		return err
	})(c)
}

func (h *Handler) AddSection(c *fiber.Ctx) error {
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		_, err := e.AddOptionalSection(section(c))
		return err
	})(c)
}

func (h *Handler) TogglePanel(c *fiber.Ctx) error {
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		_, err := e.TogglePanel(section(c))
		return err
	})(c)
}

// appearanceReq changes how the preview looks. Absent fields are left as
// they are.
type appearanceReq struct {
	TemplateID *string `json:"templateId"`
	Accent     *string `json:"accent"`
	Viewport   *string `json:"viewport"`
	MobileView *string `json:"mobileView"`
}

func (h *Handler) SetAppearance(c *fiber.Ctx) error {
	var req appearanceReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		if req.TemplateID != nil {
			if err := e.SetTemplate(*req.TemplateID); err != nil {
				return err
			}
		}
		if req.Accent != nil {
			if err := e.SetAccent(*req.Accent); err != nil {
				return err
			}
		}
		if req.Viewport != nil {
			if err := e.SetViewport(render.Viewport(*req.Viewport)); err != nil {
				return err
			}
		}
		if req.MobileView != nil {
			return e.SetMobileView(usecase.MobileView(*req.MobileView))
		}
		return nil
	})(c)
}

type enhanceReq struct {
	Field string `json:"field"`
}

// Enhance rewrites the summary or one experience description with the AI
// provider. The request blocks until the provider answers.
func (h *Handler) Enhance(c *fiber.Ctx) error {
	var req enhanceReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	return h.withEditor(func(c *fiber.Ctx, e *usecase.Editor) error {
		_, err := e.Enhance(c.UserContext(), req.Field)
		return err
	})(c)
}

// Save stores the draft and ends the session.
func (h *Handler) Save(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	doc, err := e.SaveAndExit(c.UserContext())
	if err != nil {
		return err
	}
	h.editors.Remove(e.ID())
	return c.JSON(doc)
}

// Discard ends the session without saving.
func (h *Handler) Discard(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	h.editors.Remove(e.ID())
	return c.SendStatus(fiber.StatusNoContent)
}

func sendPDF(c *fiber.Ctx, r *export.Result) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", r.Filename))
	return c.Send(r.PDF)
}

// exportResponse sends the PDF when one was produced, otherwise the
// current consent flow status.
func exportResponse(c *fiber.Ctx, e *usecase.Editor, r *export.Result) error {
	if r != nil {
		return sendPDF(c, r)
	}
	return c.Status(fiber.StatusAccepted).JSON(e.ExportStatus())
}

func (h *Handler) StartExport(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	r, err := e.StartExport(c.UserContext())
	if err != nil {
		return err
	}
	return exportResponse(c, e, r)
}

func (h *Handler) ConfirmExport(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	if err := e.ConfirmExport(); err != nil {
		return err
	}
	return c.JSON(e.ExportStatus())
}

func (h *Handler) CancelExport(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	if err := e.CancelExport(); err != nil {
		return err
	}
	return c.JSON(e.ExportStatus())
}

// CloseExport dismisses the sponsor content and downloads the PDF. It
// fails with 409 while the countdown is running.
func (h *Handler) CloseExport(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	r, err := e.CloseExport(c.UserContext())
	if err != nil {
		return err
	}
	return exportResponse(c, e, r)
}

func (h *Handler) ExportStatus(c *fiber.Ctx) error {
	e, err := h.editor(c)
	if err != nil {
		return err
	}
	return c.JSON(e.ExportStatus())
}
