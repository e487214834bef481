package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
	"cv-builder/internal/render"
	"cv-builder/internal/usecase"
)

// Options are the request-level settings taken from config.
type Options struct {
	JWTSecret       []byte
	MaxFileSize     int64
	DefaultLang     i18n.Lang
	DefaultTemplate string
	DefaultAccent   string
}

type Handler struct {
	app        *usecase.App
	editors    *usecase.Editors
	parser     usecase.Parser
	registries render.Registries
	opts       Options
}

func NewHandler(app *usecase.App, editors *usecase.Editors, parser usecase.Parser, registries render.Registries, opts Options) *Handler {
	if opts.DefaultLang == "" {
		opts.DefaultLang = i18n.TR
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = render.DefaultTemplateID
	}
	return &Handler{app: app, editors: editors, parser: parser, registries: registries, opts: opts}
}

// badPayload is returned when a request body does not decode.
func badPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload", "code": fiber.StatusBadRequest})
}

// lang picks the UI language from ?lang= or Accept-Language.
func (h *Handler) lang(c *fiber.Ctx) i18n.Lang {
	return i18n.Normalize(c.Query("lang", c.Get(fiber.HeaderAcceptLanguage)), h.opts.DefaultLang)
}

// param returns a path parameter with percent-escapes decoded. The value
// is copied out of the request buffer so it can outlive the request.
func param(c *fiber.Ctx, name string) string {
	raw := utils.CopyString(c.Params(name))
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "editors": h.editors.Count()})
}

type templateView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DefaultAccent string `json:"defaultAccent"`
}

// Templates lists the template catalog with localized names.
func (h *Handler) Templates(c *fiber.Ctx) error {
	lang := h.lang(c)
	list := h.registries.For(lang).List()
	out := make([]templateView, 0, len(list))
	for _, t := range list {
		out = append(out, templateView{
			ID:            t.ID(),
			Name:          i18n.Name(lang, t.DisplayNameKey()),
			DefaultAccent: t.DefaultAccent(),
		})
	}
	return c.JSON(out)
}

// ActiveBanners serves the ad banners shown on one page.
func (h *Handler) ActiveBanners(c *fiber.Ctx) error {
	p := domain.Placement(c.Query("placement", string(domain.PlacementDashboard)))
	if !p.Valid() {
		return domain.NewValidationError("placement", "unknown placement %q", p)
	}
	return c.JSON(h.app.ActiveBanners(p))
}
