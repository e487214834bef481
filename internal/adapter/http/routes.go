package http

import "github.com/gofiber/fiber/v2"

// Register mounts every route on r, normally the /api/v1 group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", h.Health)
	r.Get("/templates", h.Templates)
	r.Get("/banners", h.ActiveBanners)

	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.RequireAuth, h.Logout)

	me := r.Group("/me", h.RequireAuth)
	me.Get("/", h.Me)
	me.Put("/", h.UpdateProfile)
	me.Put("/password", h.ChangePassword)
	me.Delete("/", h.DeleteAccount)

	cvs := r.Group("/cvs", h.RequireAuth)
	cvs.Get("/", h.ListCVs)
	cvs.Post("/", h.NewCV)
	cvs.Post("/import", h.ImportCV)
	cvs.Get("/:id", h.GetCV)
	cvs.Delete("/:id", h.DeleteCV)
	cvs.Post("/:id/edit", h.EditCV)

	ed := r.Group("/editors", h.RequireAuth)
	ed.Get("/:eid", h.EditorState)
	ed.Delete("/:eid", h.Discard)
	ed.Get("/:eid/preview", h.Preview)
	ed.Patch("/:eid/fields", h.EditField)
	ed.Put("/:eid/experience/:index/current", h.SetCurrentlyEmployed)
	ed.Post("/:eid/sections/:section", h.AddSection)
	ed.Post("/:eid/sections/:section/items", h.AddItem)
	ed.Delete("/:eid/sections/:section/items/:index", h.RemoveItem)
	ed.Post("/:eid/panels/:section", h.TogglePanel)
	ed.Patch("/:eid/appearance", h.SetAppearance)
	ed.Post("/:eid/enhance", h.Enhance)
	ed.Post("/:eid/save", h.Save)
	ed.Get("/:eid/export", h.ExportStatus)
	ed.Post("/:eid/export", h.StartExport)
	ed.Post("/:eid/export/confirm", h.ConfirmExport)
	ed.Post("/:eid/export/cancel", h.CancelExport)
	ed.Post("/:eid/export/close", h.CloseExport)

	admin := r.Group("/admin", h.RequireAuth, h.RequireAdmin)
	admin.Get("/users", h.ListUsers)
	admin.Put("/users/:email", h.UpdateUser)
	admin.Delete("/users/:email", h.DeleteUser)
	admin.Post("/users/:email/ban", h.ToggleBan)
	admin.Get("/stats", h.Stats)
	admin.Get("/banners", h.ListBanners)
	admin.Post("/banners", h.CreateBanner)
	admin.Put("/banners/:id", h.UpdateBanner)
	admin.Delete("/banners/:id", h.DeleteBanner)
}
