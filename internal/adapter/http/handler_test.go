package http

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-builder/internal/adapter/repository"
	"cv-builder/internal/domain"
	"cv-builder/internal/export"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/timer/timertest"
	"cv-builder/internal/usecase"
)

const adminEmail = "admin@example.com"

type stubParser struct {
	doc *model.Document
	err error
}

func (p stubParser) ParseCV(context.Context, string, string, i18n.Lang) (*model.Document, error) {
	return p.doc, p.err
}

type stubEnhancer struct{ out string }

func (e stubEnhancer) EnhanceText(context.Context, string, i18n.Lang) (string, error) {
	return e.out, nil
}

type stubPrinter struct{}

func (stubPrinter) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.7\n%stub"), nil
}

type fixture struct {
	app     *fiber.App
	core    *usecase.App
	editors *usecase.Editors
	clock   *timertest.Manual
}

func newFixture(t *testing.T, consent bool, parser usecase.Parser) *fixture {
	t.Helper()
	core, err := usecase.NewApp(context.Background(),
		repository.NewCollections(repository.NewMemoryStore()),
		usecase.AppConfig{AdminEmails: []string{adminEmail}, BcryptCost: 4})
	require.NoError(t, err)

	clock := timertest.New()
	registries := render.NewRegistries()
	editors := usecase.NewEditors(usecase.EditorDeps{
		Scheduler: clock,
		Debounce:  render.DefaultDebounce,
		Enhancer:  stubEnhancer{out: "Polished summary"},
		Saver:     core,
		Pipeline:  export.NewPipeline(stubPrinter{}),
		Consent:   consent,
		Countdown: export.DefaultCountdown,
		Now:       time.Now,
	}, registries, 0)
	t.Cleanup(editors.CloseAll)

	h := NewHandler(core, editors, parser, registries, Options{
		JWTSecret:   []byte("test-secret"),
		MaxFileSize: 1 << 20,
		DefaultLang: i18n.EN,
	})
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h.Register(app.Group("/api/v1"))
	return &fixture{app: app, core: core, editors: editors, clock: clock}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return f.send(t, req, token)
}

func (f *fixture) send(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := f.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var out loginResp
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func (f *fixture) newEditor(t *testing.T, token string) usecase.EditorState {
	t.Helper()
	resp, body := f.do(t, fiber.MethodPost, "/cvs", token, fiber.Map{"templateId": "corporate"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	return decode[usecase.EditorState](t, body)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("email", "bad"), fiber.StatusBadRequest},
		{fmt.Errorf("ai: %w", domain.ErrNotConfigured), fiber.StatusServiceUnavailable},
		{&domain.UpstreamError{Message: "AI failed", Cause: errors.New("boom")}, fiber.StatusBadGateway},
		{domain.ErrUnsupportedFile, fiber.StatusUnsupportedMediaType},
		{usecase.ErrEditorClosed, fiber.StatusNotFound},
		{domain.ErrBanned, fiber.StatusForbidden},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{export.ErrCountdownActive, fiber.StatusConflict},
		{fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestLogin_RegistersAndAuthenticates(t *testing.T) {
	f := newFixture(t, false, nil)

	resp, body := f.do(t, fiber.MethodGet, "/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, float64(401), decode[fiber.Map](t, body)["code"])

	token := f.login(t, "Jane@Example.com")
	resp, body = f.do(t, fiber.MethodGet, "/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decode[domain.User](t, body)
	assert.Equal(t, "jane@example.com", me.Email)
	assert.Empty(t, me.PasswordHash)

	resp, _ = f.do(t, fiber.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(t, fiber.MethodGet, "/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, false, nil)
	f.login(t, "jane@example.com")

	resp, _ := f.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{"email": "jane@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := f.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{"email": "not-an-email", "password": "secret123"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email", decode[fiber.Map](t, body)["field"])

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body = f.send(t, req, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid payload", decode[fiber.Map](t, body)["error"])

	resp, _ = f.do(t, fiber.MethodGet, "/me", "not.a.token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTemplates_Localized(t *testing.T) {
	f := newFixture(t, false, nil)
	resp, body := f.do(t, fiber.MethodGet, "/templates?lang=en", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := decode[[]templateView](t, body)
	require.Len(t, list, 10)
	assert.Equal(t, "minimalist", list[0].ID)
	assert.Equal(t, "#4f46e5", list[0].DefaultAccent)
	assert.NotEqual(t, "template.minimalist", list[0].Name)
}

func TestEditor_EditAndSave(t *testing.T) {
	f := newFixture(t, false, nil)
	token := f.login(t, "jane@example.com")

	st := f.newEditor(t, token)
	assert.Equal(t, "corporate", st.TemplateID)
	assert.Equal(t, "jane@example.com", st.Document.UserEmail)

	resp, body := f.do(t, fiber.MethodPatch, "/editors/"+st.ID+"/fields", token,
		fiber.Map{"section": "personalInfo", "key": "fullName", "value": "Jane Doe"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	st = decode[usecase.EditorState](t, body)
	assert.Equal(t, "Jane Doe", st.Document.PersonalInfo.FullName)
	assert.True(t, st.PreviewPending)

	resp, body = f.do(t, fiber.MethodGet, "/editors/"+st.ID+"/preview?flush=true", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, string(body), "Jane Doe")

	resp, body = f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/save", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, fiber.MethodGet, "/cvs", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cvs := decode[[]model.Document](t, body)
	require.Len(t, cvs, 1)
	assert.Equal(t, "Jane Doe", cvs[0].PersonalInfo.FullName)

	resp, _ = f.do(t, fiber.MethodGet, "/editors/"+st.ID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, f.editors.Count())
}

func TestEditor_SectionsAndAppearance(t *testing.T) {
	f := newFixture(t, false, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)
	base := "/editors/" + st.ID

	resp, body := f.do(t, fiber.MethodPost, base+"/sections/certificates", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	st = decode[usecase.EditorState](t, body)
	assert.NotContains(t, st.Addable, model.SectionCertificates)
	assert.Contains(t, st.OpenPanels, model.SectionCertificates)

	resp, body = f.do(t, fiber.MethodPost, base+"/sections/certificates/items", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	st = decode[usecase.EditorState](t, body)
	assert.Len(t, st.Document.Certificates.Items, 1)

	resp, body = f.do(t, fiber.MethodDelete, base+"/sections/certificates/items/0", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	st = decode[usecase.EditorState](t, body)
	assert.True(t, st.Document.Certificates.Present)
	assert.Empty(t, st.Document.Certificates.Items)

	resp, _ = f.do(t, fiber.MethodDelete, base+"/sections/certificates/items/3", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, fiber.MethodPatch, base+"/appearance", token,
		fiber.Map{"templateId": "dark-mode", "accent": "#112233", "viewport": "mobile", "mobileView": "preview"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	st = decode[usecase.EditorState](t, body)
	assert.Equal(t, "dark-mode", st.TemplateID)
	assert.Equal(t, "#112233", st.Accent)
	assert.Equal(t, render.Mobile, st.Viewport)
	assert.Equal(t, usecase.MobilePreview, st.MobileView)

	resp, _ = f.do(t, fiber.MethodPatch, base+"/appearance", token, fiber.Map{"templateId": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEditor_Enhance(t *testing.T) {
	f := newFixture(t, false, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)

	resp, body := f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/enhance", token, fiber.Map{"field": "summary"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Polished summary", decode[usecase.EditorState](t, body).Document.Summary)

	resp, _ = f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/enhance", token, fiber.Map{"field": "title"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEditor_OwnerOnly(t *testing.T) {
	f := newFixture(t, false, nil)
	jane := f.login(t, "jane@example.com")
	bob := f.login(t, "bob@example.com")
	admin := f.login(t, adminEmail)
	st := f.newEditor(t, jane)

	resp, _ := f.do(t, fiber.MethodGet, "/editors/"+st.ID, bob, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = f.do(t, fiber.MethodGet, "/editors/"+st.ID, admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, fiber.MethodGet, "/editors/missing", jane, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestExport_Ungated(t *testing.T) {
	f := newFixture(t, false, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)

	resp, body := f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/export", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestExport_ConsentFlow(t *testing.T) {
	f := newFixture(t, true, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)
	base := "/editors/" + st.ID + "/export"

	resp, body := f.do(t, fiber.MethodPost, base, token, nil)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode, string(body))
	assert.Equal(t, export.PreConfirmation, decode[export.Status](t, body).State)

	resp, body = f.do(t, fiber.MethodPost, base+"/confirm", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	status := decode[export.Status](t, body)
	assert.Equal(t, export.SponsorContent, status.State)
	assert.Equal(t, 5, status.Seconds)
	assert.False(t, status.CanClose)

	resp, _ = f.do(t, fiber.MethodPost, base+"/close", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	f.clock.Advance(export.DefaultCountdown)
	resp, body = f.do(t, fiber.MethodGet, base, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[export.Status](t, body).CanClose)

	resp, body = f.do(t, fiber.MethodPost, base+"/close", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))

	resp, body = f.do(t, fiber.MethodGet, base, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.Idle, decode[export.Status](t, body).State)
}

func TestExport_Cancel(t *testing.T) {
	f := newFixture(t, true, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)
	base := "/editors/" + st.ID + "/export"

	resp, _ := f.do(t, fiber.MethodPost, base+"/cancel", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	f.do(t, fiber.MethodPost, base, token, nil)
	resp, body := f.do(t, fiber.MethodPost, base+"/cancel", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.Idle, decode[export.Status](t, body).State)
}

const docxTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Parsed Person</w:t></w:r></w:p></w:body>
</w:document>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"[Content_Types].xml", docxTypes},
		{"word/document.xml", docxBody},
		{"word/_rels/document.xml.rels", docxRels},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	w, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/cvs/import?lang=en", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	return req
}

func TestImport_DOCX(t *testing.T) {
	parsed := &model.Document{PersonalInfo: model.PersonalInfo{FullName: "Parsed Person"}}
	f := newFixture(t, false, stubParser{doc: parsed})
	token := f.login(t, "jane@example.com")

	resp, body := f.send(t, uploadRequest(t, "cv.docx", buildDOCX(t)), token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	st := decode[usecase.EditorState](t, body)
	assert.Equal(t, "Parsed Person", st.Document.PersonalInfo.FullName)
	assert.Equal(t, "jane@example.com", st.Document.UserEmail)
	assert.Equal(t, 1, f.editors.Count())
}

func TestImport_Failures(t *testing.T) {
	f := newFixture(t, false, stubParser{err: &domain.UpstreamError{Message: "AI failed", Cause: errors.New("boom")}})
	token := f.login(t, "jane@example.com")

	resp, _ := f.send(t, uploadRequest(t, "notes.txt", []byte("just some plain text")), token)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	resp, body := f.send(t, uploadRequest(t, "cv.docx", buildDOCX(t)), token)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "AI failed", decode[fiber.Map](t, body)["error"])

	resp, _ = f.send(t, uploadRequest(t, "big.docx", bytes.Repeat([]byte("x"), 2<<20)), token)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, 0, f.editors.Count())
}

func TestAdmin_UsersAndBanners(t *testing.T) {
	f := newFixture(t, false, nil)
	jane := f.login(t, "jane@example.com")
	admin := f.login(t, adminEmail)

	resp, _ := f.do(t, fiber.MethodGet, "/admin/users", jane, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, fiber.MethodGet, "/admin/users?q=JANE", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	users := decode[[]domain.User](t, body)
	require.Len(t, users, 1)
	assert.Equal(t, "jane@example.com", users[0].Email)

	resp, body = f.do(t, fiber.MethodPost, "/admin/banners", admin, fiber.Map{
		"imageUrl": "https://ads.example.com/a.png", "linkUrl": "https://example.com",
		"placement": "dashboard", "isActive": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	banner := decode[domain.AdBanner](t, body)
	assert.NotEmpty(t, banner.ID)

	resp, body = f.do(t, fiber.MethodGet, "/banners?placement=dashboard", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.AdBanner](t, body), 1)
	resp, _ = f.do(t, fiber.MethodGet, "/banners?placement=sidebar", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, fiber.MethodGet, "/admin/stats", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[usecase.Stats](t, body)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveBanners)

	resp, _ = f.do(t, fiber.MethodDelete, "/admin/banners/"+banner.ID, admin, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestPathParams_OutliveRequest(t *testing.T) {
	f := newFixture(t, false, nil)
	jane := f.login(t, "jane@example.com")
	admin := f.login(t, adminEmail)
	st := f.newEditor(t, jane)

	resp, body := f.do(t, fiber.MethodPost, "/admin/banners", admin, fiber.Map{
		"imageUrl": "https://ads.example.com/a.png", "linkUrl": "https://example.com",
		"placement": "dashboard", "isActive": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	banner := decode[domain.AdBanner](t, body)
	resp, body = f.do(t, fiber.MethodPut, "/admin/banners/"+banner.ID, admin, fiber.Map{
		"imageUrl": "https://ads.example.com/b.png", "linkUrl": "https://example.com",
		"placement": "dashboard", "isActive": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/sections/projects", jane, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	resp, body = f.do(t, fiber.MethodGet, "/editors/"+st.ID, jane, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	noise := strings.Repeat("z", 64)
	for i := 0; i < 50; i++ {
		f.do(t, fiber.MethodGet, "/cvs/"+noise, jane, nil)
		f.do(t, fiber.MethodPost, "/editors/"+noise+"/panels/"+noise, jane, nil)
	}

	banners := f.core.Banners()
	require.Len(t, banners, 1)
	assert.Equal(t, banner.ID, banners[0].ID)

	e, err := f.editors.Get(st.ID, "jane@example.com", false)
	require.NoError(t, err)
	assert.Contains(t, e.State().OpenPanels, model.SectionProjects)
}

func TestAdmin_BanClosesSessions(t *testing.T) {
	f := newFixture(t, false, nil)
	jane := f.login(t, "jane@example.com")
	admin := f.login(t, adminEmail)
	f.newEditor(t, jane)

	resp, body := f.do(t, fiber.MethodPost, "/admin/users/jane%40example.com/ban", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.True(t, decode[domain.User](t, body).IsBanned())
	assert.Equal(t, 0, f.editors.Count())

	resp, _ = f.do(t, fiber.MethodGet, "/me", jane, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{"email": "jane@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, fiber.MethodPost, "/admin/users/"+adminEmail+"/ban", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProfile_EmailChangeKeepsSession(t *testing.T) {
	f := newFixture(t, false, nil)
	token := f.login(t, "jane@example.com")
	st := f.newEditor(t, token)
	_, _ = f.do(t, fiber.MethodPost, "/editors/"+st.ID+"/save", token, nil)

	resp, body := f.do(t, fiber.MethodPut, "/me", token, fiber.Map{"fullName": "Jane D", "email": "jd@example.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, fiber.MethodGet, "/cvs", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cvs := decode[[]model.Document](t, body)
	require.Len(t, cvs, 1)
	assert.Equal(t, "jd@example.com", cvs[0].UserEmail)

	resp, _ = f.do(t, fiber.MethodPut, "/me/password", token, fiber.Map{"password": "abc", "confirmPassword": "abc"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, fiber.MethodDelete, "/me", token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(t, fiber.MethodGet, "/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
