package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	MinPasswordLength = 6
)

type AppConfig struct {
	AdminEmails []string
	SessionTTL  time.Duration
	BcryptCost  int
	Now         Clock
}

// App is the application-state container: users, CVs, ad banners and
// sessions. Every collection is loaded once and written back in full on
// each mutation. Slices are replaced, never mutated in place.
type App struct {
	store  Store
	admins map[string]bool
	ttl    time.Duration
	cost   int
	now    Clock

	mu       sync.RWMutex
	users    []domain.User
	cvs      []*model.Document
	banners  []domain.AdBanner
	sessions []domain.Session
}

func NewApp(ctx context.Context, store Store, cfg AppConfig) (*App, error) {
	a := &App{
		store:  store,
		admins: map[string]bool{},
		ttl:    cfg.SessionTTL,
		cost:   cfg.BcryptCost,
		now:    cfg.Now,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultSessionTTL
	}
	if a.cost == 0 {
		a.cost = bcrypt.DefaultCost
	}
	if a.now == nil {
		a.now = time.Now
	}
	for _, e := range cfg.AdminEmails {
		a.admins[normalizeEmail(e)] = true
	}

	var err error
	if a.users, err = store.Users(ctx); err != nil {
		return nil, err
	}
	if a.cvs, err = store.CVs(ctx); err != nil {
		return nil, err
	}
	if a.banners, err = store.Banners(ctx); err != nil {
		return nil, err
	}
	if a.sessions, err = store.Sessions(ctx); err != nil {
		return nil, err
	}
	slog.Info("application state loaded",
		"users", len(a.users), "cvs", len(a.cvs), "banners", len(a.banners), "sessions", len(a.sessions))
	return a, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (a *App) userIndex(email string) int {
	return slices.IndexFunc(a.users, func(u domain.User) bool { return u.Email == email })
}

func (a *App) commitUsers(ctx context.Context, users []domain.User) error {
	if err := a.store.SaveUsers(ctx, users); err != nil {
		return err
	}
	a.users = users
	return nil
}

func (a *App) commitCVs(ctx context.Context, cvs []*model.Document) error {
	if err := a.store.SaveCVs(ctx, cvs); err != nil {
		return err
	}
	a.cvs = cvs
	return nil
}

func (a *App) commitBanners(ctx context.Context, banners []domain.AdBanner) error {
	if err := a.store.SaveBanners(ctx, banners); err != nil {
		return err
	}
	a.banners = banners
	return nil
}

func (a *App) commitSessions(ctx context.Context, sessions []domain.Session) error {
	if err := a.store.SaveSessions(ctx, sessions); err != nil {
		return err
	}
	a.sessions = sessions
	return nil
}

// restore writes back the users and, when non-nil, the CVs an operation
// had already committed before a later write failed.
func (a *App) restore(ctx context.Context, users []domain.User, cvs []*model.Document) {
	if err := a.commitUsers(ctx, users); err != nil {
		slog.Error("restore users failed", "error", err)
	}
	if cvs == nil {
		return
	}
	if err := a.commitCVs(ctx, cvs); err != nil {
		slog.Error("restore cvs failed", "error", err)
	}
}

// Login signs a user in. An unknown email registers a new active account
// with a name derived from the email. Banned users are rejected.
func (a *App) Login(ctx context.Context, email, password string) (domain.User, domain.Session, error) {
	email = normalizeEmail(email)
	if err := model.ValidateStruct(credentials{Email: email, Password: password}); err != nil {
		return domain.User{}, domain.Session{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now().UTC()

	users := slices.Clone(a.users)
	changed := false
	i := a.userIndex(email)
	if i < 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
		if err != nil {
			return domain.User{}, domain.Session{}, err
		}
		users = append(users, domain.User{
			Email:        email,
			FullName:     domain.NameFromEmail(email),
			Role:         domain.RoleUser,
			JoinDate:     now,
			Status:       domain.StatusActive,
			PasswordHash: string(hash),
		})
		i = len(users) - 1
		changed = true
		slog.Info("user registered", "email", email)
	} else {
		u := users[i]
		if u.IsBanned() {
			return domain.User{}, domain.Session{}, domain.ErrBanned
		}
		if u.PasswordHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
			if err != nil {
				return domain.User{}, domain.Session{}, err
			}
			users[i].PasswordHash = string(hash)
			changed = true
		} else if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return domain.User{}, domain.Session{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
	}
	if a.admins[email] && users[i].Role != domain.RoleAdmin {
		users[i].Role = domain.RoleAdmin
		changed = true
	}
	if changed {
		if err := a.commitUsers(ctx, users); err != nil {
			return domain.User{}, domain.Session{}, err
		}
	}

	session := domain.Session{ID: uuid.NewString(), Email: email, CreatedAt: now, ExpiresAt: now.Add(a.ttl)}
	sessions := slices.DeleteFunc(slices.Clone(a.sessions), func(s domain.Session) bool { return s.Expired(now) })
	if err := a.commitSessions(ctx, append(sessions, session)); err != nil {
		return domain.User{}, domain.Session{}, err
	}
	return users[i].Public(), session, nil
}

func (a *App) Logout(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := slices.DeleteFunc(slices.Clone(a.sessions), func(s domain.Session) bool { return s.ID == sessionID })
	if len(sessions) == len(a.sessions) {
		return nil
	}
	return a.commitSessions(ctx, sessions)
}

// Authenticate resolves a session id to its user.
func (a *App) Authenticate(sessionID string) (domain.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := slices.IndexFunc(a.sessions, func(s domain.Session) bool { return s.ID == sessionID })
	if i < 0 || a.sessions[i].Expired(a.now()) {
		return domain.User{}, domain.ErrUnauthorized
	}
	j := a.userIndex(a.sessions[i].Email)
	if j < 0 {
		return domain.User{}, domain.ErrUnauthorized
	}
	if a.users[j].IsBanned() {
		return domain.User{}, domain.ErrBanned
	}
	return a.users[j].Public(), nil
}

func (a *App) User(email string) (domain.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := a.userIndex(normalizeEmail(email))
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return a.users[i].Public(), nil
}

type ProfileUpdate struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateProfile changes a user's name and email. A new email is carried
// over to the user's CVs and sessions.
func (a *App) UpdateProfile(ctx context.Context, email string, p ProfileUpdate) (domain.User, error) {
	p.Email = normalizeEmail(p.Email)
	p.FullName = strings.TrimSpace(p.FullName)
	if err := model.ValidateStruct(p); err != nil {
		return domain.User{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.userIndex(email)
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	if p.Email != email && a.userIndex(p.Email) >= 0 {
		return domain.User{}, fmt.Errorf("%w: email already in use", domain.ErrConflict)
	}

	prevUsers, prevCVs := a.users, a.cvs
	users := slices.Clone(a.users)
	users[i].FullName = p.FullName
	users[i].Email = p.Email
	if err := a.commitUsers(ctx, users); err != nil {
		return domain.User{}, err
	}
	if p.Email != email {
		cvs := make([]*model.Document, len(a.cvs))
		for k, d := range a.cvs {
			if d.UserEmail == email {
				d = d.Clone()
				d.UserEmail = p.Email
			}
			cvs[k] = d
		}
		if err := a.commitCVs(ctx, cvs); err != nil {
			a.restore(ctx, prevUsers, nil)
			return domain.User{}, err
		}
		sessions := slices.Clone(a.sessions)
		for k := range sessions {
			if sessions[k].Email == email {
				sessions[k].Email = p.Email
			}
		}
		if err := a.commitSessions(ctx, sessions); err != nil {
			a.restore(ctx, prevUsers, prevCVs)
			return domain.User{}, err
		}
		slog.Info("user email changed", "from", email, "to", p.Email)
	}
	return users[i].Public(), nil
}

// ChangePassword sets a new password. Nothing changes when the password is
// too short or the confirmation differs.
func (a *App) ChangePassword(ctx context.Context, email, password, confirm string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", "must be at least %d characters", MinPasswordLength)
	}
	if password != confirm {
		return domain.NewValidationError("confirmPassword", "passwords do not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.userIndex(email)
	if i < 0 {
		return domain.ErrNotFound
	}
	users := slices.Clone(a.users)
	users[i].PasswordHash = string(hash)
	return a.commitUsers(ctx, users)
}

// DeleteUser removes a user together with every CV and session they own.
func (a *App) DeleteUser(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.userIndex(email)
	if i < 0 {
		return domain.ErrNotFound
	}

	prevUsers, prevCVs := a.users, a.cvs
	if err := a.commitUsers(ctx, slices.Delete(slices.Clone(a.users), i, i+1)); err != nil {
		return err
	}
	cvs := slices.DeleteFunc(slices.Clone(a.cvs), func(d *model.Document) bool { return d.UserEmail == email })
	if err := a.commitCVs(ctx, cvs); err != nil {
		a.restore(ctx, prevUsers, nil)
		return err
	}
	sessions := slices.DeleteFunc(slices.Clone(a.sessions), func(s domain.Session) bool { return s.Email == email })
	if err := a.commitSessions(ctx, sessions); err != nil {
		a.restore(ctx, prevUsers, prevCVs)
		return err
	}
	slog.Info("user deleted", "email", email)
	return nil
}

// Users lists users whose name or email contains query, case-insensitively.
func (a *App) Users(query string) []domain.User {
	q := strings.ToLower(strings.TrimSpace(query))
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.User, 0, len(a.users))
	for _, u := range a.users {
		if q == "" || strings.Contains(strings.ToLower(u.Email), q) || strings.Contains(strings.ToLower(u.FullName), q) {
			out = append(out, u.Public())
		}
	}
	return out
}

type UserUpdate struct {
	FullName string            `json:"fullName" validate:"required"`
	Role     domain.Role       `json:"role" validate:"required,oneof=user admin"`
	Status   domain.UserStatus `json:"status" validate:"required,oneof=active banned"`
}

func (a *App) UpdateUser(ctx context.Context, email string, u UserUpdate) (domain.User, error) {
	u.FullName = strings.TrimSpace(u.FullName)
	if err := model.ValidateStruct(u); err != nil {
		return domain.User{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.userIndex(email)
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	users := slices.Clone(a.users)
	users[i].FullName = u.FullName
	users[i].Role = u.Role
	users[i].Status = u.Status
	if err := a.commitUsers(ctx, users); err != nil {
		return domain.User{}, err
	}
	if u.Status == domain.StatusBanned {
		if err := a.dropSessionsLocked(ctx, email); err != nil {
			return domain.User{}, err
		}
	}
	return users[i].Public(), nil
}

// ToggleBan flips a user between active and banned. Admins cannot ban
// themselves.
func (a *App) ToggleBan(ctx context.Context, actor, email string) (domain.User, error) {
	if actor == email {
		return domain.User{}, domain.NewValidationError("email", "you cannot ban yourself")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.userIndex(email)
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	users := slices.Clone(a.users)
	if users[i].IsBanned() {
		users[i].Status = domain.StatusActive
	} else {
		users[i].Status = domain.StatusBanned
	}
	if err := a.commitUsers(ctx, users); err != nil {
		return domain.User{}, err
	}
	if users[i].IsBanned() {
		if err := a.dropSessionsLocked(ctx, email); err != nil {
			return domain.User{}, err
		}
	}
	slog.Info("user ban toggled", "email", email, "status", users[i].Status)
	return users[i].Public(), nil
}

func (a *App) dropSessionsLocked(ctx context.Context, email string) error {
	sessions := slices.DeleteFunc(slices.Clone(a.sessions), func(s domain.Session) bool { return s.Email == email })
	if len(sessions) == len(a.sessions) {
		return nil
	}
	return a.commitSessions(ctx, sessions)
}

type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalCVs        int `json:"totalCVs"`
	NewUsersToday   int `json:"newUsersToday"`
	CVsCreatedToday int `json:"cvsCreatedToday"`
	ActiveBanners   int `json:"activeBanners"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (a *App) Stats() Stats {
	now := a.now()
	a.mu.RLock()
	defer a.mu.RUnlock()
	st := Stats{TotalUsers: len(a.users), TotalCVs: len(a.cvs)}
	for _, u := range a.users {
		if sameDay(u.JoinDate, now) {
			st.NewUsersToday++
		}
	}
	for _, d := range a.cvs {
		if sameDay(d.CreatedAt, now) {
			st.CVsCreatedToday++
		}
	}
	for _, b := range a.banners {
		if b.IsActive {
			st.ActiveBanners++
		}
	}
	return st
}

// CVs lists a user's CVs, most recently updated first.
func (a *App) CVs(email string) []*model.Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := []*model.Document{}
	for _, d := range a.cvs {
		if d.UserEmail == email {
			out = append(out, d.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out
}

func (a *App) cvIndex(id string) int {
	return slices.IndexFunc(a.cvs, func(d *model.Document) bool { return d.ID == id })
}

// CV returns a copy of a CV the caller may see.
func (a *App) CV(id, email string, admin bool) (*model.Document, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := a.cvIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if !admin && a.cvs[i].UserEmail != email {
		return nil, domain.ErrForbidden
	}
	return a.cvs[i].Clone(), nil
}

// NewCV builds a fresh document seeded for lang, overlaid with imported
// data when given. It is stored on the first save.
func (a *App) NewCV(email string, lang i18n.Lang, imported *model.Document) *model.Document {
	return model.NewDocument(lang, email, imported, a.now())
}

// SaveCV upserts doc by id. The owner must exist and must not change.
func (a *App) SaveCV(ctx context.Context, doc *model.Document) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userIndex(doc.UserEmail) < 0 {
		return fmt.Errorf("cv owner %q: %w", doc.UserEmail, domain.ErrNotFound)
	}
	doc = doc.Clone()
	cvs := slices.Clone(a.cvs)
	if i := a.cvIndex(doc.ID); i >= 0 {
		if cvs[i].UserEmail != doc.UserEmail {
			return domain.ErrForbidden
		}
		doc.CreatedAt = cvs[i].CreatedAt
		cvs[i] = doc
	} else {
		cvs = append(cvs, doc)
	}
	return a.commitCVs(ctx, cvs)
}

func (a *App) DeleteCV(ctx context.Context, id, email string, admin bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.cvIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if !admin && a.cvs[i].UserEmail != email {
		return domain.ErrForbidden
	}
	return a.commitCVs(ctx, slices.Delete(slices.Clone(a.cvs), i, i+1))
}

func (a *App) Banners() []domain.AdBanner {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.banners)
}

// ActiveBanners are the banners shown at placement.
func (a *App) ActiveBanners(placement domain.Placement) []domain.AdBanner {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := []domain.AdBanner{}
	for _, b := range a.banners {
		if b.IsActive && b.Placement == placement {
			out = append(out, b)
		}
	}
	return out
}

func (a *App) CreateBanner(ctx context.Context, b domain.AdBanner) (domain.AdBanner, error) {
	b.ID = uuid.NewString()
	if err := model.ValidateStruct(b); err != nil {
		return domain.AdBanner{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.commitBanners(ctx, append(slices.Clone(a.banners), b)); err != nil {
		return domain.AdBanner{}, err
	}
	return b, nil
}

func (a *App) bannerIndex(id string) int {
	return slices.IndexFunc(a.banners, func(b domain.AdBanner) bool { return b.ID == id })
}

func (a *App) UpdateBanner(ctx context.Context, id string, b domain.AdBanner) (domain.AdBanner, error) {
	b.ID = id
	if err := model.ValidateStruct(b); err != nil {
		return domain.AdBanner{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.bannerIndex(id)
	if i < 0 {
		return domain.AdBanner{}, domain.ErrNotFound
	}
	banners := slices.Clone(a.banners)
	banners[i] = b
	if err := a.commitBanners(ctx, banners); err != nil {
		return domain.AdBanner{}, err
	}
	return b, nil
}

func (a *App) DeleteBanner(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.bannerIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	return a.commitBanners(ctx, slices.Delete(slices.Clone(a.banners), i, i+1))
}
