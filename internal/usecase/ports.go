package usecase

import (
	"context"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/i18n"
	"cv-builder/internal/model"
)

// Enhancer rewrites one field of text.
type Enhancer interface {
	EnhanceText(ctx context.Context, text string, lang i18n.Lang) (string, error)
}

// Parser turns extracted CV text into a partial document.
type Parser interface {
	ParseCV(ctx context.Context, text, image string, lang i18n.Lang) (*model.Document, error)
}

// CVSaver persists an edited document.
type CVSaver interface {
	SaveCV(ctx context.Context, doc *model.Document) error
}

// Store holds the application collections. Every Save replaces the whole
// collection.
type Store interface {
	Users(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error
	CVs(ctx context.Context) ([]*model.Document, error)
	SaveCVs(ctx context.Context, cvs []*model.Document) error
	Banners(ctx context.Context) ([]domain.AdBanner, error)
	SaveBanners(ctx context.Context, banners []domain.AdBanner) error
	Sessions(ctx context.Context) ([]domain.Session, error)
	SaveSessions(ctx context.Context, sessions []domain.Session) error
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time
