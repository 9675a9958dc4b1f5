package service

import (
	"context"

	"github.com/castroh/pdi-agent/internal/domain"
)

// UserStore is the persistence surface the services need. Implemented by
// mongodb.UserRepository.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, rec *domain.UserRecord) error
	Save(ctx context.Context, rec *domain.UserRecord) error
	UpdateProfile(ctx context.Context, email string, profile domain.Profile) error
	UpdatePlan(ctx context.Context, email string, plan domain.CareerPlan) error
	SetResetToken(ctx context.Context, email, token, expiry string) error
	FindByResetToken(ctx context.Context, token string) (*domain.UserRecord, error)
	ResetPassword(ctx context.Context, email, passwordHash string) error
}

// ResetMailer delivers password-reset tokens. Implemented by mailer.Mailer.
type ResetMailer interface {
	SendResetToken(ctx context.Context, recipient, token string) error
}

// ProfileScraper fetches the public text of a profile page. Implemented by
// scraper.Scraper.
type ProfileScraper interface {
	CheckBrowser() error
	ProfileText(ctx context.Context, url string) (string, error)
}

// FacetGenerator produces one diagnostic facet from a prompt. Implemented by
// genai.Client.
type FacetGenerator interface {
	GenerateValue(ctx context.Context, prompt, key string) (any, error)
}
