package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/castroh/pdi-agent/internal/domain"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, rec *domain.UserRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockUserStore) Save(ctx context.Context, rec *domain.UserRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, email string, profile domain.Profile) error {
	args := m.Called(ctx, email, profile)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePlan(ctx context.Context, email string, plan domain.CareerPlan) error {
	args := m.Called(ctx, email, plan)
	return args.Error(0)
}

func (m *MockUserStore) SetResetToken(ctx context.Context, email, token, expiry string) error {
	args := m.Called(ctx, email, token, expiry)
	return args.Error(0)
}

func (m *MockUserStore) FindByResetToken(ctx context.Context, token string) (*domain.UserRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}

func (m *MockUserStore) ResetPassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

type MockResetMailer struct {
	mock.Mock
}

func (m *MockResetMailer) SendResetToken(ctx context.Context, recipient, token string) error {
	args := m.Called(ctx, recipient, token)
	return args.Error(0)
}

type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) CheckBrowser() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockScraper) ProfileText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type MockFacetGenerator struct {
	mock.Mock
}

func (m *MockFacetGenerator) GenerateValue(ctx context.Context, prompt, key string) (any, error) {
	args := m.Called(ctx, prompt, key)
	return args.Get(0), args.Error(1)
}
