package service

import (
	"context"
	"fmt"

	"github.com/castroh/pdi-agent/internal/domain"
)

// ProfileService reads and writes the profile and career-plan sections of
// a user record.
type ProfileService struct {
	users UserStore
}

// NewProfileService creates a new profile service
func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// GetRecord loads the full record for an authenticated user.
func (s *ProfileService) GetRecord(ctx context.Context, email string) (*domain.UserRecord, error) {
	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrUserNotFound
	}
	return rec, nil
}

// UpdateProfile overwrites the profile section. The e-mail inside the
// profile always mirrors the record key, and the hierarchy level must be
// one of the fixed values when set.
func (s *ProfileService) UpdateProfile(ctx context.Context, email string, profile domain.Profile) error {
	if profile.HierarchyLevel != "" && !domain.ValidHierarchyLevel(profile.HierarchyLevel) {
		return fmt.Errorf("invalid hierarchy level %q", profile.HierarchyLevel)
	}

	rec, err := s.GetRecord(ctx, email)
	if err != nil {
		return err
	}

	profile.Email = email
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.ImprovementAreas == nil {
		profile.ImprovementAreas = []string{}
	}
	// The scraped page text is owned by the analysis pipeline, not the
	// profile form.
	profile.FullLinkedInText = rec.Profile.FullLinkedInText

	return s.users.UpdateProfile(ctx, email, profile)
}

// UpdatePlan overwrites the career-plan section. Unknown horizon keys are
// rejected so stored plans only ever hold the fixed five.
func (s *ProfileService) UpdatePlan(ctx context.Context, email string, plan domain.CareerPlan) error {
	for horizon := range plan.TemporalGoals {
		if !validHorizon(horizon) {
			return fmt.Errorf("invalid plan horizon %q", horizon)
		}
	}
	if plan.TemporalGoals == nil {
		plan.TemporalGoals = map[string]domain.HorizonGoal{}
	}

	if _, err := s.GetRecord(ctx, email); err != nil {
		return err
	}

	return s.users.UpdatePlan(ctx, email, plan)
}

func validHorizon(horizon string) bool {
	for _, h := range domain.PlanHorizons {
		if h == horizon {
			return true
		}
	}
	return false
}
