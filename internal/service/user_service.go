package service

import (
	"context"
	"errors"
	"slices"

	"servicefinder/internal/database"
	"servicefinder/internal/domain"
	"servicefinder/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return u, nil
}

// GetProfile assembles the public profile with provider content and stats.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, u)
}

func (s *UserService) buildProfile(ctx context.Context, u *models.User) (*models.UserProfile, error) {
	p := &models.UserProfile{User: *u}

	if u.CategoryID != nil {
		c, err := s.repo.GetCategory(ctx, *u.CategoryID)
		switch {
		case err == nil:
			p.Category = c
		case !errors.Is(err, database.ErrNotFound):
			return nil, err
		}
	}

	packages, err := s.repo.ListPackagesByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	portfolios, err := s.repo.ListPortfoliosByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	certs, err := s.repo.ListCertificationsByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviews(ctx, 0, u.ID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListBookings(ctx, models.BookingFilter{ProviderID: u.ID})
	if err != nil {
		return nil, err
	}

	p.Packages = derefAll(packages)
	p.Portfolios = derefAll(portfolios)
	p.Certifications = derefAll(certs)
	p.Reviews = derefAll(reviews)
	p.Stats = ComputeProviderStats(bookings, reviews)
	return p, nil
}

// UpdateProfile applies the editable profile fields of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *patch.CategoryID); err != nil {
			return nil, translate(err, ErrCategoryNotFound)
		}
	}
	patch.Apply(u)
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return u, nil
}

// TopRatedProviders returns up to limit provider profiles ordered by average
// rating. Providers with equal ratings keep their id order.
func (s *UserService) TopRatedProviders(ctx context.Context, limit int) ([]*models.UserProfile, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	providers, err := s.repo.ListUsersByRole(ctx, models.RoleProvider)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.UserProfile, 0, len(providers))
	for _, u := range providers {
		p, err := s.buildProfile(ctx, u)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	slices.SortStableFunc(profiles, func(a, b *models.UserProfile) int {
		switch {
		case a.Stats.AvgRating > b.Stats.AvgRating:
			return -1
		case a.Stats.AvgRating < b.Stats.AvgRating:
			return 1
		}
		return 0
	})

	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

// SetUserStatus lets an admin approve or block an account.
func (s *UserService) SetUserStatus(ctx context.Context, userID int64, status models.UserStatus, actor Actor) (*models.User, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Status = status
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	s.logger.Info().Int64("user_id", userID).Str("status", string(status)).Int64("admin_id", actor.UserID).Msg("user status changed")
	return u, nil
}

func derefAll[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out
}
