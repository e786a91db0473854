package service

import (
	"context"

	"servicefinder/internal/domain"
	"servicefinder/internal/models"
)

type ReviewInput struct {
	ServiceRequestID int64  `json:"serviceRequestId" validate:"required,gt=0"`
	ProviderID       int64  `json:"providerId" validate:"required,gt=0"`
	Rating           int    `json:"rating" validate:"required,min=1,max=5"`
	Comment          string `json:"comment" validate:"omitempty,min=2,max=1000"`
}

type ReviewPatch struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=2,max=1000"`
}

type ReviewService struct {
	repo domain.Repository
}

func NewReviewService(repo domain.Repository) *ReviewService {
	return &ReviewService{repo: repo}
}

// Create records the customer's review of a completed service request.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput, actor Actor) (*models.Review, error) {
	booking, err := s.repo.GetBooking(ctx, in.ServiceRequestID)
	if err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}
	if _, err := s.repo.GetUserByID(ctx, in.ProviderID); err != nil {
		return nil, translate(err, ErrProviderNotFound)
	}
	if booking.Status != models.StatusCompleted {
		return nil, ErrReviewNotCompleted
	}
	if actor.UserID != booking.UserID {
		return nil, ErrReviewNotCustomer
	}
	if booking.ServiceProviderID != in.ProviderID {
		return nil, ErrReviewProviderMismatch
	}

	exists, err := s.repo.ReviewExists(ctx, booking.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	r := &models.Review{
		UserID:           actor.UserID,
		ProviderID:       in.ProviderID,
		ServiceRequestID: booking.ID,
		Rating:           in.Rating,
		Comment:          in.Comment,
	}
	if err := s.repo.CreateReview(ctx, r); err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}
	return r, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]*models.Review, error) {
	return s.repo.ListReviews(ctx, 0, 0)
}

// ListByAuthor returns the reviews a user wrote, newest first.
func (s *ReviewService) ListByAuthor(ctx context.Context, userID int64) ([]*models.Review, error) {
	return s.repo.ListReviews(ctx, userID, 0)
}

func (s *ReviewService) ListByProvider(ctx context.Context, providerID int64) ([]*models.Review, error) {
	return s.repo.ListReviews(ctx, 0, providerID)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	r, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return nil, translate(err, ErrReviewNotFound)
	}
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, id int64, patch ReviewPatch, actor Actor) (*models.Review, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.require(r.UserID); err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		r.Comment = *patch.Comment
	}
	if err := s.repo.UpdateReview(ctx, r); err != nil {
		return nil, translate(err, ErrReviewNotFound)
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, id int64, actor Actor) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.require(r.UserID); err != nil {
		return err
	}
	return translate(s.repo.DeleteReview(ctx, id), ErrReviewNotFound)
}
