package service

import (
	"context"

	"servicefinder/internal/domain"
	"servicefinder/internal/models"
)

type PortfolioInput struct {
	UserID      int64    `json:"userId" validate:"omitempty,gt=0"`
	Title       string   `json:"title" validate:"required,min=2,max=255"`
	Description string   `json:"description" validate:"required,min=5"`
	StartDate   string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Attachments []string `json:"attachments" validate:"omitempty,dive,min=1,max=255"`
}

type PortfolioPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description" validate:"omitempty,min=5"`
	StartDate   *string  `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Attachments []string `json:"attachments" validate:"omitempty,dive,min=1,max=255"`
}

type PortfolioService struct {
	repo domain.Repository
}

func NewPortfolioService(repo domain.Repository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

func (s *PortfolioService) Create(ctx context.Context, in PortfolioInput, actor Actor) (*models.Portfolio, error) {
	if in.UserID == 0 || !actor.IsAdmin() {
		in.UserID = actor.UserID
	}
	if _, err := s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}

	p := &models.Portfolio{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Attachments: attachments(in.Attachments),
	}
	if err := s.repo.CreatePortfolio(ctx, p); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return p, nil
}

func (s *PortfolioService) ListByUser(ctx context.Context, userID int64) ([]*models.Portfolio, error) {
	return s.repo.ListPortfoliosByUser(ctx, userID)
}

// Update changes the given fields. A non-nil attachment list replaces the
// stored attachments.
func (s *PortfolioService) Update(ctx context.Context, id int64, patch PortfolioPatch, actor Actor) (*models.Portfolio, error) {
	p, err := s.repo.GetPortfolio(ctx, id)
	if err != nil {
		return nil, translate(err, ErrPortfolioNotFound)
	}
	if err := actor.require(p.UserID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	replace := patch.Attachments != nil
	if replace {
		p.Attachments = attachments(patch.Attachments)
	}

	if err := s.repo.UpdatePortfolio(ctx, p, replace); err != nil {
		return nil, translate(err, ErrPortfolioNotFound)
	}
	return s.repo.GetPortfolio(ctx, id)
}

func (s *PortfolioService) Delete(ctx context.Context, id int64, actor Actor) error {
	p, err := s.repo.GetPortfolio(ctx, id)
	if err != nil {
		return translate(err, ErrPortfolioNotFound)
	}
	if err := actor.require(p.UserID); err != nil {
		return err
	}
	return translate(s.repo.DeletePortfolio(ctx, id), ErrPortfolioNotFound)
}

func attachments(files []string) []models.PortfolioAttachment {
	out := make([]models.PortfolioAttachment, 0, len(files))
	for _, f := range files {
		out = append(out, models.PortfolioAttachment{FileName: f})
	}
	return out
}
