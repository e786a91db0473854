package service

import (
	"context"

	"servicefinder/internal/domain"
	"servicefinder/internal/models"
)

type CertificationInput struct {
	UserID    int64   `json:"userId" validate:"omitempty,gt=0"`
	Title     string  `json:"title" validate:"required,min=2,max=255"`
	Issuer    string  `json:"issuer" validate:"required,min=2,max=255"`
	EarnedOn  string  `json:"earnedOn" validate:"required,datetime=2006-01-02"`
	ExpiresOn *string `json:"expiresOn" validate:"omitempty,datetime=2006-01-02"`
}

type CertificationPatch struct {
	Title     *string `json:"title" validate:"omitempty,min=2,max=255"`
	Issuer    *string `json:"issuer" validate:"omitempty,min=2,max=255"`
	EarnedOn  *string `json:"earnedOn" validate:"omitempty,datetime=2006-01-02"`
	ExpiresOn *string `json:"expiresOn" validate:"omitempty,datetime=2006-01-02"`
}

type CertificationService struct {
	repo domain.Repository
}

func NewCertificationService(repo domain.Repository) *CertificationService {
	return &CertificationService{repo: repo}
}

func (s *CertificationService) Create(ctx context.Context, in CertificationInput, actor Actor) (*models.Certification, error) {
	if in.UserID == 0 || !actor.IsAdmin() {
		in.UserID = actor.UserID
	}
	if _, err := s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if err := s.checkTitle(ctx, in.UserID, in.Title, 0); err != nil {
		return nil, err
	}

	c := &models.Certification{
		UserID:    in.UserID,
		Title:     in.Title,
		Issuer:    in.Issuer,
		EarnedOn:  in.EarnedOn,
		ExpiresOn: in.ExpiresOn,
	}
	if err := s.repo.CreateCertification(ctx, c); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return c, nil
}

func (s *CertificationService) ListByUser(ctx context.Context, userID int64) ([]*models.Certification, error) {
	return s.repo.ListCertificationsByUser(ctx, userID)
}

func (s *CertificationService) Update(ctx context.Context, id int64, patch CertificationPatch, actor Actor) (*models.Certification, error) {
	c, err := s.repo.GetCertification(ctx, id)
	if err != nil {
		return nil, translate(err, ErrCertificationNotFound)
	}
	if err := actor.require(c.UserID); err != nil {
		return nil, err
	}

	if patch.Title != nil && *patch.Title != c.Title {
		if err := s.checkTitle(ctx, c.UserID, *patch.Title, c.ID); err != nil {
			return nil, err
		}
		c.Title = *patch.Title
	}
	if patch.Issuer != nil {
		c.Issuer = *patch.Issuer
	}
	if patch.EarnedOn != nil {
		c.EarnedOn = *patch.EarnedOn
	}
	if patch.ExpiresOn != nil {
		c.ExpiresOn = patch.ExpiresOn
	}

	if err := s.repo.UpdateCertification(ctx, c); err != nil {
		return nil, translate(err, ErrCertificationNotFound)
	}
	return c, nil
}

func (s *CertificationService) Delete(ctx context.Context, id int64, actor Actor) error {
	c, err := s.repo.GetCertification(ctx, id)
	if err != nil {
		return translate(err, ErrCertificationNotFound)
	}
	if err := actor.require(c.UserID); err != nil {
		return err
	}
	return translate(s.repo.DeleteCertification(ctx, id), ErrCertificationNotFound)
}

func (s *CertificationService) checkTitle(ctx context.Context, userID int64, title string, excludeID int64) error {
	exists, err := s.repo.CertificationTitleExists(ctx, userID, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateCertification
	}
	return nil
}
