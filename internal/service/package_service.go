package service

import (
	"context"
	"time"

	"servicefinder/internal/domain"
	"servicefinder/internal/models"
)

type PackageInput struct {
	UserID      int64  `json:"userId" validate:"omitempty,gt=0"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"required,min=5"`
	Price       string `json:"price" validate:"required,price"`
}

type PackagePatch struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description" validate:"omitempty,min=5"`
	Price       *string `json:"price" validate:"omitempty,price"`
}

// PackageService enforces the per-provider package rules: at most
// MaxPackagesPerUser packages, unique name and price, and one update per
// cooldown period.
type PackageService struct {
	repo     domain.Repository
	cooldown time.Duration
	now      func() time.Time
}

func NewPackageService(repo domain.Repository) *PackageService {
	return &PackageService{
		repo:     repo,
		cooldown: models.PackageUpdateCooldownDays * 24 * time.Hour,
		now:      time.Now,
	}
}

func (s *PackageService) Create(ctx context.Context, in PackageInput, actor Actor) (*models.Package, error) {
	if in.UserID == 0 || !actor.IsAdmin() {
		in.UserID = actor.UserID
	}
	if _, err := s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	price, err := models.NormalizePrice(in.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	pkg := &models.Package{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
	}
	if err := s.repo.CreatePackageChecked(ctx, pkg, models.MaxPackagesPerUser); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return pkg, nil
}

func (s *PackageService) ListByUser(ctx context.Context, userID int64) ([]*models.Package, error) {
	return s.repo.ListPackagesByUser(ctx, userID)
}

func (s *PackageService) Update(ctx context.Context, id int64, patch PackagePatch, actor Actor) (*models.Package, error) {
	pkg, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return nil, translate(err, ErrPackageNotFound)
	}
	if err := actor.require(pkg.UserID); err != nil {
		return nil, err
	}
	if s.now().Sub(pkg.UpdatedAt) < s.cooldown {
		return nil, ErrPackageCooldown
	}

	if patch.Name != nil {
		pkg.Name = *patch.Name
	}
	if patch.Description != nil {
		pkg.Description = *patch.Description
	}
	if patch.Price != nil {
		price, err := models.NormalizePrice(*patch.Price)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		pkg.Price = price
	}

	if err := s.repo.UpdatePackageChecked(ctx, pkg); err != nil {
		return nil, translate(err, ErrPackageNotFound)
	}
	return pkg, nil
}

func (s *PackageService) Delete(ctx context.Context, id int64, actor Actor) error {
	pkg, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return translate(err, ErrPackageNotFound)
	}
	if err := actor.require(pkg.UserID); err != nil {
		return err
	}
	return translate(s.repo.DeletePackage(ctx, id), ErrPackageNotFound)
}
