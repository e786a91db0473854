package service

import (
	"context"

	"servicefinder/internal/domain"
	"servicefinder/internal/models"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Icon string `json:"icon" validate:"required,min=2,max=255"`
}

type CategoryPatch struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=255"`
	Icon *string `json:"icon" validate:"omitempty,min=2,max=255"`
}

type SubCategoryInput struct {
	CategoryID int64  `json:"categoryId" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
}

type SubCategoryPatch struct {
	CategoryID *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
}

// CategoryService manages the service taxonomy. Mutations are admin only.
type CategoryService struct {
	repo domain.Repository
}

func NewCategoryService(repo domain.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput, actor Actor) (*models.Category, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	c := &models.Category{Name: in.Name, Icon: in.Icon}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, patch CategoryPatch, actor Actor) (*models.Category, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64, actor Actor) error {
	if err := actor.requireAdmin(); err != nil {
		return err
	}
	return translate(s.repo.DeleteCategory(ctx, id), ErrCategoryNotFound)
}

func (s *CategoryService) CreateSubCategory(ctx context.Context, in SubCategoryInput, actor Actor) (*models.SubCategory, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	sub := &models.SubCategory{CategoryID: in.CategoryID, Name: in.Name}
	if err := s.repo.CreateSubCategory(ctx, sub); err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return sub, nil
}

func (s *CategoryService) ListSubCategories(ctx context.Context, categoryID int64) ([]*models.SubCategory, error) {
	return s.repo.ListSubCategories(ctx, categoryID)
}

func (s *CategoryService) UpdateSubCategory(ctx context.Context, id int64, patch SubCategoryPatch, actor Actor) (*models.SubCategory, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubCategory(ctx, id)
	if err != nil {
		return nil, translate(err, ErrSubCategoryNotFound)
	}
	if patch.CategoryID != nil {
		if _, err := s.Get(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		sub.CategoryID = *patch.CategoryID
	}
	if patch.Name != nil {
		sub.Name = *patch.Name
	}
	if err := s.repo.UpdateSubCategory(ctx, sub); err != nil {
		return nil, translate(err, ErrSubCategoryNotFound)
	}
	return sub, nil
}

func (s *CategoryService) DeleteSubCategory(ctx context.Context, id int64, actor Actor) error {
	if err := actor.requireAdmin(); err != nil {
		return err
	}
	return translate(s.repo.DeleteSubCategory(ctx, id), ErrSubCategoryNotFound)
}
