package service

import (
	"context"

	"servicefinder/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockRepo) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *mockRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateSubCategory(ctx context.Context, sub *models.SubCategory) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockRepo) GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubCategory), args.Error(1)
}

func (m *mockRepo) ListSubCategories(ctx context.Context, categoryID int64) ([]*models.SubCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubCategory), args.Error(1)
}

func (m *mockRepo) UpdateSubCategory(ctx context.Context, sub *models.SubCategory) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockRepo) DeleteSubCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreatePackageChecked(ctx context.Context, pkg *models.Package, limit int) error {
	return m.Called(ctx, pkg, limit).Error(0)
}

func (m *mockRepo) UpdatePackageChecked(ctx context.Context, pkg *models.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *mockRepo) GetPackage(ctx context.Context, id int64) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *mockRepo) ListPackagesByUser(ctx context.Context, userID int64) ([]*models.Package, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

func (m *mockRepo) DeletePackage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) UpdatePortfolio(ctx context.Context, p *models.Portfolio, replace bool) error {
	return m.Called(ctx, p, replace).Error(0)
}

func (m *mockRepo) GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Portfolio), args.Error(1)
}

func (m *mockRepo) ListPortfoliosByUser(ctx context.Context, userID int64) ([]*models.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Portfolio), args.Error(1)
}

func (m *mockRepo) DeletePortfolio(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateCertification(ctx context.Context, c *models.Certification) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) GetCertification(ctx context.Context, id int64) (*models.Certification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certification), args.Error(1)
}

func (m *mockRepo) ListCertificationsByUser(ctx context.Context, userID int64) ([]*models.Certification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certification), args.Error(1)
}

func (m *mockRepo) CertificationTitleExists(ctx context.Context, userID int64, title string, excludeID int64) (bool, error) {
	args := m.Called(ctx, userID, title, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) UpdateCertification(ctx context.Context, c *models.Certification) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) DeleteCertification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockRepo) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateModification(ctx context.Context, mod *models.RequestModification) error {
	return m.Called(ctx, mod).Error(0)
}

func (m *mockRepo) GetModification(ctx context.Context, id int64) (*models.RequestModification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestModification), args.Error(1)
}

func (m *mockRepo) ListModifications(ctx context.Context, serviceRequestID int64) ([]*models.RequestModification, error) {
	args := m.Called(ctx, serviceRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RequestModification), args.Error(1)
}

func (m *mockRepo) UpdateModification(ctx context.Context, mod *models.RequestModification) error {
	return m.Called(ctx, mod).Error(0)
}

func (m *mockRepo) DeleteModification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateReview(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRepo) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockRepo) ListReviews(ctx context.Context, authorID, providerID int64) ([]*models.Review, error) {
	args := m.Called(ctx, authorID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *mockRepo) ReviewExists(ctx context.Context, serviceRequestID, userID int64) (bool, error) {
	args := m.Called(ctx, serviceRequestID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) UpdateReview(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRepo) DeleteReview(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
