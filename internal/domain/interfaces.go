package domain

import (
	"context"
	"time"

	"servicefinder/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CreateSubCategory(ctx context.Context, s *models.SubCategory) error
	GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error)
	ListSubCategories(ctx context.Context, categoryID int64) ([]*models.SubCategory, error)
	UpdateSubCategory(ctx context.Context, s *models.SubCategory) error
	DeleteSubCategory(ctx context.Context, id int64) error
}

type PackageRepository interface {
	CreatePackageChecked(ctx context.Context, pkg *models.Package, limit int) error
	UpdatePackageChecked(ctx context.Context, pkg *models.Package) error
	GetPackage(ctx context.Context, id int64) (*models.Package, error)
	ListPackagesByUser(ctx context.Context, userID int64) ([]*models.Package, error)
	DeletePackage(ctx context.Context, id int64) error
}

type PortfolioRepository interface {
	CreatePortfolio(ctx context.Context, p *models.Portfolio) error
	UpdatePortfolio(ctx context.Context, p *models.Portfolio, replaceAttachments bool) error
	GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error)
	ListPortfoliosByUser(ctx context.Context, userID int64) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id int64) error
}

type CertificationRepository interface {
	CreateCertification(ctx context.Context, c *models.Certification) error
	GetCertification(ctx context.Context, id int64) (*models.Certification, error)
	ListCertificationsByUser(ctx context.Context, userID int64) ([]*models.Certification, error)
	CertificationTitleExists(ctx context.Context, userID int64, title string, excludeID int64) (bool, error)
	UpdateCertification(ctx context.Context, c *models.Certification) error
	DeleteCertification(ctx context.Context, id int64) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id int64) error

	CreateModification(ctx context.Context, m *models.RequestModification) error
	GetModification(ctx context.Context, id int64) (*models.RequestModification, error)
	ListModifications(ctx context.Context, serviceRequestID int64) ([]*models.RequestModification, error)
	UpdateModification(ctx context.Context, m *models.RequestModification) error
	DeleteModification(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r *models.Review) error
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	// ListReviews filters by author and provider; zero ids match everything.
	ListReviews(ctx context.Context, authorID, providerID int64) ([]*models.Review, error)
	ReviewExists(ctx context.Context, serviceRequestID, userID int64) (bool, error)
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id int64) error
}

// Repository is the full persistence surface, implemented by *database.DB.
type Repository interface {
	UserRepository
	CategoryRepository
	PackageRepository
	PortfolioRepository
	CertificationRepository
	BookingRepository
	ReviewRepository
	Ping(ctx context.Context) error
}

// TokenStore keeps short-lived auth state: revoked refresh tokens and
// attempt counters.
type TokenStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
