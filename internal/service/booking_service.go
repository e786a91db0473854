package service

import (
	"context"

	"servicefinder/internal/domain"
	"servicefinder/internal/events"
	"servicefinder/internal/models"

	"github.com/rs/zerolog"
)

// CreateBookingInput is the body of a new service request.
type CreateBookingInput struct {
	UserID            int64                `json:"userId" validate:"omitempty,gt=0"`
	ServiceProviderID int64                `json:"serviceProviderId" validate:"required,gt=0"`
	PackageID         int64                `json:"packageId" validate:"required,gt=0"`
	UrgentLevel       int                  `json:"urgentLevel" validate:"required,min=1,max=5"`
	Description       string               `json:"description" validate:"required,min=5"`
	Address           string               `json:"address" validate:"required,min=5"`
	ContactNumber     string               `json:"contactNumber" validate:"required,min=5"`
	PreferredDate     string               `json:"preferredDate" validate:"required,datetime=2006-01-02"`
	PreferredTime     string               `json:"preferredTime" validate:"required,datetime=15:04:05"`
	// Status is accepted and ignored: new requests are always PENDING.
	Status            models.BookingStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED COMPLETED"`
}

type CreateModificationInput struct {
	ServiceRequestID int64  `json:"serviceRequestId" validate:"required,gt=0"`
	Reason           string `json:"reason" validate:"required,min=5"`
	Price            string `json:"price" validate:"required,price"`
	TimeRequired     string `json:"timeRequired" validate:"omitempty,max=100"`
}

// ProviderBookings is the provider dashboard payload.
type ProviderBookings struct {
	ServiceRequests []*models.Booking    `json:"serviceRequests"`
	Stats           models.ProviderStats `json:"stats"`
}

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateBooking checks that customer, provider and package exist and agree,
// then stores the request as PENDING.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput, actor Actor) (*models.Booking, error) {
	if !actor.Anonymous() {
		in.UserID = actor.UserID
	}
	if in.UserID == 0 {
		return nil, ErrUserIDRequired
	}

	if _, err := s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if _, err := s.repo.GetUserByID(ctx, in.ServiceProviderID); err != nil {
		return nil, translate(err, ErrProviderNotFound)
	}
	pkg, err := s.repo.GetPackage(ctx, in.PackageID)
	if err != nil {
		return nil, translate(err, ErrPackageNotFound)
	}
	if pkg.UserID != in.ServiceProviderID {
		return nil, ErrPackageProviderMismatch
	}

	booking := &models.Booking{
		UserID:            in.UserID,
		ServiceProviderID: in.ServiceProviderID,
		PackageID:         in.PackageID,
		UrgentLevel:       in.UrgentLevel,
		Description:       in.Description,
		Address:           in.Address,
		ContactNumber:     in.ContactNumber,
		PreferredDate:     in.PreferredDate,
		PreferredTime:     in.PreferredTime,
		Status:            models.StatusPending,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, translate(err, ErrPackageNotFound)
	}

	s.publishEvent(events.EventBookingCreated, booking, actor.UserID, 0)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}
	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, models.BookingFilter{})
}

func (s *BookingService) ListByCustomer(ctx context.Context, customerID int64) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, models.BookingFilter{CustomerID: customerID})
}

func (s *BookingService) ListByProvider(ctx context.Context, providerID int64) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, models.BookingFilter{ProviderID: providerID})
}

// UpdateBooking merges patch into the booking. A status in the patch goes
// through the same lifecycle check as SetStatus.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, patch models.BookingPatch, actor Actor) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.require(b.UserID, b.ServiceProviderID); err != nil {
		return nil, err
	}
	if patch.ServiceProviderID != nil && *patch.ServiceProviderID != b.ServiceProviderID {
		return nil, ErrProviderImmutable
	}
	if patch.Status != nil && *patch.Status != b.Status {
		if err := actor.require(b.ServiceProviderID); err != nil {
			return nil, err
		}
	}

	if patch.PackageID != nil && *patch.PackageID != b.PackageID {
		pkg, err := s.repo.GetPackage(ctx, *patch.PackageID)
		if err != nil {
			return nil, translate(err, ErrPackageNotFound)
		}
		if pkg.UserID != b.ServiceProviderID {
			return nil, ErrPackageProviderMismatch
		}
	}

	event := ""
	if patch.Status != nil {
		if event, err = checkTransition(b.Status, *patch.Status); err != nil {
			return nil, err
		}
		b.Status = *patch.Status
	}
	patch.Apply(b)

	if err := s.repo.UpdateBooking(ctx, b); err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}
	if event != "" {
		s.publishEvent(event, b, actor.UserID, 0)
	}
	return s.GetBooking(ctx, id)
}

// SetStatus moves a booking along PENDING -> APPROVED|REJECTED and
// APPROVED -> COMPLETED. Only the provider or an admin may do so.
func (s *BookingService) SetStatus(ctx context.Context, id int64, status models.BookingStatus, actor Actor) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.require(b.ServiceProviderID); err != nil {
		return nil, err
	}

	event, err := checkTransition(b.Status, status)
	if err != nil {
		return nil, err
	}
	if event == "" {
		return b, nil
	}

	b.Status = status
	if err := s.repo.UpdateBooking(ctx, b); err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}
	s.publishEvent(event, b, actor.UserID, 0)
	return s.GetBooking(ctx, id)
}

// checkTransition returns the event for from -> to, or "" when to equals from.
func checkTransition(from, to models.BookingStatus) (string, error) {
	if !to.Valid() {
		return "", ErrInvalidStatus
	}
	if from == to {
		return "", nil
	}
	if !from.CanTransitionTo(to) {
		return "", transitionConflict(string(from), string(to))
	}
	switch to {
	case models.StatusApproved:
		return events.EventBookingApproved, nil
	case models.StatusRejected:
		return events.EventBookingRejected, nil
	default:
		return events.EventBookingCompleted, nil
	}
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64, actor Actor) error {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.require(b.UserID, b.ServiceProviderID); err != nil {
		return err
	}
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return translate(err, ErrBookingNotFound)
	}
	s.publishEvent(events.EventBookingDeleted, b, actor.UserID, 0)
	return nil
}

// ListByProviderWithStats returns the provider's bookings newest first with
// the derived dashboard figures.
func (s *BookingService) ListByProviderWithStats(ctx context.Context, providerID int64) (*ProviderBookings, error) {
	bookings, stats, err := s.providerBookingsAndStats(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &ProviderBookings{ServiceRequests: bookings, Stats: stats}, nil
}

func (s *BookingService) ProviderStats(ctx context.Context, providerID int64) (models.ProviderStats, error) {
	_, stats, err := s.providerBookingsAndStats(ctx, providerID)
	return stats, err
}

func (s *BookingService) providerBookingsAndStats(ctx context.Context, providerID int64) ([]*models.Booking, models.ProviderStats, error) {
	bookings, err := s.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, models.ProviderStats{}, err
	}
	reviews, err := s.repo.ListReviews(ctx, 0, providerID)
	if err != nil {
		return nil, models.ProviderStats{}, err
	}
	return bookings, ComputeProviderStats(bookings, reviews), nil
}

func (s *BookingService) CreateModification(ctx context.Context, in CreateModificationInput, actor Actor) (*models.RequestModification, error) {
	b, err := s.GetBooking(ctx, in.ServiceRequestID)
	if err != nil {
		return nil, err
	}
	if err := actor.require(b.UserID, b.ServiceProviderID); err != nil {
		return nil, err
	}
	price, err := models.NormalizePrice(in.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	m := &models.RequestModification{
		ServiceRequestID: b.ID,
		UserID:           actor.UserID,
		Reason:           in.Reason,
		Price:            price,
		TimeRequired:     in.TimeRequired,
		Status:           models.ModificationPending,
	}
	if m.UserID == 0 {
		m.UserID = b.ServiceProviderID
	}
	if err := s.repo.CreateModification(ctx, m); err != nil {
		return nil, translate(err, ErrBookingNotFound)
	}

	s.publishEvent(events.EventModificationCreated, b, actor.UserID, m.ID)
	return m, nil
}

func (s *BookingService) ListModifications(ctx context.Context, serviceRequestID int64) ([]*models.RequestModification, error) {
	return s.repo.ListModifications(ctx, serviceRequestID)
}

func (s *BookingService) UpdateModification(ctx context.Context, id int64, patch models.ModificationPatch, actor Actor) (*models.RequestModification, error) {
	m, b, err := s.loadModification(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != m.Status {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if !m.Status.CanTransitionTo(*patch.Status) {
			return nil, transitionConflict(string(m.Status), string(*patch.Status))
		}
		if m.UserID == actor.UserID && !actor.IsAdmin() {
			return nil, ErrOwnModification
		}
		m.Status = *patch.Status
	}
	if patch.Price != nil {
		price, err := models.NormalizePrice(*patch.Price)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		patch.Price = &price
	}
	patch.Apply(m)

	if err := s.repo.UpdateModification(ctx, m); err != nil {
		return nil, translate(err, ErrModificationNotFound)
	}
	s.logger.Debug().Int64("modification_id", m.ID).Int64("booking_id", b.ID).Str("status", string(m.Status)).Msg("modification updated")
	return s.repo.GetModification(ctx, id)
}

func (s *BookingService) DeleteModification(ctx context.Context, id int64, actor Actor) error {
	if _, _, err := s.loadModification(ctx, id, actor); err != nil {
		return err
	}
	return translate(s.repo.DeleteModification(ctx, id), ErrModificationNotFound)
}

func (s *BookingService) loadModification(ctx context.Context, id int64, actor Actor) (*models.RequestModification, *models.Booking, error) {
	m, err := s.repo.GetModification(ctx, id)
	if err != nil {
		return nil, nil, translate(err, ErrModificationNotFound)
	}
	b, err := s.GetBooking(ctx, m.ServiceRequestID)
	if err != nil {
		return nil, nil, err
	}
	if err := actor.require(b.UserID, b.ServiceProviderID); err != nil {
		return nil, nil, err
	}
	return m, b, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID, modificationID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:      booking.ID,
		CustomerID:     booking.UserID,
		ProviderID:     booking.ServiceProviderID,
		Status:         string(booking.Status),
		ActorID:        actorID,
		ModificationID: modificationID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
