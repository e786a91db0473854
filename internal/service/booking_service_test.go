package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"servicefinder/internal/apperr"
	"servicefinder/internal/database"
	"servicefinder/internal/events"
	"servicefinder/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNotFound = fmt.Errorf("row: %w", database.ErrNotFound)

func newBookingService(t *testing.T) (*BookingService, *mockRepo, *mockPublisher) {
	t.Helper()
	repo := new(mockRepo)
	pub := new(mockPublisher)
	logger := zerolog.New(io.Discard)
	return NewBookingService(repo, pub, &logger), repo, pub
}

func validBookingInput() CreateBookingInput {
	return CreateBookingInput{
		UserID:            1,
		ServiceProviderID: 2,
		PackageID:         10,
		UrgentLevel:       2,
		Description:       "fix the roof",
		Address:           "1 Long Road",
		ContactNumber:     "5550123",
		PreferredDate:     "2025-07-01",
		PreferredTime:     "09:00:00",
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, pub := newBookingService(t)
		repo.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
		repo.On("GetPackage", ctx, int64(10)).Return(&models.Package{ID: 10, UserID: 2}, nil)
		repo.On("CreateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.Status == models.StatusPending && b.UserID == 1
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Booking).ID = 99
		}).Return(nil)
		pub.On("PublishJSON", events.EventBookingCreated, mock.Anything).Return(nil)

		b, err := svc.CreateBooking(ctx, validBookingInput(), Actor{})
		require.NoError(t, err)
		assert.Equal(t, int64(99), b.ID)
		assert.Equal(t, models.StatusPending, b.Status)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("BearerOverridesUserID", func(t *testing.T) {
		svc, repo, pub := newBookingService(t)
		repo.On("GetUserByID", ctx, int64(7)).Return(&models.User{ID: 7}, nil)
		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
		repo.On("GetPackage", ctx, int64(10)).Return(&models.Package{ID: 10, UserID: 2}, nil)
		repo.On("CreateBooking", ctx, mock.Anything).Return(nil)
		pub.On("PublishJSON", events.EventBookingCreated, mock.Anything).Return(nil)

		b, err := svc.CreateBooking(ctx, validBookingInput(), Actor{UserID: 7, Role: models.RoleCustomer})
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.UserID)
	})

	t.Run("MissingProvider", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
		repo.On("GetUserByID", ctx, int64(2)).Return(nil, errNotFound)

		_, err := svc.CreateBooking(ctx, validBookingInput(), Actor{})
		assert.ErrorIs(t, err, ErrProviderNotFound)
		assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
		repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("MissingPackage", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetUserByID", ctx, mock.Anything).Return(&models.User{}, nil)
		repo.On("GetPackage", ctx, int64(10)).Return(nil, errNotFound)

		_, err := svc.CreateBooking(ctx, validBookingInput(), Actor{})
		assert.ErrorIs(t, err, ErrPackageNotFound)
		repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("PackageOfAnotherProvider", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetUserByID", ctx, mock.Anything).Return(&models.User{}, nil)
		repo.On("GetPackage", ctx, int64(10)).Return(&models.Package{ID: 10, UserID: 3}, nil)

		_, err := svc.CreateBooking(ctx, validBookingInput(), Actor{})
		assert.ErrorIs(t, err, ErrPackageProviderMismatch)
	})

	t.Run("NoCustomer", func(t *testing.T) {
		svc, _, _ := newBookingService(t)
		in := validBookingInput()
		in.UserID = 0
		_, err := svc.CreateBooking(ctx, in, Actor{})
		assert.ErrorIs(t, err, ErrUserIDRequired)
	})

	t.Run("StatusInInputIgnored", func(t *testing.T) {
		svc, repo, pub := newBookingService(t)
		repo.On("GetUserByID", ctx, mock.Anything).Return(&models.User{}, nil)
		repo.On("GetPackage", ctx, int64(10)).Return(&models.Package{ID: 10, UserID: 2}, nil)
		repo.On("CreateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.Status == models.StatusPending
		})).Return(nil)
		pub.On("PublishJSON", events.EventBookingCreated, mock.Anything).Return(nil)

		in := validBookingInput()
		in.Status = models.StatusCompleted
		b, err := svc.CreateBooking(ctx, in, Actor{})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, b.Status)
		repo.AssertExpectations(t)
	})
}

func TestBookingService_SetStatus(t *testing.T) {
	ctx := context.Background()
	provider := Actor{UserID: 2, Role: models.RoleProvider}

	tests := []struct {
		name    string
		from    models.BookingStatus
		to      models.BookingStatus
		actor   Actor
		wantErr *apperr.Error
		event   string
	}{
		{"Approve", models.StatusPending, models.StatusApproved, provider, nil, events.EventBookingApproved},
		{"Reject", models.StatusPending, models.StatusRejected, provider, nil, events.EventBookingRejected},
		{"Complete", models.StatusApproved, models.StatusCompleted, provider, nil, events.EventBookingCompleted},
		{"AdminMayApprove", models.StatusPending, models.StatusApproved, Actor{UserID: 50, Role: models.RoleAdmin}, nil, events.EventBookingApproved},
		{"SameStatusNoop", models.StatusApproved, models.StatusApproved, provider, nil, ""},
		{"SkipApproval", models.StatusPending, models.StatusCompleted, provider, apperr.Conflict("Cannot change status from PENDING to COMPLETED"), ""},
		{"ReopenCompleted", models.StatusCompleted, models.StatusPending, provider, apperr.Conflict("Cannot change status from COMPLETED to PENDING"), ""},
		{"CustomerCannotApprove", models.StatusPending, models.StatusApproved, Actor{UserID: 1, Role: models.RoleCustomer}, ErrForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := newBookingService(t)
			stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: tt.from}
			repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)
			repo.On("UpdateBooking", ctx, mock.Anything).Return(nil)
			if tt.event != "" {
				pub.On("PublishJSON", tt.event, mock.Anything).Return(nil).Once()
			}

			b, err := svc.SetStatus(ctx, 5, tt.to, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, b.Status)
			if tt.event == "" {
				repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
			}
			pub.AssertExpectations(t)
		})
	}

	t.Run("UnknownStatus", func(t *testing.T) {
		svc, _, _ := newBookingService(t)
		_, err := svc.SetStatus(ctx, 5, "CANCELLED", provider)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetBooking", ctx, int64(5)).Return(nil, errNotFound)
		_, err := svc.SetStatus(ctx, 5, models.StatusApproved, provider)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	ctx := context.Background()
	customer := Actor{UserID: 1, Role: models.RoleCustomer}
	provider := Actor{UserID: 2, Role: models.RoleProvider}

	t.Run("MergesFields", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending, Address: "old address"}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)
		repo.On("UpdateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.Address == "new address" && b.Status == models.StatusPending
		})).Return(nil)

		addr := "new address"
		b, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{Address: &addr}, customer)
		require.NoError(t, err)
		assert.Equal(t, "new address", b.Address)
		repo.AssertExpectations(t)
	})

	t.Run("IllegalStatusInPatch", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusRejected}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)

		status := models.StatusApproved
		_, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{Status: &status}, provider)
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
		repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
	})

	t.Run("CustomerCannotChangeStatus", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)

		status := models.StatusApproved
		_, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{Status: &status}, customer)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, models.StatusPending, stored.Status)
		repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
	})

	t.Run("CustomerMayRepeatStatus", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)
		repo.On("UpdateBooking", ctx, mock.Anything).Return(nil)

		status := models.StatusPending
		b, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{Status: &status}, customer)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, b.Status)
	})

	t.Run("ProviderApprovesViaPatch", func(t *testing.T) {
		svc, repo, pub := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)
		repo.On("UpdateBooking", ctx, mock.Anything).Return(nil)
		pub.On("PublishJSON", events.EventBookingApproved, mock.Anything).Return(nil).Once()

		status := models.StatusApproved
		b, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{Status: &status}, provider)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, b.Status)
		pub.AssertExpectations(t)
	})

	t.Run("ProviderCannotBeChanged", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)

		other := int64(3)
		_, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{ServiceProviderID: &other}, customer)
		assert.ErrorIs(t, err, ErrProviderImmutable)
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
		repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
	})

	t.Run("SameProviderAccepted", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}
		repo.On("GetBooking", ctx, int64(5)).Return(stored, nil)
		repo.On("UpdateBooking", ctx, mock.Anything).Return(nil)

		same := int64(2)
		b, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{ServiceProviderID: &same}, customer)
		require.NoError(t, err)
		assert.Equal(t, int64(2), b.ServiceProviderID)
	})

	t.Run("Stranger", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetBooking", ctx, int64(5)).Return(&models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2}, nil)

		_, err := svc.UpdateBooking(ctx, 5, models.BookingPatch{}, Actor{UserID: 3, Role: models.RoleCustomer})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub := newBookingService(t)
	stored := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusPending}

	repo.On("GetBooking", ctx, int64(5)).Return(stored, nil).Once()
	repo.On("DeleteBooking", ctx, int64(5)).Return(nil).Once()
	pub.On("PublishJSON", events.EventBookingDeleted, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.DeleteBooking(ctx, 5, Actor{UserID: 1}))

	repo.On("GetBooking", ctx, int64(5)).Return(nil, errNotFound)
	_, err := svc.GetBooking(ctx, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, svc.DeleteBooking(ctx, 5, Actor{UserID: 1}), ErrBookingNotFound)
}

func TestBookingService_ListByProviderWithStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		bookings := []*models.Booking{
			{ID: 2, UserID: 1, Status: models.StatusCompleted, PreferredDate: "2030-01-01", PreferredTime: "10:00:00", Package: &models.Package{Price: "80.00"}},
			{ID: 1, UserID: 1, Status: models.StatusPending},
		}
		repo.On("ListBookings", ctx, models.BookingFilter{ProviderID: 2}).Return(bookings, nil)
		repo.On("ListReviews", ctx, int64(0), int64(2)).Return([]*models.Review{{Rating: 4}}, nil)

		res, err := svc.ListByProviderWithStats(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, res.ServiceRequests, 2)
		assert.Equal(t, 2, res.Stats.TotalBooking)
		assert.Equal(t, 80.0, res.Stats.TotalEarning)
		assert.Equal(t, 4.0, res.Stats.AvgRating)
		assert.Equal(t, 1, res.Stats.RepeatClients)
	})

	t.Run("RepositoryErrorPropagates", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		boom := errors.New("disk I/O error")
		repo.On("ListBookings", ctx, mock.Anything).Return(nil, boom)

		_, err := svc.ListByProviderWithStats(ctx, 2)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))
	})

	t.Run("UnknownProviderIsEmpty", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("ListBookings", ctx, models.BookingFilter{ProviderID: 42}).Return([]*models.Booking{}, nil)
		repo.On("ListReviews", ctx, int64(0), int64(42)).Return([]*models.Review{}, nil)

		res, err := svc.ListByProviderWithStats(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, res.ServiceRequests)
		assert.Equal(t, 0, res.Stats.TotalBooking)
		assert.Equal(t, "N/A", res.Stats.ResponseTime)
		repo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})
}

func TestBookingService_Modifications(t *testing.T) {
	ctx := context.Background()
	provider := Actor{UserID: 2, Role: models.RoleProvider}
	booking := &models.Booking{ID: 5, UserID: 1, ServiceProviderID: 2, Status: models.StatusApproved}

	t.Run("Create", func(t *testing.T) {
		svc, repo, pub := newBookingService(t)
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil)
		repo.On("CreateModification", ctx, mock.MatchedBy(func(m *models.RequestModification) bool {
			return m.Status == models.ModificationPending && m.Price == "150.00" && m.UserID == 2
		})).Return(nil)
		pub.On("PublishJSON", events.EventModificationCreated, mock.Anything).Return(nil)

		m, err := svc.CreateModification(ctx, CreateModificationInput{
			ServiceRequestID: 5, Reason: "needs extra parts", Price: "150",
		}, provider)
		require.NoError(t, err)
		assert.Equal(t, models.ModificationPending, m.Status)
		repo.AssertExpectations(t)
	})

	t.Run("CreateMissingBooking", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetBooking", ctx, int64(5)).Return(nil, errNotFound)

		_, err := svc.CreateModification(ctx, CreateModificationInput{ServiceRequestID: 5, Reason: "reason", Price: "1"}, provider)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("UpdateTransitions", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.RequestModification{ID: 8, ServiceRequestID: 5, UserID: 2, Status: models.ModificationPending, Price: "150.00"}
		repo.On("GetModification", ctx, int64(8)).Return(stored, nil)
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil)
		repo.On("UpdateModification", ctx, mock.Anything).Return(nil)

		approved := models.ModificationApproved
		m, err := svc.UpdateModification(ctx, 8, models.ModificationPatch{Status: &approved}, Actor{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, models.ModificationApproved, m.Status)

		rejected := models.ModificationRejected
		_, err = svc.UpdateModification(ctx, 8, models.ModificationPatch{Status: &rejected}, Actor{UserID: 1})
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
	})

	t.Run("OwnModification", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.RequestModification{ID: 8, ServiceRequestID: 5, UserID: 2, Status: models.ModificationPending, Price: "150.00"}
		repo.On("GetModification", ctx, int64(8)).Return(stored, nil)
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil)

		approved := models.ModificationApproved
		_, err := svc.UpdateModification(ctx, 8, models.ModificationPatch{Status: &approved}, provider)
		assert.ErrorIs(t, err, ErrOwnModification)
		assert.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
		repo.AssertNotCalled(t, "UpdateModification", mock.Anything, mock.Anything)
	})

	t.Run("AdminMayDecideOwnModification", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		stored := &models.RequestModification{ID: 8, ServiceRequestID: 5, UserID: 50, Status: models.ModificationPending, Price: "150.00"}
		repo.On("GetModification", ctx, int64(8)).Return(stored, nil)
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil)
		repo.On("UpdateModification", ctx, mock.Anything).Return(nil)

		rejected := models.ModificationRejected
		m, err := svc.UpdateModification(ctx, 8, models.ModificationPatch{Status: &rejected}, Actor{UserID: 50, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.ModificationRejected, m.Status)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		svc, repo, _ := newBookingService(t)
		repo.On("GetModification", ctx, int64(8)).Return(nil, errNotFound)

		assert.ErrorIs(t, svc.DeleteModification(ctx, 8, provider), ErrModificationNotFound)
	})
}
