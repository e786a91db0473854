package models

import (
	"fmt"
	"time"
)

// Booking is a customer's service request against one provider package.
type Booking struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"userId"`
	ServiceProviderID int64         `json:"serviceProviderId"`
	PackageID         int64         `json:"packageId"`
	UrgentLevel       int           `json:"urgentLevel"`
	Description       string        `json:"description"`
	Address           string        `json:"address"`
	ContactNumber     string        `json:"contactNumber"`
	PreferredDate     string        `json:"preferredDate"`
	PreferredTime     string        `json:"preferredTime"`
	Status            BookingStatus `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`

	Customer      *UserSummary          `json:"user,omitempty"`
	Provider      *UserSummary          `json:"serviceProvider,omitempty"`
	Package       *Package              `json:"package,omitempty"`
	Reviews       []Review              `json:"reviews,omitempty"`
	Modifications []RequestModification `json:"modifications,omitempty"`
}

// PreferredAt combines preferred date and time into a UTC instant.
func (b *Booking) PreferredAt() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, b.PreferredDate+" "+b.PreferredTime, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse preferred date/time: %w", err)
	}
	return t, nil
}

// IsParty reports whether the user is the customer or the provider of the booking.
func (b *Booking) IsParty(userID int64) bool {
	return b.UserID == userID || b.ServiceProviderID == userID
}

// BookingPatch carries optional booking fields; nil means unchanged.
type BookingPatch struct {
	// ServiceProviderID may only repeat the current provider.
	ServiceProviderID *int64         `json:"serviceProviderId" validate:"omitempty,gt=0"`
	PackageID         *int64         `json:"packageId" validate:"omitempty,gt=0"`
	UrgentLevel       *int           `json:"urgentLevel" validate:"omitempty,min=1,max=5"`
	Description       *string        `json:"description" validate:"omitempty,min=5"`
	Address           *string        `json:"address" validate:"omitempty,min=5"`
	ContactNumber     *string        `json:"contactNumber" validate:"omitempty,min=5"`
	PreferredDate     *string        `json:"preferredDate" validate:"omitempty,datetime=2006-01-02"`
	PreferredTime     *string        `json:"preferredTime" validate:"omitempty,datetime=15:04:05"`
	Status            *BookingStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED COMPLETED"`
}

// Apply merges every field except Status, which goes through the lifecycle check.
func (p BookingPatch) Apply(b *Booking) {
	if p.PackageID != nil {
		b.PackageID = *p.PackageID
	}
	if p.UrgentLevel != nil {
		b.UrgentLevel = *p.UrgentLevel
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.ContactNumber != nil {
		b.ContactNumber = *p.ContactNumber
	}
	if p.PreferredDate != nil {
		b.PreferredDate = *p.PreferredDate
	}
	if p.PreferredTime != nil {
		b.PreferredTime = *p.PreferredTime
	}
}

// BookingFilter narrows booking list queries. Zero values match everything.
type BookingFilter struct {
	CustomerID int64
	ProviderID int64
}

type RequestModification struct {
	ID               int64              `json:"id"`
	ServiceRequestID int64              `json:"serviceRequestId"`
	UserID           int64              `json:"userId"`
	Reason           string             `json:"reason"`
	Price            string             `json:"price"`
	TimeRequired     string             `json:"timeRequired,omitempty"`
	Status           ModificationStatus `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`

	User *UserSummary `json:"user,omitempty"`
}

type ModificationPatch struct {
	Reason       *string             `json:"reason" validate:"omitempty,min=5"`
	Price        *string             `json:"price" validate:"omitempty,price"`
	TimeRequired *string             `json:"timeRequired" validate:"omitempty,max=100"`
	Status       *ModificationStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

func (p ModificationPatch) Apply(m *RequestModification) {
	if p.Reason != nil {
		m.Reason = *p.Reason
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.TimeRequired != nil {
		m.TimeRequired = *p.TimeRequired
	}
}
