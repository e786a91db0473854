package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SubCategory struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"categoryId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Package struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PriceValue parses the stored decimal price. Malformed prices count as zero.
func (p *Package) PriceValue() float64 {
	if p == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.Price), 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizePrice renders a decimal string with exactly two fraction digits,
// so "100" and "100.00" compare equal.
func NormalizePrice(raw string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return "", fmt.Errorf("invalid price %q", raw)
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}

type Portfolio struct {
	ID          int64                 `json:"id"`
	UserID      int64                 `json:"userId"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	StartDate   string                `json:"startDate"`
	EndDate     string                `json:"endDate"`
	Attachments []PortfolioAttachment `json:"attachments"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type PortfolioAttachment struct {
	ID          int64     `json:"id"`
	PortfolioID int64     `json:"portfolioId"`
	FileName    string    `json:"fileName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Certification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Issuer    string    `json:"issuer"`
	EarnedOn  string    `json:"earnedOn"`
	ExpiresOn *string   `json:"expiresOn,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userId"`
	ProviderID       int64     `json:"providerId"`
	ServiceRequestID int64     `json:"serviceRequestId"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Author   *UserSummary `json:"user,omitempty"`
	Provider *UserSummary `json:"provider,omitempty"`
}

// ProviderStats is derived on every read and never persisted.
type ProviderStats struct {
	TotalBooking         int     `json:"total_booking"`
	TotalEarning         float64 `json:"total_earning"`
	CompletionRate       float64 `json:"completion_rate"`
	AvgRating            float64 `json:"avg_rating"`
	TotalRatingCount     int     `json:"total_rating_count"`
	JobsCompleted        int     `json:"jobsCompleted"`
	RepeatClients        int     `json:"repeatClients"`
	ResponseTime         string  `json:"responseTime"`
	OnTimeRate           string  `json:"onTimeRate"`
	OngoingServicesCount int     `json:"ongoingServicesCount"`
}
