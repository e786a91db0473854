package service

import (
	"fmt"
	"math"

	"servicefinder/internal/models"
)

// ComputeProviderStats derives the dashboard figures from a provider's
// bookings (with packages loaded) and the reviews they received.
func ComputeProviderStats(bookings []*models.Booking, reviews []*models.Review) models.ProviderStats {
	stats := models.ProviderStats{
		TotalBooking:     len(bookings),
		TotalRatingCount: len(reviews),
		ResponseTime:     "N/A",
		OnTimeRate:       "0%",
	}

	var (
		responded     int
		responseHours float64
		onTime        int
		perCustomer   = make(map[int64]int)
	)

	for _, b := range bookings {
		perCustomer[b.UserID]++

		switch b.Status {
		case models.StatusCompleted:
			stats.JobsCompleted++
			stats.TotalEarning += b.Package.PriceValue()
			if at, err := b.PreferredAt(); err == nil && !b.UpdatedAt.After(at) {
				onTime++
			}
		case models.StatusPending, models.StatusApproved:
			stats.OngoingServicesCount++
		}

		if b.Status != models.StatusPending {
			responded++
			responseHours += b.UpdatedAt.Sub(b.CreatedAt).Hours()
		}
	}

	for _, n := range perCustomer {
		if n > 1 {
			stats.RepeatClients++
		}
	}

	if stats.TotalBooking > 0 {
		total := float64(stats.TotalBooking)
		stats.CompletionRate = float64(stats.JobsCompleted) / total * 100
		stats.OnTimeRate = fmt.Sprintf("%.0f%%", float64(onTime)/total*100)
	}
	if responded > 0 {
		stats.ResponseTime = fmt.Sprintf("%.1f hours", responseHours/float64(responded))
	}

	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		stats.AvgRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	return stats
}
