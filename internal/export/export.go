// Package export renders a provider's bookings and dashboard figures as an
// XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"servicefinder/internal/models"
	"servicefinder/internal/service"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet = "Bookings"
	summarySheet  = "Summary"
)

var bookingHeaders = []string{
	"ID", "Customer", "Email", "Package", "Price", "Urgency",
	"Preferred date", "Preferred time", "Address", "Contact", "Status", "Created",
}

// statusFills colours the status cell like a traffic light.
var statusFills = map[models.BookingStatus]string{
	models.StatusPending:   "#FFEB9C",
	models.StatusApproved:  "#DDEBF7",
	models.StatusRejected:  "#FFC7CE",
	models.StatusCompleted: "#C6EFCE",
}

// BookingSource is the slice of BookingService the exporter needs.
type BookingSource interface {
	ListByProviderWithStats(ctx context.Context, providerID int64) (*service.ProviderBookings, error)
}

type Exporter struct {
	source BookingSource
	logger *zerolog.Logger
}

func NewExporter(source BookingSource, logger *zerolog.Logger) *Exporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Exporter{source: source, logger: logger}
}

// ExportProviderBookings writes the workbook for providerID to w.
func (e *Exporter) ExportProviderBookings(ctx context.Context, providerID int64, w io.Writer) error {
	data, err := e.source.ListByProviderWithStats(ctx, providerID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return fmt.Errorf("failed to create bookings sheet: %w", err)
	}
	if err := writeBookings(f, data.ServiceRequests); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, data.Stats); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info().
		Int64("provider_id", providerID).
		Int("bookings", len(data.ServiceRequests)).
		Msg("Provider bookings exported")
	return nil
}

// FileName is the attachment name offered for providerID's workbook.
func FileName(providerID int64) string {
	return fmt.Sprintf("bookings_provider_%d.xlsx", providerID)
}

func writeBookings(f *excelize.File, bookings []*models.Booking) error {
	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(bookingsSheet, "A1", &bookingHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(bookingHeaders))
	_ = f.SetCellStyle(bookingsSheet, "A1", lastCol+"1", header)

	statusStyles := make(map[models.BookingStatus]int, len(statusFills))
	for status, color := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create status style: %w", err)
		}
		statusStyles[status] = id
	}
	statusCol, _ := excelize.ColumnNumberToName(11)

	for i, b := range bookings {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			b.ID,
			customerName(b.Customer),
			customerEmail(b.Customer),
			packageName(b.Package),
			packagePrice(b.Package),
			b.UrgentLevel,
			b.PreferredDate,
			b.PreferredTime,
			b.Address,
			b.ContactNumber,
			string(b.Status),
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write booking %d: %w", b.ID, err)
		}
		if style, ok := statusStyles[b.Status]; ok {
			ref := fmt.Sprintf("%s%d", statusCol, row)
			_ = f.SetCellStyle(bookingsSheet, ref, ref, style)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "D", 22)
	_ = f.SetColWidth(bookingsSheet, "E", "H", 14)
	_ = f.SetColWidth(bookingsSheet, "I", "I", 30)
	_ = f.SetColWidth(bookingsSheet, "J", "L", 16)
	return nil
}

func writeSummary(f *excelize.File, s models.ProviderStats) error {
	rows := [][]interface{}{
		{"Total bookings", s.TotalBooking},
		{"Total earning", s.TotalEarning},
		{"Completion rate (%)", s.CompletionRate},
		{"Average rating", s.AvgRating},
		{"Ratings", s.TotalRatingCount},
		{"Jobs completed", s.JobsCompleted},
		{"Repeat clients", s.RepeatClients},
		{"Response time", s.ResponseTime},
		{"On-time rate", s.OnTimeRate},
		{"Ongoing services", s.OngoingServicesCount},
	}

	label, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create label style: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		_ = f.SetCellStyle(summarySheet, cell, cell, label)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 16)
	return nil
}

func customerName(u *models.UserSummary) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func customerEmail(u *models.UserSummary) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func packageName(p *models.Package) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func packagePrice(p *models.Package) string {
	if p == nil {
		return ""
	}
	return p.Price
}
