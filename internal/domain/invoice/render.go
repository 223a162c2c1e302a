package invoice

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"trekmarket/internal/domain/booking"
)

const dateLayout = "02 Jan 2006"

// Render draws the booking invoice as an A4 PDF and returns it with a
// download filename.
func Render(b *booking.Booking, l *booking.Ledger, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	number := Number(b)

	pdf.SetTitle("Invoice "+number, false)
	pdf.SetAuthor("trekmarket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Invoice no", number)
	line(pdf, "Issued", issued.Format(dateLayout))
	line(pdf, "Booking status", b.Status+" / payment "+b.PaymentStatus)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	if b.Customer != nil {
		line(pdf, "Name", tr(safe(b.Customer.Name, "-")))
		line(pdf, "Phone", safe(b.Customer.Phone, "-"))
		if b.Customer.Email != "" {
			line(pdf, "Email", b.Customer.Email)
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trek")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	if b.Trek != nil {
		line(pdf, "Title", tr(b.Trek.Title))
		line(pdf, "Duration", fmt.Sprintf("%dD/%dN", b.Trek.DurationDays, b.Trek.DurationNights))
	}
	if b.Batch != nil {
		line(pdf, "Departure", b.Batch.StartDate.Format(dateLayout)+" - "+b.Batch.EndDate.Format(dateLayout))
	}
	if b.PickupPoint != nil {
		line(pdf, "Pickup", tr(b.PickupPoint.Name))
	}
	pdf.Ln(4)

	travelerTable(pdf, tr, b)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Amounts")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	amount(pdf, fmt.Sprintf("Trek fare x %d", b.TotalTravelers), b.TotalAmount)
	if b.DiscountAmount > 0 {
		amount(pdf, "Discount", -b.DiscountAmount)
	}
	for _, a := range l.Adjustments {
		amount(pdf, tr("Adjustment: "+a.Reason), a.Amount)
	}
	for _, p := range l.Payments {
		if p.Status != booking.LogSuccess {
			continue
		}
		label := "Paid (" + p.Method + ")"
		if p.TransactionID != "" {
			label += " " + p.TransactionID
		}
		amount(pdf, label, -p.Amount)
	}
	pdf.SetFont("Helvetica", "B", 12)
	amount(pdf, "Balance due", l.BalanceDue)

	if b.Cancellation != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("Cancelled on %s by %s. Refund of %s is %s.",
			b.Cancellation.CancelledAt.Format(dateLayout), b.Cancellation.CancelledBy,
			formatINR(b.Cancellation.RefundAmount), b.Cancellation.RefundStatus), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), number + ".pdf", nil
}

// Number is the human facing invoice number of a booking.
func Number(b *booking.Booking) string {
	return fmt.Sprintf("INV-%s-%06d", b.BookingDate.Format("20060102"), b.ID)
}

func travelerTable(pdf *gofpdf.Fpdf, tr func(string) string, b *booking.Booking) {
	widths := []float64{10, 70, 20, 25, 55}
	headers := []string{"#", "Name", "Age", "Gender", "Phone"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, bt := range b.Travelers {
		if bt.Traveler == nil {
			continue
		}
		t := bt.Traveler
		name := t.Name
		if bt.IsPrimary {
			name += " (primary)"
		}
		cells := []string{strconv.Itoa(i + 1), tr(name), strconv.Itoa(t.Age), safe(t.Gender, "-"), safe(t.Phone, "-")}
		for j, v := range cells {
			pdf.CellFormat(widths[j], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, ": "+value, "", 1, "L", false, 0, "")
}

func amount(pdf *gofpdf.Fpdf, label string, v float64) {
	pdf.CellFormat(130, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, formatINR(v), "", 1, "R", false, 0, "")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// formatINR groups digits the Indian way: 1,23,456.50.
func formatINR(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var grouped string
	if len(whole) <= 3 {
		grouped = whole
	} else {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}
	return sign + "INR " + grouped + "." + frac
}
