package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"trekmarket/internal/pkg/money"
)

// Repository runs the reporting queries with sqlx. Queries are written with
// ? placeholders and rebound for the connected driver.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type bucket struct {
	Key string `db:"k"`
	N   int64  `db:"n"`
}

func (r *Repository) countBy(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	var rows []bucket
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, b := range rows {
		out[b.Key] = b.N
	}
	return out, nil
}

func (r *Repository) scalar(ctx context.Context, dst any, query string, args ...any) error {
	return r.db.GetContext(ctx, dst, r.db.Rebind(query), args...)
}

func (r *Repository) Vendor(ctx context.Context, vendorID int64, now time.Time) (*VendorStats, error) {
	s := &VendorStats{}
	var err error

	if s.Treks, err = r.countBy(ctx,
		`SELECT status AS k, COUNT(*) AS n FROM treks WHERE vendor_id = ? GROUP BY status`, vendorID); err != nil {
		return nil, err
	}
	if s.Bookings, err = r.countBy(ctx,
		`SELECT status AS k, COUNT(*) AS n FROM bookings WHERE vendor_id = ? GROUP BY status`, vendorID); err != nil {
		return nil, err
	}
	if err = r.scalar(ctx, &s.TravelersBooked,
		`SELECT COALESCE(SUM(total_travelers), 0) FROM bookings WHERE vendor_id = ? AND status IN ('pending', 'confirmed', 'completed')`,
		vendorID); err != nil {
		return nil, err
	}
	if err = r.scalar(ctx, &s.Revenue,
		`SELECT COALESCE(SUM(p.amount), 0) FROM payment_logs p
		 JOIN bookings b ON b.id = p.booking_id
		 WHERE b.vendor_id = ? AND p.status = 'success'`, vendorID); err != nil {
		return nil, err
	}
	if err = r.scalar(ctx, &s.UpcomingDepartures,
		`SELECT COUNT(*) FROM batches bt
		 JOIN treks t ON t.id = bt.trek_id
		 WHERE t.vendor_id = ? AND bt.status = 'open' AND bt.start_date >= ?`, vendorID, now); err != nil {
		return nil, err
	}
	s.Revenue = money.Round2(s.Revenue)
	return s, nil
}

func (r *Repository) Admin(ctx context.Context) (*AdminStats, error) {
	s := &AdminStats{}
	var err error

	if s.Vendors, err = r.countBy(ctx, `SELECT status AS k, COUNT(*) AS n FROM vendors GROUP BY status`); err != nil {
		return nil, err
	}
	if s.Customers, err = r.countBy(ctx, `SELECT status AS k, COUNT(*) AS n FROM customers GROUP BY status`); err != nil {
		return nil, err
	}
	if s.Treks, err = r.countBy(ctx, `SELECT status AS k, COUNT(*) AS n FROM treks GROUP BY status`); err != nil {
		return nil, err
	}
	if s.Bookings, err = r.countBy(ctx, `SELECT status AS k, COUNT(*) AS n FROM bookings GROUP BY status`); err != nil {
		return nil, err
	}
	if err = r.scalar(ctx, &s.Revenue,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_logs WHERE status = 'success'`); err != nil {
		return nil, err
	}
	if err = r.scalar(ctx, &s.Discounts,
		`SELECT COALESCE(SUM(discount_amount), 0) FROM bookings WHERE status <> 'cancelled'`); err != nil {
		return nil, err
	}
	s.Revenue = money.Round2(s.Revenue)
	s.Discounts = money.Round2(s.Discounts)
	return s, nil
}
