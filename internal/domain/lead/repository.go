package lead

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository handles lead data access. Statements use ? placeholders and are
// rebound for the connected driver.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) q(query string) string {
	return r.db.Rebind(query)
}

func (r *Repository) Create(ctx context.Context, l *VendorLead) error {
	query := `
		INSERT INTO vendor_leads (
			contact_name, contact_email, contact_phone,
			business_name, gst_number, business_address, website,
			operating_regions, years_operating, message, how_found_us,
			status, priority, follow_up_count,
			source, utm_source, utm_medium, utm_campaign,
			ip_address, user_agent,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	return r.db.QueryRowxContext(ctx, r.q(query),
		l.ContactName, l.ContactEmail, l.ContactPhone,
		l.BusinessName, l.GSTNumber, l.BusinessAddress, l.Website,
		l.OperatingRegions, l.YearsOperating, l.Message, l.HowFoundUs,
		l.Status, l.Priority, l.FollowUpCount,
		l.Source, l.UTMSource, l.UTMMedium, l.UTMCampaign,
		l.IPAddress, l.UserAgent,
		l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*VendorLead, error) {
	var l VendorLead
	err := r.db.GetContext(ctx, &l, r.q(`SELECT * FROM vendor_leads WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LatestByEmail returns the newest lead for the address, or ErrLeadNotFound.
func (r *Repository) LatestByEmail(ctx context.Context, email string) (*VendorLead, error) {
	var l VendorLead
	err := r.db.GetContext(ctx, &l,
		r.q(`SELECT * FROM vendor_leads WHERE contact_email = ? ORDER BY created_at DESC, id DESC LIMIT 1`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// StaffEmailTaken reports whether a staff account already uses the address.
func (r *Repository) StaffEmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.q(`SELECT COUNT(*) FROM users WHERE email = ?`), email)
	return n > 0, err
}

func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]VendorLead, int64, error) {
	where := ""
	var args []any
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, status)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.q(`SELECT COUNT(*) FROM vendor_leads`+where), args...); err != nil {
		return nil, 0, err
	}

	leads := []VendorLead{}
	query := `SELECT * FROM vendor_leads` + where + ` ORDER BY priority DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`
	err := r.db.SelectContext(ctx, &leads, r.q(query), append(args, limit, offset)...)
	return leads, total, err
}

// UpdateStatus sets the status. Empty notes or reason keep the stored value.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, notes, reason string, now time.Time) error {
	query := `
		UPDATE vendor_leads
		SET status = ?, notes = COALESCE(?, notes), rejection_reason = COALESCE(?, rejection_reason), updated_at = ?
		WHERE id = ?`
	return r.exec(ctx, query, status, nullable(notes), nullable(reason), now, id)
}

func (r *Repository) MarkContacted(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE vendor_leads
		SET last_contacted_at = ?, follow_up_count = follow_up_count + 1, updated_at = ?
		WHERE id = ?`
	return r.exec(ctx, query, now, now, id)
}

func (r *Repository) Assign(ctx context.Context, id, adminID int64, priority int, now time.Time) error {
	return r.exec(ctx, `UPDATE vendor_leads SET assigned_to = ?, priority = ?, updated_at = ? WHERE id = ?`,
		adminID, priority, now, id)
}

// MarkConverted flips a lead to converted once; a second call finds no
// unconverted row and returns ErrAlreadyConverted.
func (r *Repository) MarkConverted(ctx context.Context, id, vendorID int64, now time.Time) error {
	query := `
		UPDATE vendor_leads
		SET status = ?, converted_at = ?, converted_vendor_id = ?, updated_at = ?
		WHERE id = ? AND status <> ?`
	res, err := r.db.ExecContext(ctx, r.q(query), StatusConverted, now, vendorID, now, id, StatusConverted)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyConverted
	}
	return nil
}

func (r *Repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status `db:"status"`
		N      int64  `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM vendor_leads GROUP BY status`); err != nil {
		return nil, err
	}
	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
