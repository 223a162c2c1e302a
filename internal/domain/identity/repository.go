package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trekmarket/internal/database"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

// EnsureRoles creates the fixed staff roles when missing.
func (r *Repository) EnsureRoles(ctx context.Context) error {
	for _, name := range []string{RoleAdmin, RoleVendor} {
		role := Role{Name: name, Description: name + " role"}
		if err := r.db.WithContext(ctx).Where(Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
	}
	return nil
}

func (r *Repository) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, notFound(err)
	}
	return &role, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repository) TouchUserLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

func (r *Repository) GetVendorByUserID(ctx context.Context, userID int64) (*Vendor, error) {
	var v Vendor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *Repository) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	var v Vendor
	if err := r.db.WithContext(ctx).Preload("User").First(&v, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// CreateVendor inserts the operator user and the vendor in one transaction.
func (r *Repository) CreateVendor(ctx context.Context, u *User, v *Vendor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		v.UserID = u.ID
		return tx.Create(v).Error
	})
}

func (r *Repository) ListVendors(ctx context.Context, status string, limit, offset int) ([]Vendor, int64, error) {
	q := r.db.WithContext(ctx).Model(&Vendor{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Vendor
	err := q.Preload("User").Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

func (r *Repository) UpdateVendorStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).Model(&Vendor{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repository) GetCustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) UpdateCustomer(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *Repository) ListCustomers(ctx context.Context, status, search string, limit, offset int) ([]Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&Customer{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Customer
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

func (r *Repository) GetOTP(ctx context.Context, phone string) (*CustomerOTP, error) {
	var row CustomerOTP
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindOrCreateCustomer resolves a customer by phone inside tx, creating a
// minimal active profile for first-time customers.
func FindOrCreateCustomer(tx *gorm.DB, name, phone, email string) (*Customer, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	var c Customer
	err = tx.Where("phone = ?", normalized).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = Customer{Name: name, Phone: normalized, Email: email, Status: StatusActive}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
