package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxOTPAttempts = 5

var (
	codeRegex  = regexp.MustCompile(`^\d{6}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

type SMSSender interface {
	SendLoginCode(ctx context.Context, phone, code string) error
}

// DevConsoleSender prints codes to the log instead of sending an SMS.
type DevConsoleSender struct {
	log     logrus.FieldLogger
	enabled bool
}

func NewDevConsoleSender(log logrus.FieldLogger, enabled bool) *DevConsoleSender {
	return &DevConsoleSender{log: log, enabled: enabled}
}

func (s *DevConsoleSender) SendLoginCode(_ context.Context, phone, code string) error {
	if s.enabled {
		s.log.WithFields(logrus.Fields{"phone": phone, "code": code}).Info("[DEV-SMS] login code")
	}
	return nil
}

type CustomerLoginResult struct {
	Token         string    `json:"token"`
	Customer      *Customer `json:"customer"`
	IsNewCustomer bool      `json:"is_new_customer"`
}

// NormalizePhone strips formatting characters and validates the result.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	if !phoneRegex.MatchString(cleaned) {
		return "", ErrInvalidPhone
	}
	return cleaned, nil
}

func (s *Service) RequestLoginCode(ctx context.Context, phone string) error {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	now := s.now()
	current, err := s.repo.GetOTP(ctx, phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if current != nil && current.LastSentAt.Add(s.otp.ResendCooldown).After(now) {
		return ErrRateLimitExceeded
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	codeHash := hashCode(code, s.otp.Pepper)
	expiresAt := now.Add(s.otp.TTL)
	db := s.repo.DB().WithContext(ctx)

	if current == nil {
		row := CustomerOTP{
			Phone:       phone,
			CodeHash:    codeHash,
			ResendCount: 1,
			LastSentAt:  now,
			ExpiresAt:   expiresAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	} else {
		if err := db.Model(&CustomerOTP{}).Where("phone = ?", phone).Updates(map[string]any{
			"code_hash":    codeHash,
			"attempts":     0,
			"last_sent_at": now,
			"expires_at":   expiresAt,
			"resend_count": gorm.Expr("resend_count + 1"),
			"used_at":      nil,
		}).Error; err != nil {
			return err
		}
	}

	return s.sms.SendLoginCode(ctx, phone, code)
}

// VerifyLoginCode consumes a code and signs the customer in, creating the
// customer on first login.
func (s *Service) VerifyLoginCode(ctx context.Context, phone, code string) (*CustomerLoginResult, error) {
	if !codeRegex.MatchString(code) {
		return nil, ErrInvalidCodeFormat
	}
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	now := s.now()
	row, err := s.repo.GetOTP(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if row.Attempts >= maxOTPAttempts {
		return nil, ErrTooManyAttempts
	}
	if row.UsedAt != nil || !row.ExpiresAt.After(now) {
		return nil, ErrInvalidCode
	}

	db := s.repo.DB().WithContext(ctx)
	if hashCode(code, s.otp.Pepper) != row.CodeHash {
		attempts := row.Attempts + 1
		if err := db.Model(&CustomerOTP{}).Where("phone = ?", phone).Update("attempts", attempts).Error; err != nil {
			return nil, err
		}
		if attempts >= maxOTPAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidCode
	}

	var customer Customer
	isNew := false
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CustomerOTP{}).Where("phone = ? AND used_at IS NULL", phone).Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidCode
		}

		err := tx.Where("phone = ?", phone).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			customer = Customer{Phone: phone, Status: StatusActive}
			isNew = true
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		customer.LastLoginAt = &now
		return tx.Model(&Customer{}).Where("id = ?", customer.ID).Update("last_login_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	if customer.Status != StatusActive {
		return nil, ErrAccountInactive
	}

	token, err := s.tokens.GenerateCustomerToken(customer.ID)
	if err != nil {
		return nil, fmt.Errorf("sign customer token: %w", err)
	}

	s.log.WithFields(logrus.Fields{"customer_id": customer.ID, "new": isNew}).Info("customer signed in")
	return &CustomerLoginResult{Token: token, Customer: &customer, IsNewCustomer: isNew}, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code, pepper string) string {
	h := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(h[:])
}

// PurgeExpiredCodes deletes used codes and codes past their expiry.
func PurgeExpiredCodes(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at < ? OR used_at IS NOT NULL", now).Delete(&CustomerOTP{})
	return res.RowsAffected, res.Error
}
