package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"trekmarket/internal/domain/identity"
)

// VendorCreator opens the vendor account for a converted lead.
type VendorCreator interface {
	CreateVendor(ctx context.Context, req identity.CreateVendorRequest) (*identity.Vendor, error)
}

type Service struct {
	repo    *Repository
	vendors VendorCreator
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewService(repo *Repository, vendors VendorCreator, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, vendors: vendors, log: log, now: time.Now}
}

// Submit records a public application. An open lead for the same address is
// returned instead of creating a duplicate.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, ip, userAgent string) (*VendorLead, error) {
	email := strings.ToLower(strings.TrimSpace(req.ContactEmail))

	taken, err := s.repo.StaffEmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	existing, err := s.repo.LatestByEmail(ctx, email)
	switch {
	case err == nil && !existing.IsConverted():
		return existing, nil
	case err != nil && !errors.Is(err, ErrLeadNotFound):
		return nil, err
	}

	now := s.now().UTC()
	l := &VendorLead{
		ContactName:      strings.TrimSpace(req.ContactName),
		ContactEmail:     email,
		ContactPhone:     strings.TrimSpace(req.ContactPhone),
		BusinessName:     strings.TrimSpace(req.BusinessName),
		GSTNumber:        nullable(strings.ToUpper(req.GSTNumber)),
		BusinessAddress:  nullable(req.BusinessAddress),
		Website:          nullable(req.Website),
		OperatingRegions: nullable(req.OperatingRegions),
		YearsOperating:   req.YearsOperating,
		Message:          nullable(req.Message),
		HowFoundUs:       nullable(req.HowFoundUs),
		Status:           StatusNew,
		Source:           nullable("website"),
		UTMSource:        nullable(req.UTMSource),
		UTMMedium:        nullable(req.UTMMedium),
		UTMCampaign:      nullable(req.UTMCampaign),
		IPAddress:        nullable(ip),
		UserAgent:        nullable(userAgent),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"lead_id": l.ID, "business": l.BusinessName}).Info("vendor lead submitted")
	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*VendorLead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]VendorLead, int64, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) error {
	if _, err := s.open(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, req.Status, req.Notes, req.Reason, s.now().UTC())
}

// MarkContacted logs a follow-up. A new lead moves to contacted.
func (s *Service) MarkContacted(ctx context.Context, id int64) error {
	l, err := s.open(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if l.Status == StatusNew {
		if err := s.repo.UpdateStatus(ctx, id, StatusContacted, "", "", now); err != nil {
			return err
		}
	}
	return s.repo.MarkContacted(ctx, id, now)
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) error {
	if _, err := s.open(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, StatusRejected, "", reason, s.now().UTC())
}

func (s *Service) Assign(ctx context.Context, id int64, req AssignRequest) error {
	return s.repo.Assign(ctx, id, req.AdminID, req.Priority, s.now().UTC())
}

// Convert opens an active vendor account from the lead and marks it
// converted. Rejected and lost leads must be reopened first.
func (s *Service) Convert(ctx context.Context, id int64, req ConvertRequest) (*identity.Vendor, error) {
	l, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == StatusRejected || l.Status == StatusLost {
		return nil, ErrCannotConvert
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = l.ContactName
	}
	v, err := s.vendors.CreateVendor(ctx, identity.CreateVendorRequest{
		Name:            name,
		Email:           l.ContactEmail,
		Password:        req.Password,
		Phone:           l.ContactPhone,
		BusinessName:    l.BusinessName,
		BusinessAddress: deref(l.BusinessAddress),
		GSTNumber:       deref(l.GSTNumber),
		Status:          identity.StatusActive,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if err := s.repo.MarkConverted(ctx, id, v.ID, s.now().UTC()); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"lead_id": id, "vendor_id": v.ID}).Info("vendor lead converted")
	return v, nil
}

func (s *Service) Stats(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) open(ctx context.Context, id int64) (*VendorLead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.IsConverted() {
		return nil, ErrAlreadyConverted
	}
	return l, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
