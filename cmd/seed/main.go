package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/config"
	"trekmarket/internal/database"
	"trekmarket/internal/domain/coupon"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/reference"
	"trekmarket/internal/domain/review"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/pkg/jwt"
	"trekmarket/internal/pkg/logger"
	"trekmarket/internal/server"
)

const (
	adminEmail     = "admin@trekmarket.local"
	adminPassword  = "admin12345"
	vendorEmail    = "ops@himalayan-trails.local"
	vendorPassword = "vendor12345"
)

func main() {
	log := logger.New("info", os.Getenv("APP_ENV"))

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProdLike() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}

	ctx := context.Background()
	if err := server.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	var existing identity.User
	err = db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		log.Info("database already seeded, nothing to do")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Fatal("lookup admin failed")
	}

	if err := seed(ctx, db, cfg, log); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithFields(logrus.Fields{
		"admin":  adminEmail + " / " + adminPassword,
		"vendor": vendorEmail + " / " + vendorPassword,
	}).Info("seed completed")
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) error {
	repo := identity.NewRepository(db)
	identities := identity.NewService(repo, jwt.New(cfg.JWTSecret, cfg.StaffTTL, cfg.CustomerTTL),
		identity.NewDevConsoleSender(log, false), identity.OTPConfig{
			Pepper: cfg.OTPPepper, TTL: cfg.OTPTTL, ResendCooldown: cfg.OTPResendCooldown,
		}, log)

	log.Info("creating admin")
	adminRole, err := repo.GetRoleByName(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	hash, err := identity.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Create(&identity.User{
		Name: "Marketplace Admin", Email: adminEmail, PasswordHash: hash,
		RoleID: adminRole.ID, Status: identity.StatusActive,
	}).Error; err != nil {
		return err
	}

	log.Info("creating vendor")
	vendor, err := identities.CreateVendor(ctx, identity.CreateVendorRequest{
		Name: "Tenzing Ops", Email: vendorEmail, Password: vendorPassword, Phone: "+919800000001",
		BusinessName: "Himalayan Trails", BusinessAddress: "Old Manali, Himachal Pradesh",
		Status: identity.StatusActive,
	})
	if err != nil {
		return err
	}

	log.Info("creating reference data")
	refs := reference.NewService(db)
	destination := reference.Destination{Name: "Kullu Valley", State: "Himachal Pradesh", Country: "India", IsPopular: true, Status: "active"}
	if err := refs.Destinations.Create(ctx, &destination, destination.Name); err != nil {
		return err
	}
	policy := reference.CancellationPolicy{Name: "Standard", Description: "Full refund up to 7 days before departure", Status: "active"}
	if err := refs.Policies.Create(ctx, &policy, policy.Name); err != nil {
		return err
	}

	log.Info("creating trek")
	treks := trek.NewService(db, refs, log)
	t, err := treks.Create(ctx, vendor.ID, trek.TrekRequest{
		Title:                "Hampta Pass Crossover",
		Description:          "Cross from the green Kullu valley into the desert of Lahaul.",
		DestinationID:        &destination.ID,
		Inclusions:           []string{"Meals on trek", "Tents", "Certified trek leader"},
		Exclusions:           []string{"Travel to Manali", "Personal expenses"},
		BasePrice:            8500,
		MaxParticipants:      20,
		DurationDays:         5,
		DurationNights:       4,
		Difficulty:           "moderate",
		TrekType:             "crossover",
		CancellationPolicyID: &policy.ID,
		Status:               trek.StatusActive,
		Itinerary: []trek.ItineraryInput{
			{DayNumber: 1, Title: "Manali to Jobra, trek to Chika"},
			{DayNumber: 2, Title: "Chika to Balu ka Ghera"},
			{DayNumber: 3, Title: "Cross Hampta Pass to Shea Goru"},
			{DayNumber: 4, Title: "Shea Goru to Chatru, Chandratal visit"},
			{DayNumber: 5, Title: "Drive back to Manali"},
		},
	})
	if err != nil {
		return err
	}

	first := time.Now().AddDate(0, 0, 21)
	var dates []string
	for i := 0; i < 3; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i).Format("2006-01-02"))
	}
	if _, err := treks.CreateBatches(ctx, vendor.ID, t.ID, trek.BatchesRequest{StartDates: dates}); err != nil {
		return err
	}
	if _, err := treks.CreatePickupPoint(ctx, vendor.ID, t.ID, trek.PickupPointRequest{
		Name: "Manali Mall Road", Address: "Near Hidimba Temple turn", PickupTime: "07:00",
	}); err != nil {
		return err
	}

	log.Info("creating rating categories")
	reviews := review.NewService(db, nil, log)
	for i, name := range []string{"Scenery", "Trek Leader", "Food", "Campsites", "Value for Money"} {
		if _, err := reviews.CreateCategory(ctx, review.CategoryRequest{Name: name, SortOrder: i + 1}); err != nil {
			return err
		}
	}

	log.Info("creating coupon")
	maxDiscount := 1500.0
	if _, err := coupon.NewService(db, log).Create(ctx, coupon.CouponRequest{
		Code: "HIMALAYA10", Description: "10% off the first trek",
		DiscountType: coupon.TypePercentage, DiscountValue: 10, MaxDiscountAmount: &maxDiscount,
	}); err != nil {
		return err
	}
	return nil
}
