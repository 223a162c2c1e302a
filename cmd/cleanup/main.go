package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"trekmarket/internal/config"
	"trekmarket/internal/database"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/notification"
	"trekmarket/internal/pkg/logger"
)

const notificationRetention = 30 * 24 * time.Hour

// Deletes used or expired login codes and old read notifications. Meant for cron.
func main() {
	log := logger.New("info", os.Getenv("APP_ENV"))

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()
	codes, err := identity.PurgeExpiredCodes(ctx, db, now)
	if err != nil {
		log.WithError(err).Fatal("otp cleanup failed")
	}
	notes, err := notification.PurgeRead(ctx, db, notificationRetention, now)
	if err != nil {
		log.WithError(err).Fatal("notification cleanup failed")
	}
	log.WithFields(logrus.Fields{"otp_codes": codes, "notifications": notes}).Info("cleanup completed")
}
