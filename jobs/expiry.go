package jobs

import (
	"os"
	"time"

	"coinvault/database"
	"coinvault/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartSecondsExpiryJob sweeps pending seconds wagers whose window has
// closed and resolves them through the timeout path. The resolution is
// idempotent, so overlapping sweeps are harmless.
func StartSecondsExpiryJob() *cron.Cron {
	schedule := os.Getenv("SECONDS_EXPIRY_SCHEDULE")
	if schedule == "" {
		schedule = "@every 10s"
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, sweepExpiredSeconds); err != nil {
		logrus.WithError(err).Fatal("invalid SECONDS_EXPIRY_SCHEDULE")
	}
	c.Start()
	logrus.WithField("schedule", schedule).Info("seconds expiry job started")
	return c
}

func sweepExpiredSeconds() {
	expired, err := services.ListExpiredPendingSecondsRequests(database.DB, time.Now())
	if err != nil {
		logrus.WithError(err).Error("expiry sweep: list failed")
		return
	}

	for _, request := range expired {
		outcome, err := services.ResolveSecondsTimeout(database.DB, request.ID)
		if err != nil {
			logrus.WithError(err).WithField("request_id", request.ID).
				Error("expiry sweep: resolve failed")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"request_id": request.ID,
			"status":     outcome.Status,
		}).Info("seconds request timed out")
	}
}
