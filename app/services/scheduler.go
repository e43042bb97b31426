package services

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartScheduler wires the recurring jobs: tuition generation on the 1st of
// each month and a daily overdue sweep. Returns the runner so main can stop
// it on shutdown.
func StartScheduler(db *sql.DB) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 6 1 * *", func() {
		now := time.Now()
		created, err := GenerateMonthlyTuition(db, now.Month(), now.Year())
		if err != nil {
			logrus.WithError(err).Error("monthly tuition generation failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"month":   int(now.Month()),
			"year":    now.Year(),
			"created": created,
		}).Info("monthly tuition payments generated")
	})

	c.AddFunc("30 6 * * *", func() {
		LogOverduePayments(db)
	})

	c.Start()
	logrus.Info("scheduler started")
	return c
}
