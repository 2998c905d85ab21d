package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DailyReportSchedule runs the close-of-day report at 23:55 local time.
const DailyReportSchedule = "55 23 * * *"

const reportTimeout = 30 * time.Second

type DailyReporter interface {
	LogDailyReport(ctx context.Context) error
}

// InitCronJobs registers the scheduled jobs and starts c. The cron's own
// location decides what "23:55" means.
func InitCronJobs(c *cron.Cron, reporter DailyReporter) error {
	_, err := c.AddFunc(DailyReportSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if err := reporter.LogDailyReport(ctx); err != nil {
			log.Printf("Daily attendance report failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
