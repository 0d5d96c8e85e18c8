package audit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Retention purges audit rows older than a fixed number of days once a day.
type Retention struct {
	logger *Logger
	days   int
	cron   *cron.Cron
}

func NewRetention(logger *Logger, days int) *Retention {
	return &Retention{
		logger: logger,
		days:   days,
		cron:   cron.New(),
	}
}

func (r *Retention) Start() error {
	if r.days <= 0 {
		log.Info().Msg("audit retention disabled")
		return nil
	}

	if _, err := r.cron.AddFunc("@daily", func() {
		if _, err := r.RunOnce(context.Background(), time.Now()); err != nil {
			log.Error().Err(err).Msg("audit purge failed")
		}
	}); err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce deletes rows older than the retention window measured from now.
func (r *Retention) RunOnce(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -r.days)

	n, err := r.logger.Purge(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("audit logs purged")
	return n, nil
}
