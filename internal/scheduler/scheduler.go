package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/weather"
)

// Scheduler periodically runs the weather facade for the configured
// cities so their lookups stay warm and recorded.
type Scheduler struct {
	logger    *zap.Logger
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(logger *zap.Logger, service *weather.Service, cities []string, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		logger:    logger,
		scheduler: s,
		service:   service,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("no prefetch cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.logger.Debug("running weather prefetch job", zap.Int("cities", len(s.cities)))

		var wg sync.WaitGroup
		for _, city := range s.cities {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, outcome := s.service.GetWeather(ctx, city); outcome != weather.OutcomeOK {
					s.logger.Warn("prefetch failed",
						zap.String("city", city),
						zap.String("outcome", string(outcome)))
				}
			}()
		}
		wg.Wait()

		s.logger.Debug("completed weather prefetch job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
