package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type weatherRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// RunWeatherRefresh snapshots every venue each interval until ctx is cancelled.
func RunWeatherRefresh(ctx context.Context, refresher weatherRefresher, interval time.Duration, logger *types.Logger) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := refresher.RefreshAll(ctx); err != nil {
				logger.Errorf("failed to refresh weather: %v", err)
			}
		}),
		gocron.WithName("weather.refresh_all"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	logger.Infof("Weather refresh scheduled every %s", interval)
	scheduler.Start()

	<-ctx.Done()

	return scheduler.Shutdown()
}
