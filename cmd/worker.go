package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/config"
	"github.com/Badsnus/events-backend/internal/adapters/worker"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker: runs queued weather and notification tasks and refreshes venue weather periodically.`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := config.Get(config.Options{File: configFile, LogPrefix: "[worker]"})
	a, err := app.New(cfg, "worker")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := worker.New(a.Redis.Tasks, worker.Options{
		Concurrency: viper.GetInt("worker.concurrency"),
		PollTimeout: viper.GetDuration("worker.poll-timeout"),
		MaxAttempts: viper.GetInt("worker.max-attempts"),
	}, logger.Must("tasks"))
	w.Register(dto.TaskFetchEventWeather, worker.FetchEventWeather(a.Services.Weather))
	w.Register(dto.TaskSendEventNotification, worker.SendEventNotification(a.Services.Notify))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(ctx)
	})
	g.Go(func() error {
		return worker.RunWeatherRefresh(ctx, a.Services.Weather, viper.GetDuration("worker.weather-refresh-interval"), logger.Must("scheduler"))
	})

	if err := g.Wait(); err != nil {
		a.Logger.Errorf("Worker error: %v", err)
		return err
	}

	a.Logger.Info("Worker shutting down gracefully")
	return nil
}
