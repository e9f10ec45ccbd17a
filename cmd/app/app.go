package app

import (
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/Badsnus/events-backend/internal/adapters/config"
	"github.com/Badsnus/events-backend/internal/adapters/database/postgres"
	"github.com/Badsnus/events-backend/internal/adapters/database/redis"
	"github.com/Badsnus/events-backend/internal/adapters/media"
	"github.com/Badsnus/events-backend/internal/adapters/weather"
	"github.com/Badsnus/events-backend/internal/domain/service"
	"github.com/Badsnus/events-backend/pkg/logger"
	"github.com/Badsnus/events-backend/pkg/logger/types"
	qr "github.com/Badsnus/events-backend/pkg/qrcode"
	"github.com/Badsnus/events-backend/pkg/smtp"
)

// App holds the shared clients and domain services of one process.
type App struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Media      media.Storage
	SMTPDialer *gomail.Dialer
	Logger     *types.Logger

	Services *Services
}

type Services struct {
	Users              *service.UserService
	Venues             *service.VenueService
	Events             *service.EventService
	Import             *service.ImportService
	Export             *service.ExportService
	Images             *service.ImageService
	QR                 *service.QrService
	Weather            *service.WeatherService
	Notify             *service.NotifyService
	NotificationConfig *service.NotificationConfigService
}

func New(cfg *config.Config, name string) (*App, error) {
	appLogger, err := logger.Named(name)
	if err != nil {
		return nil, err
	}

	a := &App{
		DB:         cfg.Database,
		Redis:      cfg.Redis,
		Media:      cfg.Media,
		SMTPDialer: cfg.SMTPDialer,
		Logger:     appLogger,
	}

	qrCFG := qr.Default
	if path := viper.GetString("service.qr.logo"); path != "" {
		logo, err := qr.LoadLogo(path)
		if err != nil {
			return nil, err
		}
		qrCFG.Logo = logo
	}

	a.Services = a.newServices(qrCFG)
	a.setupLogHook()

	return a, nil
}

func (a *App) newServices(qrCFG qr.Config) *Services {
	userStorage := postgres.NewUserStorage(a.DB)
	venueStorage := postgres.NewVenueStorage(a.DB)
	eventStorage := postgres.NewEventStorage(a.DB)
	notificationStorage := postgres.NewNotificationStorage(a.DB)
	weatherStorage := postgres.NewWeatherStorage(a.DB)

	trigger := service.NewPublicationTrigger(
		a.Redis.Tasks,
		notificationStorage,
		service.NewRecipientResolver(userStorage),
		logger.Must("publication"),
	)
	eventService := service.NewEventService(eventStorage, venueStorage, trigger, logger.Must("events"))
	venueService := service.NewVenueService(venueStorage)

	weatherClient := weather.NewClient(weather.Options{
		BaseURL:      viper.GetString("service.weather.base-url"),
		Timeout:      viper.GetDuration("service.weather.timeout"),
		Retries:      viper.GetInt("service.weather.retries"),
		RetryBackoff: viper.GetDuration("service.weather.retry-backoff"),
	}, logger.Must("open-meteo"))

	mailer := smtp.NewClient(a.SMTPDialer, viper.GetString("service.smtp.email"), viper.GetString("service.smtp.domain"))

	return &Services{
		Users:  service.NewUserService(userStorage),
		Venues: venueService,
		Events: eventService,
		Import: service.NewImportService(postgres.NewTransactor(a.DB), venueService, eventService, logger.Must("import")),
		Export: service.NewExportService(eventStorage),
		Images: service.NewImageService(a.Media, postgres.NewEventImageStorage(a.DB), eventStorage, eventService, logger.Must("images")),
		QR:     service.NewQrService(eventService, qrCFG, viper.GetString("service.http.public-url")),
		Weather: service.NewWeatherService(
			weatherClient,
			weatherStorage,
			a.Redis.Weather,
			venueStorage,
			eventStorage,
			eventService,
			logger.Must("weather"),
		),
		Notify:             service.NewNotifyService(mailer, notificationStorage, logger.Must("notify")),
		NotificationConfig: service.NewNotificationConfigService(notificationStorage),
	}
}

func (a *App) setupLogHook() {
	to := viper.GetString("settings.log-email.to")
	if to == "" {
		return
	}
	level := zapcore.Level(viper.GetInt("settings.log-email.level"))
	logger.SetLogHook(a.Services.Notify.LogHook(to, level))
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		a.Logger.Errorf("Failed to close redis: %v", err)
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
