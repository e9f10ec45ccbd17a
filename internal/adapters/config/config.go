package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	postgresStorage "github.com/Badsnus/events-backend/internal/adapters/database/postgres"
	"github.com/Badsnus/events-backend/internal/adapters/database/redis"
	"github.com/Badsnus/events-backend/internal/adapters/media"
	"github.com/Badsnus/events-backend/internal/domain/utils/location"
	"github.com/Badsnus/events-backend/pkg/logger"
)

type Config struct {
	Database   *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
	Media      media.Storage
}

// Options tune Get for the running process.
type Options struct {
	File      string // Explicit config file, otherwise ./config.yaml
	LogPrefix string
	Migrate   bool
}

func initConfig(file string) {
	// .env is optional
	_ = godotenv.Load()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
}

func setDefaults() {
	viper.SetDefault("settings.timezone", "UTC")
	viper.SetDefault("settings.logs-dir", "logs")
	viper.SetDefault("service.http.address", ":8080")
	viper.SetDefault("service.http.public-url", "http://localhost:8080")
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.redis.weather-ttl", 6*time.Hour)
	viper.SetDefault("service.smtp.port", 587)
	viper.SetDefault("service.media.driver", "local")
	viper.SetDefault("service.media.dir", "media")
	viper.SetDefault("service.weather.base-url", "https://api.open-meteo.com")
	viper.SetDefault("service.weather.timeout", 20*time.Second)
	viper.SetDefault("service.weather.retries", 3)
	viper.SetDefault("service.weather.retry-backoff", time.Second)
	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.poll-timeout", 5*time.Second)
	viper.SetDefault("worker.max-attempts", 5)
	viper.SetDefault("worker.weather-refresh-interval", time.Hour)
}

func Get(opts Options) *Config {
	initConfig(opts.File)

	if err := location.Load(viper.GetString("settings.timezone")); err != nil {
		panic(err)
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
		Prefix:       opts.LogPrefix,
	})
	if err != nil {
		panic(err)
	}

	var gormConfig *gorm.Config
	if viper.GetBool("settings.debug") {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		}
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=UTC",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	if opts.Migrate {
		errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
		if errMigrate != nil {
			logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
		}
		logger.Log.Info("Database migrated")
	}

	redisClient, err := redis.New(redis.Options{
		Host:       viper.GetString("service.redis.host"),
		Port:       viper.GetString("service.redis.port"),
		Password:   viper.GetString("service.redis.password"),
		WeatherTTL: viper.GetDuration("service.redis.weather-ttl"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	mediaStorage, err := newMediaStorage()
	if err != nil {
		logger.Log.Panicf("Failed to init media storage: %v", err)
	}

	dialer := gomail.NewDialer(
		viper.GetString("service.smtp.host"),
		viper.GetInt("service.smtp.port"),
		viper.GetString("service.smtp.email"),
		viper.GetString("service.smtp.password"),
	)

	return &Config{
		Database:   database,
		Redis:      redisClient,
		SMTPDialer: dialer,
		Media:      mediaStorage,
	}
}

func newMediaStorage() (media.Storage, error) {
	publicURL := strings.TrimRight(viper.GetString("service.http.public-url"), "/")

	switch driver := viper.GetString("service.media.driver"); driver {
	case "local":
		return media.NewLocalStorage(viper.GetString("service.media.dir"), publicURL+"/media")
	case "s3":
		return media.NewS3Storage(context.Background(), media.S3Options{
			Endpoint:        viper.GetString("service.media.s3.endpoint"),
			Region:          viper.GetString("service.media.s3.region"),
			Bucket:          viper.GetString("service.media.s3.bucket"),
			AccessKeyID:     viper.GetString("service.media.s3.access-key-id"),
			SecretAccessKey: viper.GetString("service.media.s3.secret-access-key"),
			UsePathStyle:    viper.GetBool("service.media.s3.use-path-style"),
			PublicURL:       viper.GetString("service.media.s3.public-url"),
		})
	default:
		return nil, fmt.Errorf("unknown media driver %q", driver)
	}
}
