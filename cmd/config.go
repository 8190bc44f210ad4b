package main

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,default=4" validate:"min=1"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024" validate:"min=1"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64" validate:"min=1"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=10s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=1m" validate:"gte=0"`
	CapacityWarnPercent  int           `env:"CAPACITY_WARN_PERCENT,default=80" validate:"gte=0,lte=100"`
	DefaultLocale        string        `env:"DEFAULT_LOCALE,default=en" validate:"required"`

	JournalEnabled bool          `env:"JOURNAL_ENABLED,default=false"`
	BadgerFilepath string        `env:"BADGER_FILEPATH" validate:"required_if=JournalEnabled true"`
	JournalTTL     time.Duration `env:"JOURNAL_TTL,default=168h" validate:"gte=0"`

	TelegramEnabled bool   `env:"TELEGRAM_ENABLED,default=true"`
	BotToken        string `env:"BOT_TOKEN" validate:"required_if=TelegramEnabled true"`
	WebhookURL      string `env:"WEBHOOK_URL" validate:"required_if=TelegramEnabled true"`
	WebhookAddr     string `env:"WEBHOOK_ADDR,default=:8080"`

	GRPCEnabled bool   `env:"GRPC_ENABLED,default=false"`
	Host        string `env:"HOST,default=localhost"`
	Port        int    `env:"PORT,default=9090" validate:"min=1,max=65535"`
}

// Validate checks the field constraints, exactly one transport must be enabled.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.TelegramEnabled == c.GRPCEnabled {
		return fmt.Errorf("exactly one of TELEGRAM_ENABLED and GRPC_ENABLED must be true")
	}
	return nil
}
