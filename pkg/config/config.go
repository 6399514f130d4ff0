// pkg/config/config.go

// Package config binds the service settings to command line flags and
// environment variables.
package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

// Config holds the runtime settings.
type Config struct {
	Port          string
	UploadsDir    string
	ExportPath    string
	ProfilePath   string
	LogoPath      string
	SheetDBURL    string
	DatabaseURL   string
	KafkaBrokers  string
	KafkaTopic    string
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	CleanupDelay  time.Duration
	RecordTimeout time.Duration
	LogLevel      string
	LogDev        bool
}

const (
	flagPort          = "port"
	flagUploadsDir    = "uploads-dir"
	flagExportPath    = "export-path"
	flagProfilePath   = "profile"
	flagLogoPath      = "logo"
	flagSheetDBURL    = "sheetdb-url"
	flagDatabaseURL   = "database-url"
	flagKafkaBrokers  = "kafka-brokers"
	flagKafkaTopic    = "kafka-topic"
	flagS3Bucket      = "s3-bucket"
	flagS3Region      = "s3-region"
	flagS3Prefix      = "s3-prefix"
	flagCleanupDelay  = "cleanup-delay"
	flagRecordTimeout = "record-timeout"
	flagLogLevel      = "log-level"
	flagLogDev        = "log-development"
)

// CommonFlags are shared by every command.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagProfilePath, Usage: "company profile YAML file", EnvVars: []string{"PROFILE_PATH"}},
		&cli.StringFlag{Name: flagLogoPath, Value: "assets/logo.jpg", Usage: "brand logo image", EnvVars: []string{"LOGO_PATH"}},
		&cli.StringFlag{Name: flagLogLevel, Value: "info", Usage: "log level", EnvVars: []string{"LOG_LEVEL"}},
		&cli.BoolFlag{Name: flagLogDev, Usage: "human readable logs", EnvVars: []string{"LOG_DEVELOPMENT"}},
	}
}

// ServeFlags are the flags of the serve command.
func ServeFlags() []cli.Flag {
	return append(CommonFlags(),
		&cli.StringFlag{Name: flagPort, Value: "3005", Usage: "listen port", EnvVars: []string{"PORT"}},
		&cli.StringFlag{Name: flagUploadsDir, Value: "uploads", Usage: "directory for rendered bills", EnvVars: []string{"UPLOADS_DIR"}},
		&cli.StringFlag{Name: flagExportPath, Value: "invoices.xlsx", Usage: "tabular export served by /download-invoices", EnvVars: []string{"EXPORT_PATH"}},
		&cli.StringFlag{Name: flagSheetDBURL, Usage: "SheetDB endpoint for the bill log", EnvVars: []string{"SHEETDB_URL"}},
		&cli.StringFlag{Name: flagDatabaseURL, Usage: "Postgres DSN for the bill log", EnvVars: []string{"DATABASE_URL"}},
		&cli.StringFlag{Name: flagKafkaBrokers, Usage: "comma separated Kafka brokers", EnvVars: []string{"KAFKA_BROKERS"}},
		&cli.StringFlag{Name: flagKafkaTopic, Value: "bills.generated", Usage: "Kafka topic for bill events", EnvVars: []string{"KAFKA_TOPIC"}},
		&cli.StringFlag{Name: flagS3Bucket, Usage: "S3 bucket for archived bills", EnvVars: []string{"S3_BUCKET"}},
		&cli.StringFlag{Name: flagS3Region, Value: "ap-south-1", Usage: "S3 region", EnvVars: []string{"S3_REGION", "AWS_REGION"}},
		&cli.StringFlag{Name: flagS3Prefix, Value: "bills", Usage: "S3 key prefix", EnvVars: []string{"S3_PREFIX"}},
		&cli.DurationFlag{Name: flagCleanupDelay, Value: 10 * time.Second, Usage: "delay before a delivered bill is removed", EnvVars: []string{"CLEANUP_DELAY"}},
		&cli.DurationFlag{Name: flagRecordTimeout, Value: 10 * time.Second, Usage: "timeout for recorder and archive calls", EnvVars: []string{"RECORD_TIMEOUT"}},
	)
}

// FromContext reads the parsed flags of the running command.
func FromContext(c *cli.Context) Config {
	return Config{
		Port:          c.String(flagPort),
		UploadsDir:    c.String(flagUploadsDir),
		ExportPath:    c.String(flagExportPath),
		ProfilePath:   c.String(flagProfilePath),
		LogoPath:      c.String(flagLogoPath),
		SheetDBURL:    c.String(flagSheetDBURL),
		DatabaseURL:   c.String(flagDatabaseURL),
		KafkaBrokers:  c.String(flagKafkaBrokers),
		KafkaTopic:    c.String(flagKafkaTopic),
		S3Bucket:      c.String(flagS3Bucket),
		S3Region:      c.String(flagS3Region),
		S3Prefix:      c.String(flagS3Prefix),
		CleanupDelay:  c.Duration(flagCleanupDelay),
		RecordTimeout: c.Duration(flagRecordTimeout),
		LogLevel:      c.String(flagLogLevel),
		LogDev:        c.Bool(flagLogDev),
	}
}
