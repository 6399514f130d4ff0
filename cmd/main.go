// cmd/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	_ "github.com/billing-microservice/docs"
	"github.com/billing-microservice/pkg/archive"
	"github.com/billing-microservice/pkg/artifact"
	"github.com/billing-microservice/pkg/billing"
	"github.com/billing-microservice/pkg/config"
	"github.com/billing-microservice/pkg/layout"
	"github.com/billing-microservice/pkg/logging"
	"github.com/billing-microservice/pkg/metrics"
	"github.com/billing-microservice/pkg/profile"
	"github.com/billing-microservice/pkg/recorder"
	"github.com/billing-microservice/pkg/render"
	"github.com/billing-microservice/pkg/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	app := &cli.App{
		Name:  "billing",
		Usage: "render single page bills",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP billing server",
				Flags:  config.ServeFlags(),
				Action: serve,
			},
			{
				Name:  "render",
				Usage: "render an order JSON file to a PDF",
				Flags: append(config.CommonFlags(),
					&cli.StringFlag{Name: "in", Usage: "order JSON file, - for stdin", Required: true},
					&cli.StringFlag{Name: "out", Usage: "output PDF path, defaults to the bill filename"},
				),
				Action: renderFile,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg := config.FromContext(c)

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	prof, brand, err := loadLetterhead(cfg, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	rec, closeRecorders, err := buildRecorder(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRecorders()

	arc, err := buildArchiver(cfg, logger)
	if err != nil {
		return err
	}

	store, err := artifact.NewStore(cfg.UploadsDir, cfg.CleanupDelay, logger)
	if err != nil {
		return err
	}
	if n, err := store.Sweep("Bill_*.pdf", cfg.CleanupDelay); err != nil {
		logger.Warn("artifact sweep failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("removed stale bills", zap.Int("count", n))
	}

	svc := billing.New(billing.Options{
		Profile:           prof,
		Brand:             brand,
		Recorder:          rec,
		Archiver:          arc,
		Metrics:           m,
		Logger:            logger,
		SideEffectTimeout: cfg.RecordTimeout,
	})

	srv := server.New(server.Options{
		Generator:  svc,
		Store:      store,
		ExportPath: cfg.ExportPath,
		Metrics:    m,
		Gatherer:   reg,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("billing server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	svc.Close()
	store.Close()
	return nil
}

func renderFile(c *cli.Context) error {
	cfg := config.FromContext(c)

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	prof, brand, err := loadLetterhead(cfg, logger)
	if err != nil {
		return err
	}

	in := c.String("in")
	var body []byte
	if in == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(in)
	}
	if err != nil {
		return fmt.Errorf("read order: %w", err)
	}

	svc := billing.New(billing.Options{Profile: prof, Brand: brand, Logger: logger})
	defer svc.Close()

	bill, err := svc.Generate(logging.WithLogger(c.Context, logger), body)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = bill.Filename
	}
	if err := os.WriteFile(out, bill.PDF, 0o644); err != nil {
		return fmt.Errorf("write bill: %w", err)
	}
	logger.Info("bill written", zap.String("path", out))
	return nil
}

// loadLetterhead reads the company profile and the brand logo. A missing or
// unreadable logo falls back to the text mark.
func loadLetterhead(cfg config.Config, logger *zap.Logger) (profile.Profile, *layout.Image, error) {
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	if cfg.LogoPath == "" {
		return prof, nil, nil
	}
	brand, err := render.LoadBrand(cfg.LogoPath)
	if err != nil {
		logger.Warn("brand logo unavailable, using text mark", zap.String("path", cfg.LogoPath), zap.Error(err))
		return prof, nil, nil
	}
	return prof, brand, nil
}

func buildRecorder(ctx context.Context, cfg config.Config, logger *zap.Logger) (recorder.Recorder, func(), error) {
	var (
		sinks   recorder.Multi
		closers []io.Closer
	)

	if cfg.SheetDBURL != "" {
		sinks = append(sinks, recorder.NewSheetDB(cfg.SheetDBURL, &http.Client{Timeout: cfg.RecordTimeout}))
	} else {
		logger.Info("SHEETDB_URL not set, sheet logging disabled")
	}

	if cfg.DatabaseURL != "" {
		pg, err := recorder.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		sinks = append(sinks, pg)
		closers = append(closers, pg)
	}

	if brokers := recorder.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		k := recorder.NewKafka(brokers, cfg.KafkaTopic)
		sinks = append(sinks, k)
		closers = append(closers, k)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("recorder close", zap.Error(err))
			}
		}
	}
	if len(sinks) == 0 {
		return recorder.Nop{}, closeAll, nil
	}
	return sinks, closeAll, nil
}

func buildArchiver(cfg config.Config, logger *zap.Logger) (archive.Archiver, error) {
	if cfg.S3Bucket == "" {
		return archive.Nop{}, nil
	}
	s3, err := archive.NewS3(cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		return nil, err
	}
	logger.Info("archiving bills to s3", zap.String("bucket", cfg.S3Bucket), zap.String("prefix", cfg.S3Prefix))
	return s3, nil
}
