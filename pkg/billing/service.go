// pkg/billing/service.go

// Package billing runs the bill pipeline: normalize the request, compute
// totals, word the amount, lay out the page and render it. Recording and
// archiving happen on the side and never fail a bill.
package billing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/billing-microservice/pkg/archive"
	"github.com/billing-microservice/pkg/invoice"
	"github.com/billing-microservice/pkg/layout"
	"github.com/billing-microservice/pkg/logging"
	"github.com/billing-microservice/pkg/metrics"
	"github.com/billing-microservice/pkg/profile"
	"github.com/billing-microservice/pkg/recorder"
	"github.com/billing-microservice/pkg/render"
	"github.com/billing-microservice/pkg/words"
)

// Options configures a Service. Zero values pick working defaults.
type Options struct {
	Profile  profile.Profile
	Measurer layout.Measurer
	// Brand is the logo drawn in the header; nil uses the text mark.
	Brand    *layout.Image
	Recorder recorder.Recorder
	Archiver archive.Archiver
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
	// SideEffectTimeout bounds each recorder and archive call.
	SideEffectTimeout time.Duration
}

// Bill is one rendered document with the figures printed on it.
type Bill struct {
	Order    invoice.Order
	Totals   invoice.Totals
	Words    string
	Filename string
	PDF      []byte
}

// Service generates bills. Renders share no mutable state, so one Service
// serves concurrent requests.
type Service struct {
	engine   *layout.Engine
	renderer *render.Renderer
	recorder recorder.Recorder
	archiver archive.Archiver
	brand    *layout.Image
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
	timeout  time.Duration

	wg sync.WaitGroup
}

// New builds a Service.
func New(opts Options) *Service {
	if opts.Profile.CompanyName == "" && len(opts.Profile.Terms) == 0 {
		opts.Profile = profile.Default()
	}
	if opts.Measurer == nil {
		opts.Measurer = render.NewMeasurer()
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.Nop{}
	}
	if opts.Archiver == nil {
		opts.Archiver = archive.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = 10 * time.Second
	}
	return &Service{
		engine:   layout.NewEngine(opts.Measurer, opts.Profile),
		renderer: render.NewRenderer(),
		recorder: opts.Recorder,
		archiver: opts.Archiver,
		brand:    opts.Brand,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		timeout:  opts.SideEffectTimeout,
	}
}

// Generate normalizes a raw request body and renders its bill.
func (s *Service) Generate(ctx context.Context, body []byte) (*Bill, error) {
	order, err := invoice.Normalize(body, s.now())
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, order)
}

// Render computes the totals for order and renders its bill. The order is
// sent to the recorder before rendering starts; a render fault returns an
// error and no document.
func (s *Service) Render(ctx context.Context, order invoice.Order) (*Bill, error) {
	log := logging.FromContextOr(ctx, s.logger).With(zap.String("invoice_id", order.InvoiceID))

	totals := invoice.ComputeTotals(order)
	s.record(log, recorder.NewEntry(order, totals))

	worded := words.Amount(totals.WholeFinalAmount())
	doc := s.engine.Compose(layout.Input{
		Order:       order,
		Totals:      totals,
		AmountWords: worded,
		Brand:       s.brand,
	})

	pdf, err := s.renderer.Bytes(doc)
	s.countRender(err)
	if err != nil {
		log.Error("bill render failed", zap.Error(err))
		return nil, err
	}

	name := Filename(order.InvoiceID, s.now())
	s.archive(log, name, pdf)

	log.Info("bill rendered",
		zap.String("filename", name),
		zap.Int("items", len(order.LineItems)),
		zap.String("final_amount", totals.FinalAmount.String()),
		zap.Int("bytes", len(pdf)))

	return &Bill{Order: order, Totals: totals, Words: worded, Filename: name, PDF: pdf}, nil
}

// Close waits for in-flight recorder and archive calls.
func (s *Service) Close() {
	s.wg.Wait()
}

func (s *Service) record(log *zap.Logger, e recorder.Entry) {
	s.detach(log, "recorder", func(ctx context.Context) error {
		return s.recorder.Record(ctx, e)
	})
}

func (s *Service) archive(log *zap.Logger, name string, pdf []byte) {
	s.detach(log, "archive", func(ctx context.Context) error {
		return s.archiver.Archive(ctx, name, pdf)
	})
}

// detach runs fn in the background with its own timeout. Failures are
// logged and counted only.
func (s *Service) detach(log *zap.Logger, target string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		err := fn(ctx)
		if s.metrics != nil {
			s.metrics.SideEffects.WithLabelValues(target, metrics.Outcome(err)).Inc()
		}
		if err != nil {
			log.Warn("side effect failed", zap.String("target", target), zap.Error(err))
		}
	}()
}

func (s *Service) countRender(err error) {
	if s.metrics != nil {
		s.metrics.Renders.WithLabelValues(metrics.Outcome(err)).Inc()
	}
}
