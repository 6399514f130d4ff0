// pkg/server/server.go

// Package server exposes the bill pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/billing-microservice/pkg/artifact"
	"github.com/billing-microservice/pkg/billing"
	"github.com/billing-microservice/pkg/invoice"
	"github.com/billing-microservice/pkg/logging"
	"github.com/billing-microservice/pkg/metrics"
)

// MaxBodyBytes caps the order payload.
const MaxBodyBytes = 2 << 20

// Generator turns a raw order payload into a rendered bill.
type Generator interface {
	Generate(ctx context.Context, body []byte) (*billing.Bill, error)
}

// Options configures a Server.
type Options struct {
	Generator  Generator
	Store      *artifact.Store
	ExportPath string
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	gen        Generator
	store      *artifact.Store
	exportPath string
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
}

// New builds a Server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		gen:        opts.Generator,
		store:      opts.Store,
		exportPath: opts.ExportPath,
		metrics:    opts.Metrics,
		gatherer:   opts.Gatherer,
		logger:     opts.Logger,
	}
}

// Handler returns the routed handler wrapped in CORS.
func (s *Server) Handler() http.Handler {
	return cors(s.Router())
}

// Router registers every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logging.Middleware(s.logger), s.instrument)

	r.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	r.HandleFunc("/generate-bill", s.generateBillHandler).Methods(http.MethodPost)
	r.HandleFunc("/download-invoices", s.downloadInvoicesHandler).Methods(http.MethodGet)
	if s.store != nil {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.store.Dir())))).Methods(http.MethodGet)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.gatherer)).Methods(http.MethodGet)
	}
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// indexHandler godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       / [get]
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "Billing Server Running"})
}

// generateBillHandler godoc
// @Summary      Generate a bill
// @Description  Accepts an order in the nested or legacy shape and returns the rendered PDF as an attachment.
// @Tags         bills
// @Accept       json
// @Produce      application/pdf
// @Param        order  body      object  true  "order payload"
// @Success      200    {file}    binary
// @Failure      400    {object}  errorResponse
// @Failure      413    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /generate-bill [post]
func (s *Server) generateBillHandler(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	bill, err := s.gen.Generate(r.Context(), body)
	switch {
	case errors.Is(err, invoice.ErrMalformedPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object"})
		return
	case err != nil:
		log.Error("bill generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate bill"})
		return
	}

	var path string
	if s.store != nil {
		if path, err = s.store.Put(bill.Filename, bill.PDF); err != nil {
			// the bill is still delivered from memory
			log.Warn("bill not materialized", zap.String("filename", bill.Filename), zap.Error(err))
		}
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bill.Filename))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(bill.PDF)))
	if _, err := w.Write(bill.PDF); err != nil {
		log.Warn("bill delivery interrupted", zap.String("filename", bill.Filename), zap.Error(err))
	}

	if path != "" {
		s.store.Release(path)
	}
}

// downloadInvoicesHandler godoc
// @Summary      Download the invoice export
// @Tags         bills
// @Produce      application/octet-stream
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /download-invoices [get]
func (s *Server) downloadInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(s.exportPath)
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "No invoices file found yet."})
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(s.exportPath)))
	http.ServeFile(w, r, s.exportPath)
}

// instrument counts requests per route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name = tpl
			}
		}
		rec, ok := w.(*logging.StatusRecorder)
		if !ok {
			rec = &logging.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		}

		start := time.Now()
		next.ServeHTTP(rec, r)
		s.metrics.ObserveRequest(name, rec.Status, time.Since(start))
	})
}

// cors allows any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+logging.RequestIDHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+logging.RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
