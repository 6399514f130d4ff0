// pkg/server/server_test.go

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billing-microservice/pkg/artifact"
	"github.com/billing-microservice/pkg/billing"
	"github.com/billing-microservice/pkg/invoice"
	"github.com/billing-microservice/pkg/metrics"
)

type stubGenerator struct {
	bill *billing.Bill
	err  error
	body []byte
}

func (g *stubGenerator) Generate(_ context.Context, body []byte) (*billing.Bill, error) {
	g.body = body
	return g.bill, g.err
}

func newStore(t *testing.T) *artifact.Store {
	t.Helper()
	store, err := artifact.NewStore(t.TempDir(), time.Hour, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestIndex(t *testing.T) {
	h := New(Options{}).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Billing Server Running", decode(t, rr)["status"])
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestGenerateBillServesAttachment(t *testing.T) {
	pdf := []byte("%PDF-1.3 fake")
	gen := &stubGenerator{bill: &billing.Bill{Filename: "Bill_IN-1_1.pdf", PDF: pdf}}
	store := newStore(t)
	h := New(Options{Generator: gen, Store: store}).Handler()

	body := `{"invoiceNo":"IN-1"}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Bill_IN-1_1.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, pdf, rr.Body.Bytes())
	assert.Equal(t, body, string(gen.body))

	// materialized until the cleanup delay elapses
	assert.FileExists(t, filepath.Join(store.Dir(), "Bill_IN-1_1.pdf"))
	assert.Equal(t, 1, store.Pending())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/Bill_IN-1_1.pdf", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, pdf, rr.Body.Bytes())
}

func TestGenerateBillErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"malformed", invoice.ErrMalformedPayload, http.StatusBadRequest, "request body must be a JSON object"},
		{"render fault", errors.New("boom"), http.StatusInternalServerError, "failed to generate bill"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Options{Generator: &stubGenerator{err: tt.err}}).Handler()

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(`[]`)))

			assert.Equal(t, tt.status, rr.Code)
			got := decode(t, rr)
			assert.Equal(t, false, got["success"])
			assert.Equal(t, tt.msg, got["error"])
			assert.NotContains(t, rr.Body.String(), "boom")
		})
	}
}

func TestGenerateBillBodyLimit(t *testing.T) {
	gen := &stubGenerator{}
	h := New(Options{Generator: gen}).Handler()

	big := bytes.Repeat([]byte("a"), MaxBodyBytes+1)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-bill", bytes.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Nil(t, gen.body)
}

func TestGenerateBillEndToEnd(t *testing.T) {
	svc := billing.New(billing.Options{})
	defer svc.Close()
	h := New(Options{Generator: svc, Store: newStore(t)}).Handler()

	body := `{"invoiceNo":"IN/1","customer":{"name":"Asha"},"products":[{"description":"Widget","quantity":2,"price":100}],"deliveryCharge":20,"discount":10,"advance":50}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="Bill_IN-1_`)
}

func TestDownloadInvoices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.xlsx")
	h := New(Options{ExportPath: path}).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download-invoices", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"No invoices file found yet."}`, rr.Body.String())

	require.NoError(t, os.WriteFile(path, []byte("sheet"), 0o644))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download-invoices", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sheet", rr.Body.String())
	assert.Equal(t, `attachment; filename="invoices.xlsx"`, rr.Header().Get("Content-Disposition"))
}

func TestCORSPreflight(t *testing.T) {
	h := New(Options{}).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/generate-bill", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestMetricsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := New(Options{Metrics: m, Gatherer: reg, ExportPath: filepath.Join(t.TempDir(), "none")}).Handler()

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/download-invoices", nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/download-invoices", "404")))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "billing_http_requests_total")
}
