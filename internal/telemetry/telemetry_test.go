package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeeob/internal/model"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"none":               nil,
		"empty_file":         &model.EmptyFileError{},
		"parse":              fmt.Errorf("load: %w", &model.ParseError{Err: errors.New("bad zip")}),
		"missing_column":     &model.MissingColumnError{Columns: []string{"Depot"}},
		"unknown_depot":      &model.UnknownDepotError{Codes: []string{"X"}},
		"unsupported_format": &model.UnsupportedFormatError{Format: "pdf"},
		"fatal_config":       &model.FatalConfigError{Reason: "x"},
		"internal":           errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, ErrorKind(err))
	}
}

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveUpload(true, 42)
	m.ObserveUpload(false, 0)
	m.ObserveExport("delivery_metrics", "csv")
	m.ObserveExport("delivery_metrics", "csv")
	m.ObservePipeline("trailer_weights", time.Now(), &model.MissingColumnError{Columns: []string{"Route ID"}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("error")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.rows))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.exports.WithLabelValues("delivery_metrics", "csv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("trailer_weights", "missing_column")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "routeeob_uploads_total"))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveUpload(true, 1)
	m.ObserveExport("x", "csv")
	m.ObservePipeline("x", time.Now(), nil)
}
