package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector()

	m.IncOrdersCreated()
	m.IncOrdersCreated()
	m.IncCouponsApplied()
	m.RecordCacheOperation("product", true)
	m.RecordCacheOperation("product", false)
	m.RecordNotification("email", false)
	m.RecordHTTPRequest("GET", "/api/products", "200", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.couponsAppliedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("product")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("email", "failed")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "orders_created_total 2"))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var m *MetricsCollector
	assert.NotPanics(t, func() {
		m.IncOrdersCreated()
		m.RecordCacheOperation("product", true)
		m.RecordNotification("log", true)
	})
}

func TestRegisterDBPool(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	m := NewMetricsCollector()
	assert.NoError(t, m.RegisterDBPool("shop", db))
	assert.Error(t, m.RegisterDBPool("shop", db))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `go_sql_open_connections{db_name="shop"}`)
}
