package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(searches.WithLabelValues(OutcomeDateOrder))
	ObserveSearch(OutcomeDateOrder)
	assert.Equal(t, before+1, testutil.ToFloat64(searches.WithLabelValues(OutcomeDateOrder)))
}

func TestObserveAPIRequest(t *testing.T) {
	ObserveAPIRequest("employees", 200, time.Now())
	ObserveAPIRequest("employees", 0, time.Now())
	assert.Equal(t, 2, testutil.CollectAndCount(apiDuration, "debt_history_api_request_duration_seconds"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "error", statusClass(0))
}
