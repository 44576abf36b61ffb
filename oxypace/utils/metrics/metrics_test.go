package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCreated(t *testing.T) {
	before := testutil.ToFloat64(contentCreated.WithLabelValues("post"))
	RecordCreated("post")
	RecordCreated("post")
	assert.Equal(t, before+2, testutil.ToFloat64(contentCreated.WithLabelValues("post")))
}

func TestHandlerExposesRealtimeGauge(t *testing.T) {
	SetClientCounter(func() int { return 3 })
	defer SetClientCounter(func() int { return 0 })

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rr.Code)
	assert.Contains(t, rr.Body.String(), "oxypace_realtime_clients 3")
}
