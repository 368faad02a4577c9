package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/stretchr/testify/assert"
)

func TestTracer_MiddlewareOpensSegment(t *testing.T) {
	tracer := NewTracer("cosmic")
	assert.Equal(t, "cosmic", tracer.ServiceName())

	var segmentName string
	handler := tracer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seg := xray.GetSegment(r.Context()); seg != nil {
			segmentName = seg.Name
		}
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "cosmic", segmentName)
}
