package observability

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer provides distributed tracing capabilities
type Tracer struct {
	serviceName string
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string) *Tracer {
	return &Tracer{
		serviceName: serviceName,
	}
}

// ServiceName is the segment name every request is recorded under
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// Middleware opens an X-Ray segment named after the service for every
// request. Handlers reach the segment through xray.GetSegment(r.Context()).
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	return xray.Handler(xray.NewFixedSegmentNamer(t.serviceName), next)
}
