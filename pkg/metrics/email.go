package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EmailJobMetrics records outcomes for notification email deliveries.
type EmailJobMetrics struct {
	sent    *prometheus.CounterVec
	failure *prometheus.CounterVec
}

// NewEmailJobMetrics registers the email metrics on the provided registerer.
func NewEmailJobMetrics(reg prometheus.Registerer) *EmailJobMetrics {
	if reg == nil {
		return &EmailJobMetrics{}
	}
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_email_sent",
		Help: "Notification emails delivered per template.",
	}, []string{"template"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_email_failure",
		Help: "Notification email deliveries that failed per template.",
	}, []string{"template"})
	reg.MustRegister(sent, failure)
	return &EmailJobMetrics{sent: sent, failure: failure}
}

// IncSent increments the delivered counter for the named template.
func (e *EmailJobMetrics) IncSent(template string) {
	if e == nil || e.sent == nil {
		return
	}
	e.sent.WithLabelValues(normalizeLabel(template)).Inc()
}

// IncFailure increments the failure counter for the named template.
func (e *EmailJobMetrics) IncFailure(template string) {
	if e == nil || e.failure == nil {
		return
	}
	e.failure.WithLabelValues(normalizeLabel(template)).Inc()
}
