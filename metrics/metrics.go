package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the appointment and sales flows.
type Metrics struct {
	appointmentsCreated *prometheus.CounterVec
	salesRecorded       *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	malformedTimes      prometheus.Counter
	httpLatency         *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments booked",
		}, []string{"services"}),
		salesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "sales",
			Name:      "recorded_total",
			Help:      "Total sales recorded by payment method",
		}, []string{"payment_method"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Total appointment status changes by target status",
		}, []string{"to"}),
		malformedTimes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "calendar",
			Name:      "malformed_start_times_total",
			Help:      "Appointments skipped by the calendar because their start time could not be read",
		}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsCreated, m.salesRecorded, m.statusTransitions, m.malformedTimes, m.httpLatency)
	return m
}

// ObserveCreated counts a booking; services is the size of its selection.
func (m *Metrics) ObserveCreated(services int) {
	if m == nil {
		return
	}
	label := "multi"
	if services == 1 {
		label = "single"
	}
	m.appointmentsCreated.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveSale(paymentMethod string) {
	if m == nil {
		return
	}
	m.salesRecorded.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// ObserveMalformed matches the calendar resolver's malformed hook signature.
func (m *Metrics) ObserveMalformed(_ string) {
	if m == nil {
		return
	}
	m.malformedTimes.Inc()
}

func (m *Metrics) ObserveRequest(route, method string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(route, method).Observe(seconds)
}
