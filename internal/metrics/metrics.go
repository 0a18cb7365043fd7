package metrics

import (
	"sync"

	"aifinverse-backend/internal/database"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

// ServiceMetrics carries the service counters. Counters survive restarts:
// they are flushed to the metrics table periodically and on shutdown, and
// re-loaded at boot.
type ServiceMetrics struct {
	RegistrationsTotal      prometheus.Counter
	LoginsTotal             prometheus.Counter
	PremiumAutoGrantsTotal  prometheus.Counter
	AlertNotificationsTotal prometheus.Counter
	ContactMessagesTotal    prometheus.Counter
	StrategiesPerMarket     *prometheus.GaugeVec
	Mutex                   sync.Mutex
}

var (
	defaultMetrics *ServiceMetrics
	once           sync.Once
)

// Default returns the process-wide metrics set, registering it on first use.
func Default() *ServiceMetrics {
	once.Do(func() {
		defaultMetrics = newServiceMetrics()
	})
	return defaultMetrics
}

func newServiceMetrics() *ServiceMetrics {
	m := &ServiceMetrics{
		RegistrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aifinverse",
			Subsystem: "backend",
			Name:      "registrations_total",
			Help:      "The total number of completed account registrations",
		}),
		LoginsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aifinverse",
			Subsystem: "backend",
			Name:      "logins_total",
			Help:      "The total number of successful logins",
		}),
		PremiumAutoGrantsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aifinverse",
			Subsystem: "backend",
			Name:      "premium_autogrants_total",
			Help:      "The total number of premium plans granted automatically by the route guard",
		}),
		AlertNotificationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aifinverse",
			Subsystem: "backend",
			Name:      "alert_notifications_total",
			Help:      "The total number of alert feed notifications sent to telegram",
		}),
		ContactMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aifinverse",
			Subsystem: "backend",
			Name:      "contact_messages_total",
			Help:      "The total number of stored contact-us submissions",
		}),
		StrategiesPerMarket: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "aifinverse",
				Subsystem: "backend",
				Name:      "strategies_selected",
				Help:      "Currently selected strategies per market across updated profiles",
			},
			[]string{"market"},
		),
	}

	prometheus.MustRegister(m.RegistrationsTotal)
	prometheus.MustRegister(m.LoginsTotal)
	prometheus.MustRegister(m.PremiumAutoGrantsTotal)
	prometheus.MustRegister(m.AlertNotificationsTotal)
	prometheus.MustRegister(m.ContactMessagesTotal)
	prometheus.MustRegister(m.StrategiesPerMarket)

	return m
}

// LoadFromDB restores counter values persisted by a previous run.
func (m *ServiceMetrics) LoadFromDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	registrations, _ := database.GetMetric("registrations_total")
	logins, _ := database.GetMetric("logins_total")
	autogrants, _ := database.GetMetric("premium_autogrants_total")
	notifications, _ := database.GetMetric("alert_notifications_total")
	contacts, _ := database.GetMetric("contact_messages_total")

	m.RegistrationsTotal.Add(registrations)
	m.LoginsTotal.Add(logins)
	m.PremiumAutoGrantsTotal.Add(autogrants)
	m.AlertNotificationsTotal.Add(notifications)
	m.ContactMessagesTotal.Add(contacts)

	labeled, _ := database.GetMetricsWithLabels("strategies_selected")
	for _, values := range labeled {
		for market, value := range values {
			m.StrategiesPerMarket.WithLabelValues(market).Set(value)
		}
	}

	log.Println("Metrics loaded from database.")
}

// SaveToDB flushes the current counter values.
func (m *ServiceMetrics) SaveToDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	database.SaveMetric("registrations_total", "", "", counterValue(m.RegistrationsTotal))
	database.SaveMetric("logins_total", "", "", counterValue(m.LoginsTotal))
	database.SaveMetric("premium_autogrants_total", "", "", counterValue(m.PremiumAutoGrantsTotal))
	database.SaveMetric("alert_notifications_total", "", "", counterValue(m.AlertNotificationsTotal))
	database.SaveMetric("contact_messages_total", "", "", counterValue(m.ContactMessagesTotal))

	metricChan := make(chan prometheus.Metric, 8)
	go func() {
		m.StrategiesPerMarket.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Printf("Failed to read StrategiesPerMarket metric: %v", err)
			continue
		}
		var market string
		for _, label := range metricProto.Label {
			if label.GetName() == "market" {
				market = label.GetValue()
			}
		}
		database.SaveMetric("strategies_selected", "market", market, metricProto.Gauge.GetValue())
	}

	log.Println("Metrics saved to database.")
}

func counterValue(metric prometheus.Collector) float64 {
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		return metricProto.Counter.GetValue()
	}
	if metricProto.Gauge != nil {
		return metricProto.Gauge.GetValue()
	}
	return 0
}
