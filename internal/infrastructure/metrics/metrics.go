// Package metrics expone métricas Prometheus del motor de agregación y de la conciliación.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

const namespace = "acopio"

// Metrics implementa inventory.Recorder y settlement.Recorder.
type Metrics struct {
	aggregations     *prometheus.CounterVec
	aggregationSize  *prometheus.HistogramVec
	aggregationTime  *prometheus.HistogramVec
	settlements      *prometheus.CounterVec
	discrepancyKg    *prometheus.HistogramVec
	settlementErrors prometheus.Counter
}

// New registra los colectores en reg. Usar prometheus.NewRegistry() en tests para no chocar
// con el registro global.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Agregaciones de inventario ejecutadas por operación.",
		}, []string{"operation"}),
		aggregationSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_buckets",
			Help:      "Cantidad de buckets devueltos por agregación.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"operation"}),
		aggregationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Duración de la agregación (sin contar la carga de snapshots).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_reconciled_total",
			Help:      "Liquidaciones diarias calculadas, por resultado (computed, cached).",
		}, []string{"result"}),
		discrepancyKg: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_discrepancy_kg",
			Help:      "Valor absoluto de la discrepancia en kg por dirección.",
			Buckets:   []float64{0, 1, 5, 20, 50, 100, 500, 1000, 5000},
		}, []string{"direction"}),
		settlementErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_errors_total",
			Help:      "Conciliaciones rechazadas por validación o fallas de carga.",
		}),
	}
	reg.MustRegister(m.aggregations, m.aggregationSize, m.aggregationTime,
		m.settlements, m.discrepancyKg, m.settlementErrors)
	return m
}

// NewRegistry registro con los colectores de proceso y runtime de Go más los del servicio.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, New(reg)
}

// ObserveAggregation registra una agregación.
func (m *Metrics) ObserveAggregation(operation string, buckets int, elapsed time.Duration) {
	m.aggregations.WithLabelValues(operation).Inc()
	m.aggregationSize.WithLabelValues(operation).Observe(float64(buckets))
	m.aggregationTime.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveSettlement registra una liquidación. cached indica que se devolvió el registro vigente.
func (m *Metrics) ObserveSettlement(s *entity.DailySettlement, cached bool) {
	result := "computed"
	if cached {
		result = "cached"
	}
	m.settlements.WithLabelValues(result).Inc()
	in, _ := s.DiscrepancyInKg.Abs().Float64()
	out, _ := s.DiscrepancyOutKg.Abs().Float64()
	m.discrepancyKg.WithLabelValues("in").Observe(in)
	m.discrepancyKg.WithLabelValues("out").Observe(out)
}

// ObserveSettlementError cuenta una conciliación fallida.
func (m *Metrics) ObserveSettlementError() {
	m.settlementErrors.Inc()
}
