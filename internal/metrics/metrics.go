// Package metrics prometheus метрики сервиса баллов. Все методы безопасны для nil *Metrics,
// тогда метрики просто не собираются.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fsdevblog/groph-points/internal/domain"
)

const namespace = "points"

const (
	ResultOK                  = "ok"
	ResultInvalidAmount       = "invalid_amount"
	ResultChargeLimitExceeded = "charge_limit_exceeded"
	ResultBalanceCapExceeded  = "balance_cap_exceeded"
	ResultInsufficientBalance = "insufficient_balance"
	ResultLockTimeout         = "lock_timeout"
	ResultError               = "error"
)

type Metrics struct {
	operations      *prometheus.CounterVec
	lockWait        prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.SummaryVec
	reg             prometheus.Registerer
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of point operations by result",
			},
			[]string{"operation", "result"},
		),
		lockWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting for the per-user lock",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// ObserveOperation учитывает завершенную операцию operation с результатом err.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, ResultLabel(err)).Inc()
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}

// TrackActiveLocks регистрирует gauge, значение которого берется из fn в момент сбора.
func (m *Metrics) TrackActiveLocks(fn func() float64) error {
	if m == nil {
		return nil
	}
	return m.reg.Register(prometheus.NewGaugeFunc( //nolint:wrapcheck
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_locks",
			Help:      "Number of users currently holding or waiting for a lock",
		},
		fn,
	))
}

// Middleware gin middleware, считающий запросы и их длительность.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		m.requestDuration.WithLabelValues(c.Request.Method, path, statusCode).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(c.Request.Method, path, statusCode).Inc()
	}
}

func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInvalidAmount):
		return ResultInvalidAmount
	case errors.Is(err, domain.ErrChargeLimitExceeded):
		return ResultChargeLimitExceeded
	case errors.Is(err, domain.ErrBalanceCapExceeded):
		return ResultBalanceCapExceeded
	case errors.Is(err, domain.ErrInsufficientBalance):
		return ResultInsufficientBalance
	case errors.Is(err, domain.ErrLockTimeout):
		return ResultLockTimeout
	default:
		return ResultError
	}
}
