package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-points/internal/metrics"
	"github.com/fsdevblog/groph-points/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	PointRoute     = "/point/:id"
	HistoriesRoute = "/point/:id/histories"
	ChargeRoute    = "/point/:id/charge"
	UseRoute       = "/point/:id/use"
	HealthRoute    = "/health"
	MetricsRoute   = "/metrics"
)

type RouterArgs struct {
	Logger       *logrus.Logger
	PointService PointServicer
	Metrics      *metrics.Metrics
	// MetricsHandler отдает метрики в формате prometheus. Если nil, роут не регистрируется.
	MetricsHandler http.Handler
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(args.Metrics.Middleware())
	r.Use(middlewares.Errors())

	pointHandler := NewPointHandler(args.PointService)

	r.GET(PointRoute, pointHandler.Get)
	r.GET(HistoriesRoute, pointHandler.Histories)
	r.PATCH(ChargeRoute, pointHandler.Charge)
	r.PATCH(UseRoute, pointHandler.Use)

	r.GET(HealthRoute, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if args.MetricsHandler != nil {
		r.GET(MetricsRoute, gin.WrapH(args.MetricsHandler))
	}
	return r
}
