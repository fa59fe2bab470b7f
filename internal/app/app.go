package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fsdevblog/groph-points/internal/config"
	"github.com/fsdevblog/groph-points/internal/metrics"
	"github.com/fsdevblog/groph-points/internal/repository/memrepo"
	"github.com/fsdevblog/groph-points/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-points/internal/service"
	"github.com/fsdevblog/groph-points/internal/transport/api"
	"github.com/fsdevblog/groph-points/pkg/keylock"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %+v", a.safeConfig())

	unitOfWork, closeStorage, storageErr := a.initStorage(notifyCtx)
	if storageErr != nil {
		return fmt.Errorf("app run: %s", storageErr.Error())
	}
	defer closeStorage()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	locker, lockerErr := a.initLocker(m)
	if lockerErr != nil {
		return fmt.Errorf("app run: %s", lockerErr.Error())
	}

	services, sErr := service.Factory(service.FactoryArgs{
		UOW:     unitOfWork,
		Locker:  locker,
		Logger:  a.Logger,
		Metrics: m,
		Limits: service.Limits{
			MaxChargePerOp: a.Config.MaxChargePerOp,
			MaxBalance:     a.Config.MaxBalance,
		},
		LockTimeout: a.Config.LockTimeout,
		StrictReads: a.Config.StrictReads,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:         a.Logger,
		PointService:   services.PointService,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

// initStorage поднимает выбранное хранилище. Возвращаемая функция освобождает его ресурсы.
func (a *App) initStorage(ctx context.Context) (uow.UOW, func(), error) {
	switch a.Config.Storage {
	case config.StoragePostgres:
		conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
		if connErr != nil {
			return nil, nil, connErr //nolint:wrapcheck
		}
		unitOfWork, uowErr := pgrepo.NewUnitOfWork(conn)
		if uowErr != nil {
			conn.Close()
			return nil, nil, uowErr //nolint:wrapcheck
		}
		return unitOfWork, conn.Close, nil
	case config.StorageMemory:
		unitOfWork, uowErr := memrepo.NewUnitOfWork(memrepo.NewStore())
		if uowErr != nil {
			return nil, nil, uowErr //nolint:wrapcheck
		}
		return unitOfWork, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, a.Config.Storage)
	}
}

func (a *App) initLocker(m *metrics.Metrics) (keylock.Locker[int64], error) {
	switch a.Config.LockMode {
	case config.LockModeStriped:
		return keylock.NewStriped[int64](a.Config.LockStripes), nil
	case config.LockModeKeyed:
		locker := keylock.NewKeyedMutex[int64]()
		if err := m.TrackActiveLocks(func() float64 { return float64(locker.Len()) }); err != nil {
			return nil, fmt.Errorf("register lock metrics: %w", err)
		}
		return locker, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownLockMode, a.Config.LockMode)
	}
}

// safeConfig копия конфига без DSN для логов.
func (a *App) safeConfig() config.Config {
	conf := *a.Config
	if conf.DatabaseDSN != "" {
		conf.DatabaseDSN = "***"
	}
	return conf
}
