package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-points/internal/metrics"
	"github.com/fsdevblog/groph-points/pkg/keylock"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

type AppServices struct {
	PointService *PointService
}

type FactoryArgs struct {
	UOW         uow.UOW
	Locker      keylock.Locker[int64]
	Logger      *logrus.Logger
	Metrics     *metrics.Metrics
	Limits      Limits
	LockTimeout time.Duration
	StrictReads bool
}

func Factory(args FactoryArgs) (*AppServices, error) {
	pointService, pointServiceErr := NewPointService(args.UOW, args.Locker, args.Logger)
	if pointServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", pointServiceErr.Error())
	}

	pointService.
		SetLimits(args.Limits).
		SetLockTimeout(args.LockTimeout).
		SetStrictReads(args.StrictReads).
		SetMetrics(args.Metrics)

	return &AppServices{
		PointService: pointService,
	}, nil
}
