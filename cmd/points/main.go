package main

import (
	"context"
	"errors"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-points/internal/app"
	"github.com/fsdevblog/groph-points/internal/config"
	"github.com/fsdevblog/groph-points/internal/logger"
)

func main() {
	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout, gin.Mode() == gin.ReleaseMode)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		l.WithError(err).Fatal("app stopped")
	}
}
