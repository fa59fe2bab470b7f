package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New инициализирует логгер. В release режиме пишет JSON с уровнем info,
// в остальных окружениях - текст с уровнем debug.
func New(output io.Writer, release bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)

	if release {
		l.SetFormatter(new(logrus.JSONFormatter))
		l.SetLevel(logrus.InfoLevel)
		return l
	}

	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.DebugLevel)
	return l
}
