package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log общий логгер приложения. До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Init настраивает логгер под окружение: в development текстовый формат и debug,
// в остальных окружениях JSON и info.
func Init(env string) {
	Log = logrus.New()

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}

	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Discard глушит вывод логгера. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}

// WithComponent возвращает entry с полем component.
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
