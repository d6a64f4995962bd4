package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "sellboard"

var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// init 保证测试等非 main 入口也有可用的 logger
func init() {
	Init("info", false)
}

// Init configures the package logger. Production output is JSON.
func Init(level string, production bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log = logger.WithFields(logrus.Fields{"service": serviceName, "is_development": !production})
}
