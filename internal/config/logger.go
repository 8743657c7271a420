package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

func GetLogger() *logrus.Logger {
	return logg
}

// LogError records a failure with enough context to trace best-effort side
// effects that do not surface to the API caller.
func LogError(logger *logrus.Logger, module, funcName, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   module,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
