package logging

import (
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// Setup configures the global logrus logger.
func Setup(level, format string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stdout)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// GormLogger routes gorm's logging through logrus. SQL statements are only
// logged when logSQL is set; slow queries and errors always are.
func GormLogger(logSQL bool) logger.Interface {
	level := logger.Warn
	if logSQL {
		level = logger.Info
	}
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
