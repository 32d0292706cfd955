package resolver

import "github.com/sirupsen/logrus"

// log is the resolver's default logger. It backs the Query/Debug/Info/Warn
// function variables in config.go so the rest of the package never imports
// logrus directly.
var log = logrus.New()

func init() {
	Debug = func(s string) { log.Debug(s) }
	Info = func(s string) { log.Info(s) }
	Warn = func(s string) { log.Warn(s) }
	Query = func(s string) { log.WithField("component", "query").Trace(s) }
}

// SetLogLevel configures the verbosity of the resolver's default logger.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetLogFormatter lets the embedding application swap the default text
// formatter for, e.g., logrus.JSONFormatter in production.
func SetLogFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}
