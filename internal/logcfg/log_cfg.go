// Package logcfg configures the global logrus logger used across the bot.
package logcfg

import (
	"fmt"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path"
	"runtime"
)

const defaultLogFileName = "marketingBot.log"

// RunLoggerConfig sets the logrus level, the caller-aware text format and
// duplicates the output into a rotated log file.
// Arguments:
//   - envLogs: log level name (debug, info, warn, error).
//   - logFileName: rotated log file path, defaults to marketingBot.log.
//
// Returns an error if the level can not be parsed.
func RunLoggerConfig(envLogs, logFileName string) error {
	logLevel, err := logrus.ParseLevel(envLogs)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", envLogs, err)
	}
	logrus.SetLevel(logLevel)
	logrus.SetReportCaller(true)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		CallerPrettyfier: callerPrettyfier,
	})

	if logFileName == "" {
		logFileName = defaultLogFileName
	}
	// Пишем логи одновременно в stdout и в файл с ротацией
	mw := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     30,
	})
	logrus.SetOutput(mw)
	return nil
}

// callerPrettyfier shortens the caller to file.line.function.
func callerPrettyfier(f *runtime.Frame) (function string, file string) {
	_, filename := path.Split(f.File)
	filename = fmt.Sprintf("%s.%d.%s", filename, f.Line, path.Base(f.Function))
	return "", filename
}
