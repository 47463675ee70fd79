package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with the property-map API used across the project.
type Logger struct {
	entry *logrus.Logger
	mu    sync.Mutex
	debug bool
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns a singleton logger instance
func GetLogger() *Logger {
	once.Do(func() {
		instance = setupLogger()
	})
	return instance
}

// L is a shorthand for GetLogger
func L() *Logger {
	return GetLogger()
}

func setupLogger() *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	l.SetLevel(logrus.InfoLevel)

	// Log to logs/application.log and stderr. If the file cannot be
	// opened, stderr alone is used.
	dir, _ := os.Getwd()
	logDir := filepath.Join(dir, "logs")
	os.MkdirAll(logDir, 0755)

	logFile := filepath.Join(logDir, "application.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		l.SetOutput(os.Stderr)
	} else {
		l.SetOutput(io.MultiWriter(file, os.Stderr))
	}

	return &Logger{entry: l}
}

func (l *Logger) fields(props []map[string]interface{}) logrus.Fields {
	if len(props) == 0 || props[0] == nil {
		return nil
	}
	return logrus.Fields(props[0])
}

func (l *Logger) Info(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Info(msg)
}

func (l *Logger) Error(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Error(msg)
}

func (l *Logger) Debug(msg string, props ...map[string]interface{}) {
	if !l.debug {
		return
	}
	l.entry.WithFields(l.fields(props)).Debug(msg)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Fatal(msg)
}

// EnableDebug enables debug logging
func (l *Logger) EnableDebug() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = true
	l.entry.SetLevel(logrus.DebugLevel)
}

// DisableDebug disables debug logging
func (l *Logger) DisableDebug() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = false
	l.entry.SetLevel(logrus.InfoLevel)
}
