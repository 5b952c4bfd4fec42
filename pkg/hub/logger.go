package hub

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides structured logging capabilities
// This abstraction allows swapping logging implementations
type Logger interface {
	// Error logs an error message
	Error(args ...interface{})

	// Info logs an informational message
	Info(args ...interface{})

	// Debug logs a debug message
	Debug(args ...interface{})

	// WithFields returns a new logger with structured fields
	WithFields(fields map[string]interface{}) Logger
}

// LoggerConfig configures logger behavior
type LoggerConfig struct {
	// JSONOutput enables JSON structured output
	JSONOutput bool
	// Level sets the minimum log level (DEBUG, INFO, ERROR)
	Level string
}

type defaultLogger struct {
	errorLogger *log.Logger
	infoLogger  *log.Logger
	debugLogger *log.Logger
	config      LoggerConfig
	fields      map[string]interface{}
}

// NewDefaultLogger creates a logger that writes plain text at INFO and above.
func NewDefaultLogger() Logger {
	return NewLogger(LoggerConfig{Level: "INFO"})
}

// NewLogger creates a new logger with configuration
func NewLogger(config LoggerConfig) Logger {
	if config.Level == "" {
		config.Level = "INFO"
	}
	return &defaultLogger{
		errorLogger: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
		infoLogger:  log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		debugLogger: log.New(os.Stdout, "[DEBUG] ", log.LstdFlags),
		config:      config,
		fields:      make(map[string]interface{}),
	}
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *defaultLogger) log(level string, logger *log.Logger, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	message := fmt.Sprint(args...)

	if l.config.JSONOutput {
		entry := logEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     level,
			Message:   message,
		}
		if len(l.fields) > 0 {
			entry.Fields = l.fields
		}
		if data, err := json.Marshal(entry); err == nil {
			logger.Print(string(data))
			return
		}
	}

	if len(l.fields) > 0 {
		message = fmt.Sprintf("%s %v", message, l.fields)
	}
	logger.Print(message)
}

func (l *defaultLogger) shouldLog(level string) bool {
	rank := map[string]int{"DEBUG": 0, "INFO": 1, "ERROR": 2}
	min, ok := rank[l.config.Level]
	if !ok {
		min = 1
	}
	return rank[level] >= min
}

func (l *defaultLogger) Error(args ...interface{}) {
	l.log("ERROR", l.errorLogger, args...)
}

func (l *defaultLogger) Info(args ...interface{}) {
	l.log("INFO", l.infoLogger, args...)
}

func (l *defaultLogger) Debug(args ...interface{}) {
	l.log("DEBUG", l.debugLogger, args...)
}

func (l *defaultLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &defaultLogger{
		errorLogger: l.errorLogger,
		infoLogger:  l.infoLogger,
		debugLogger: l.debugLogger,
		config:      l.config,
		fields:      merged,
	}
}
