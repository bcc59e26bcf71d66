package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile is where GetLogger writes unless SetLogFile was called first.
const DefaultLogFile = ".choices/choices.log"

// Logger writes the process log.
type Logger struct {
	mu            sync.Mutex
	logger        *log.Logger
	closer        io.Closer
	jsonMode      bool
	verbose       bool
	correlationID string
}

var (
	globalLogger *Logger
	once         sync.Once
	logFilePath  = DefaultLogFile
)

// SetLogFile changes the file used by GetLogger. It has no effect once the
// logger has been created.
func SetLogFile(path string) {
	if path != "" {
		logFilePath = path
	}
}

// GetLogger returns the singleton instance of Logger.
// It initializes the logger with a file handler that rotates logs.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = newLogger(logFile, logFile)
	})
	if os.Getenv("CHOICES_JSON_LOGS") == "1" {
		globalLogger.SetJSON(true)
	}
	if cid := os.Getenv("CHOICES_CORRELATION_ID"); cid != "" {
		globalLogger.correlationID = cid
	}
	return globalLogger
}

// NewLoggerTo returns a logger writing to w, independent of the singleton.
func NewLoggerTo(w io.Writer) *Logger {
	var closer io.Closer
	if c, ok := w.(io.Closer); ok {
		closer = c
	}
	return newLogger(w, closer)
}

func newLogger(w io.Writer, closer io.Closer) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags), closer: closer}
}

// SetJSON switches between plain and JSON-lines output.
func (w *Logger) SetJSON(on bool) {
	w.mu.Lock()
	w.jsonMode = on
	w.mu.Unlock()
}

// SetVerbose enables Debug output.
func (w *Logger) SetVerbose(on bool) {
	w.mu.Lock()
	w.verbose = on
	w.mu.Unlock()
}

// SetCorrelationID tags every JSON record with cid.
func (w *Logger) SetCorrelationID(cid string) {
	w.mu.Lock()
	w.correlationID = cid
	w.mu.Unlock()
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	w.write("info", "msg", message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...any) {
	w.Log(fmt.Sprintf(format, v...))
}

// Debugf logs only when verbose output is enabled.
func (w *Logger) Debugf(format string, v ...any) {
	w.mu.Lock()
	verbose := w.verbose
	w.mu.Unlock()
	if verbose {
		w.write("debug", "msg", fmt.Sprintf(format, v...))
	}
}

func (w *Logger) LogError(err error) {
	w.write("error", "error", err.Error())
}

func (w *Logger) write(level, key, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": level, key: text, "cid": w.correlationID})
		return
	}
	switch level {
	case "error":
		w.logger.Printf("Error: %s", text)
	case "debug":
		w.logger.Printf("Debug: %s", text)
	default:
		w.logger.Print(text)
	}
}
