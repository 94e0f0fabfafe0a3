package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Logger writes generation and execution activity to a timestamped log file.
type Logger struct {
	*log.Logger
	file *os.File
}

// bearer tokens and api-key style values must never reach the log file
var secretPattern = regexp.MustCompile(`(?i)(bearer\s+|api[_-]?key["':\s=]+)\S+`)

// NewLogger creates a new logger instance writing under logDir.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("generation_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{
		Logger: log.New(file, "", log.LstdFlags),
		file:   file,
	}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogGeneration logs one model interaction with credentials scrubbed.
func (l *Logger) LogGeneration(operation string, prompt, response string, err error) {
	l.Printf("Operation: %s\n", operation)
	l.Printf("Prompt: %s\n", Redact(prompt))
	if err != nil {
		l.Printf("Error: %v\n", err)
	} else {
		l.Printf("Response: %s\n", Redact(response))
	}
	l.Println("---")
}

// LogRun logs a one-line note about an executed test case.
func (l *Logger) LogRun(id string, status string, detail string) {
	l.Printf("Run %s: %s %s\n", id, status, Redact(detail))
}

// Redact replaces credential-shaped substrings with a placeholder.
func Redact(s string) string {
	return secretPattern.ReplaceAllString(s, "$1[REDACTED]")
}
