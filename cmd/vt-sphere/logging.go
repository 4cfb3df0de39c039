package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "vt-sphere.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the standard logger to logs/vt-sphere.log when debug is
// set and discards it otherwise. The terminal is never a log target: any
// stray line would land in the middle of a frame
// Returns the open file for the caller to close, nil when disabled
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	rotateLog(logPath)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("==== vt-sphere started, pid %d ====", os.Getpid())
	return f
}

// rotateLog moves an oversized log aside under a timestamped name
func rotateLog(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	base := strings.TrimSuffix(logFileName, filepath.Ext(logFileName))
	rotated := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", base, time.Now().Format("20060102-150405")))
	if err := os.Rename(logPath, rotated); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rotate log file: %v\n", err)
	}
}

// closeLog detaches the standard logger before closing f so late writes are
// discarded instead of failing on a closed file
func closeLog(f *os.File) {
	log.Printf("==== vt-sphere exiting ====")
	log.SetOutput(io.Discard)
	f.Close()
}
