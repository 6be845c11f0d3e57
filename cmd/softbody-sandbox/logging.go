package main

import (
	"log/slog"
	"os"
	"path/filepath"

	xappdirs "github.com/chasinglogic/appdirs"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	appName       = "softbody-sandbox"
	logFileName   = "softbody-sandbox.log"
	maxLogSizeMB  = 10
	maxLogBackups = 3
)

// defaultLogPath places the log in the user's log directory, or the working directory if that cannot be created
func defaultLogPath() string {
	dir := xappdirs.New(appName).UserLog()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return logFileName
	}
	return filepath.Join(dir, logFileName)
}

// setupLogging routes slog to a rotating file; the terminal belongs to the screen
func setupLogging(path string, level slog.Level) *lumberjack.Logger {
	if path == "" {
		path = defaultLogPath()
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB, // megabytes
		MaxBackups: maxLogBackups,
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level})))
	return sink
}
