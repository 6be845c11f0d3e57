package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"
)

type logLevelFlag struct {
	value slog.Level
	set   bool
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level")
	}
	l.value = v
	l.set = true
	return nil
}

// defined flags
var (
	levelFlag   logLevelFlag
	configFlag  = flag.String("config", "", "path to a YAML config file")
	sceneFlag   = flag.String("scene", "", "path to a YAML scene, built-in demo when empty")
	logFileFlag = flag.String("logfile", "", "log file path, user log directory when empty")
	muteFlag    = flag.Bool("mute", false, "start with sound disabled")
	workersFlag = flag.Int("workers", 0, "softbody worker goroutines, 0 keeps the config value")
)

func init() {
	levelFlag.value = slog.LevelInfo
	flag.Var(&levelFlag, "level", "log level name")
}
