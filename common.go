package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var configDir string
var verbosityLevel int
var debugMode bool

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return path
}

// parseClockDuration parses a duration given in the HH:MM:SS form used
// throughout the config file (eg "02:00:00" for two hours).
func parseClockDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q: expected HH:MM:SS", s)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q: expected HH:MM:SS", s)
		}
		fields[i] = n
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// initLogging applies the [logging] section: verbosity for stdout
// progress, debug detail, and an optional per-run log file.
func initLogging(conf *LoggingConfig) {
	verbosityLevel = conf.Verbosity
	debugMode = conf.Debug
	if conf.LogDir == "" {
		return
	}
	dir := expandPath(conf.LogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Error creating log directory: %v", err)
	}
	name := filepath.Join(dir, "eml2cal_"+time.Now().Format("20060102T150405")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}
	log.SetOutput(f)
}

func debugf(format string, a ...interface{}) {
	if debugMode {
		log.Printf(format, a...)
	}
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - one line per stage of the run
	// 2 - list emails being processed
	// 3 - report on events extracted and uploaded
	// 4 - report on skipped and duplicate events
	// 5 - report everything
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
