package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory builds the calendar targets configured under
// [calendar], creating each one at most once per run.
type CalendarFactory struct {
	config  *Config
	db      *sql.DB
	ctx     context.Context
	targets map[string]CalendarTarget
}

func NewCalendarFactory(ctx context.Context, config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config:  config,
		db:      db,
		ctx:     ctx,
		targets: make(map[string]CalendarTarget),
	}
}

// Target returns the named calendar target, creating it on first use.
// Asking for a target that is not configured is an error.
func (cf *CalendarFactory) Target(name string) (CalendarTarget, error) {
	if target, ok := cf.targets[name]; ok {
		return target, nil
	}

	var target CalendarTarget
	var err error
	switch name {
	case "caldav":
		if cf.config.Calendar.CalDAV == nil {
			return nil, fmt.Errorf("no [calendar.caldav] section in config file")
		}
		target, err = NewCalDAVCalendar(cf.ctx, cf.config.Calendar.CalDAV)
	case "google":
		if cf.config.Calendar.Google == nil {
			return nil, fmt.Errorf("no [calendar.google] section in config file")
		}
		target, err = NewGoogleCalendar(cf.ctx, cf.config.Calendar.Google, cf.db)
	case "file":
		if cf.config.Calendar.File == nil {
			return nil, fmt.Errorf("no [calendar.file] section in config file")
		}
		target = NewFileCalendar(cf.config.Calendar.File)
	default:
		return nil, fmt.Errorf("unsupported calendar target: %s", name)
	}
	if err != nil {
		return nil, err
	}

	cf.targets[name] = target
	return target, nil
}

// Targets returns every configured calendar target. An empty slice means
// no [calendar] section was given, which turns a run into extract-only.
func (cf *CalendarFactory) Targets() ([]CalendarTarget, error) {
	var targets []CalendarTarget
	if cf.config.Calendar.CalDAV != nil {
		target, err := cf.Target("caldav")
		if err != nil {
			return nil, fmt.Errorf("error connecting to CalDAV server: %w", err)
		}
		targets = append(targets, target)
	}
	if cf.config.Calendar.Google != nil {
		target, err := cf.Target("google")
		if err != nil {
			return nil, fmt.Errorf("error creating Google calendar target: %w", err)
		}
		targets = append(targets, target)
	}
	if cf.config.Calendar.File != nil {
		target, err := cf.Target("file")
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
