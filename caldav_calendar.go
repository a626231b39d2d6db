package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// CalDAVCalendar uploads events to a single calendar collection on a
// CalDAV server.
type CalDAVCalendar struct {
	client *caldav.Client
	ctx    context.Context
	calURL *url.URL
}

func NewCalDAVCalendar(ctx context.Context, conf *CalDAVConfig) (*CalDAVCalendar, error) {
	calURL, err := url.Parse(conf.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV calendar URL: %w", err)
	}

	password, err := resolveSecret("calendar.caldav", conf.Password, conf.PasswordCmd, conf.PasswordEnv, conf.PasswordKeyring)
	if err != nil {
		return nil, err
	}

	var httpClient webdav.HTTPClient = http.DefaultClient
	if conf.Username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, conf.Username, password)
	}

	c, err := caldav.NewClient(httpClient, conf.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	cal := &CalDAVCalendar{client: c, ctx: ctx, calURL: calURL}
	if err := cal.checkCalendar(); err != nil {
		return nil, err
	}
	return cal, nil
}

// checkCalendar verifies the configured collection exists by listing the
// calendars in its parent home set. This doubles as the connection and
// credential test before any mail is processed.
func (c *CalDAVCalendar) checkCalendar() error {
	path := strings.TrimRight(c.calURL.Path, "/")
	homeSetPath := "/"
	if i := strings.LastIndex(path, "/"); i > 0 {
		homeSetPath = path[:i]
	}

	calendars, err := c.client.FindCalendars(c.ctx, homeSetPath)
	if err != nil {
		return fmt.Errorf("failed to connect to CalDAV server: %w", err)
	}

	for _, cal := range calendars {
		if strings.TrimRight(cal.Path, "/") == path {
			return nil
		}
	}
	return fmt.Errorf("calendar not found at path: %s", c.calURL.Path)
}

func (c *CalDAVCalendar) Name() string { return "caldav" }

// FindConflicts runs a time-range query over the widened window of the
// given event and returns whatever VEVENTs it matches.
func (c *CalDAVCalendar) FindConflicts(event *Event) ([]*Event, error) {
	start, end := event.conflictWindow()

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: start,
				End:   end,
			}},
		},
	}

	objects, err := c.client.QueryCalendar(c.ctx, c.calURL.Path, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search for conflicting events: %w", err)
	}

	var result []*Event
	for _, obj := range objects {
		for _, comp := range obj.Data.Component.Children {
			if comp.Name != "VEVENT" {
				continue
			}
			result = append(result, eventFromComponent(comp))
		}
	}
	return result, nil
}

// AddEvent uploads the event as a single-event calendar object. The short
// pause after each write keeps small DAV servers from throttling us when
// a backlog of mail produces many events at once.
func (c *CalDAVCalendar) AddEvent(event *Event) (string, error) {
	cal := icalCalendar(event)
	path := strings.TrimRight(c.calURL.Path, "/") + "/" + event.UID + ".ics"

	_, err := c.client.PutCalendarObject(c.ctx, path, cal)
	time.Sleep(time.Second)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return event.UID, nil
}

func (c *CalDAVCalendar) DeleteEvent(eventID string) error {
	path := strings.TrimRight(c.calURL.Path, "/") + "/" + eventID + ".ics"
	if err := c.client.Client.RemoveAll(c.ctx, path); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
