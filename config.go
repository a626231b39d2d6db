package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = ".eml2cal.toml"

// Config mirrors the TOML configuration file.
type Config struct {
	Mailbox     MailboxConfig     `toml:"mailbox"`
	Extractor   ExtractorConfig   `toml:"extractor"`
	Preprocess  PreprocessConfig  `toml:"preprocess"`
	Postprocess PostprocessConfig `toml:"postprocess"`
	Calendar    CalendarConfig    `toml:"calendar"`
	Report      ReportConfig      `toml:"report"`
	State       StateConfig       `toml:"state"`
	Logging     LoggingConfig     `toml:"logging"`
}

// MailboxConfig selects exactly one mail source. delete_processed asks
// for messages to be deleted from the mailbox after a successful run.
type MailboxConfig struct {
	Maildir         string      `toml:"maildir"`
	Mbox            string      `toml:"mbox"`
	IMAP            *IMAPConfig `toml:"imap"`
	DeleteProcessed bool        `toml:"delete_processed"`
}

type IMAPConfig struct {
	Server          string `toml:"server"`
	STARTTLS        bool   `toml:"starttls"`
	Folder          string `toml:"folder"`
	Username        string `toml:"username"`
	Password        string `toml:"password"`
	PasswordCmd     string `toml:"password_cmd"`
	PasswordEnv     string `toml:"password_env"`
	PasswordKeyring string `toml:"password_keyring"`
}

type ExtractorConfig struct {
	Command              string `toml:"command"`
	AdditionalExtractors string `toml:"additional_extractors"`
	TimeoutSeconds       int    `toml:"timeout_seconds"`
}

// PreprocessConfig maps source headers to destination headers. Before
// extraction, the content of each source header (if present) replaces the
// destination header, eg X-Original-From -> From for forwarded mail.
type PreprocessConfig struct {
	Headers map[string]string `toml:"headers"`
}

// EventTweaks are the postprocessing options that can be set globally
// under [postprocess] or per reservation type under
// [postprocess.types.<Type>].
type EventTweaks struct {
	Attendees       []string `toml:"attendees"`
	DefaultDuration string   `toml:"default_duration"`
	Categories      []string `toml:"categories"`
	Alarms          []string `toml:"alarms"`
}

type PostprocessConfig struct {
	Attendees       []string               `toml:"attendees"`
	DefaultDuration string                 `toml:"default_duration"`
	Categories      []string               `toml:"categories"`
	Alarms          []string               `toml:"alarms"`
	Types           map[string]EventTweaks `toml:"types"`
}

// global returns the top-level postprocessing options as an EventTweaks.
func (c *PostprocessConfig) global() EventTweaks {
	return EventTweaks{
		Attendees:       c.Attendees,
		DefaultDuration: c.DefaultDuration,
		Categories:      c.Categories,
		Alarms:          c.Alarms,
	}
}

// tweaksFor resolves the effective options for a reservation type: values
// set under [postprocess.types.<Type>] shadow the top-level ones key by
// key.
func (c *PostprocessConfig) tweaksFor(resType string) EventTweaks {
	t := c.global()
	o, ok := c.Types[resType]
	if !ok {
		return t
	}
	if o.Attendees != nil {
		t.Attendees = o.Attendees
	}
	if o.DefaultDuration != "" {
		t.DefaultDuration = o.DefaultDuration
	}
	if o.Categories != nil {
		t.Categories = o.Categories
	}
	if o.Alarms != nil {
		t.Alarms = o.Alarms
	}
	return t
}

type CalendarConfig struct {
	CalDAV *CalDAVConfig `toml:"caldav"`
	Google *GoogleConfig `toml:"google"`
	File   *FileConfig   `toml:"file"`
}

type CalDAVConfig struct {
	CalendarURL     string `toml:"calendar_url"`
	Username        string `toml:"username"`
	Password        string `toml:"password"`
	PasswordCmd     string `toml:"password_cmd"`
	PasswordEnv     string `toml:"password_env"`
	PasswordKeyring string `toml:"password_keyring"`
}

type GoogleConfig struct {
	CalendarID   string `toml:"calendar_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AccountName  string `toml:"account_name"`
}

func (c *GoogleConfig) accountName() string {
	if c.AccountName != "" {
		return c.AccountName
	}
	return "default"
}

type FileConfig struct {
	Path string `toml:"path"`
}

type ReportConfig struct {
	SMTP *SMTPConfig `toml:"smtp"`
}

type SMTPConfig struct {
	Server          string `toml:"server"`
	Port            int    `toml:"port"`
	STARTTLS        bool   `toml:"starttls"`
	Username        string `toml:"username"`
	Password        string `toml:"password"`
	PasswordCmd     string `toml:"password_cmd"`
	PasswordEnv     string `toml:"password_env"`
	PasswordKeyring string `toml:"password_keyring"`
	FromAddress     string `toml:"from_address"`
	ToAddress       string `toml:"to_address"`
}

type StateConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Verbosity int    `toml:"verbosity"`
	Debug     bool   `toml:"debug"`
	LogDir    string `toml:"log_dir"`
}

// readConfig loads the config file: from the given path if set, otherwise
// from .eml2cal.toml in the current directory, falling back to
// `$HOME/.config/eml2cal/eml2cal.toml`. The directory the file was found
// in becomes the default home of the state database.
func readConfig(path string) (*Config, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		configDir = filepath.Dir(path) + "/"
	} else {
		data, err = os.ReadFile(configFileName)
		if err != nil {
			fallbackDir := os.Getenv("HOME") + "/.config/eml2cal/"
			data, err = os.ReadFile(fallbackDir + "eml2cal.toml")
			if err != nil {
				return nil, err
			}
			configDir = fallbackDir
		}
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func hasSecret(literal, command, envVar, keyringKey string) bool {
	return literal != "" || command != "" || envVar != "" || keyringKey != ""
}

// validate checks the loaded config and reports every problem found, so
// a broken file can be fixed in one edit.
func (c *Config) validate() error {
	var problems []string

	if c.Extractor.Command == "" {
		problems = append(problems, "extractor.command must be specified")
	}

	sources := 0
	if c.Mailbox.Maildir != "" {
		sources++
	}
	if c.Mailbox.Mbox != "" {
		sources++
	}
	if c.Mailbox.IMAP != nil {
		sources++
	}
	if sources == 0 {
		problems = append(problems, "one of mailbox.maildir, mailbox.mbox or [mailbox.imap] must be specified")
	} else if sources > 1 {
		problems = append(problems, "only one mailbox source may be specified")
	}

	if imap := c.Mailbox.IMAP; imap != nil {
		if imap.Server == "" {
			problems = append(problems, "mailbox.imap.server must be specified")
		}
		if imap.Username == "" {
			problems = append(problems, "mailbox.imap.username must be specified")
		}
		if !hasSecret(imap.Password, imap.PasswordCmd, imap.PasswordEnv, imap.PasswordKeyring) {
			problems = append(problems, "mailbox.imap needs one of password, password_cmd, password_env or password_keyring")
		}
	}

	if dav := c.Calendar.CalDAV; dav != nil {
		if dav.CalendarURL == "" {
			problems = append(problems, "calendar.caldav.calendar_url must be specified")
		}
		if dav.Username == "" {
			problems = append(problems, "calendar.caldav.username must be specified")
		}
		if !hasSecret(dav.Password, dav.PasswordCmd, dav.PasswordEnv, dav.PasswordKeyring) {
			problems = append(problems, "calendar.caldav needs one of password, password_cmd, password_env or password_keyring")
		}
	}

	if g := c.Calendar.Google; g != nil {
		if g.CalendarID == "" {
			problems = append(problems, "calendar.google.calendar_id must be specified")
		}
		if g.ClientID == "" || g.ClientSecret == "" {
			problems = append(problems, "calendar.google needs client_id and client_secret")
		}
	}

	if f := c.Calendar.File; f != nil && f.Path == "" {
		problems = append(problems, "calendar.file.path must be specified")
	}

	if smtp := c.Report.SMTP; smtp != nil {
		if smtp.Server == "" {
			problems = append(problems, "report.smtp.server must be specified")
		}
		if smtp.ToAddress == "" {
			problems = append(problems, "report.smtp.to_address must be specified")
		}
		if smtp.Username == "" {
			problems = append(problems, "report.smtp.username must be specified")
		}
		if !hasSecret(smtp.Password, smtp.PasswordCmd, smtp.PasswordEnv, smtp.PasswordKeyring) {
			problems = append(problems, "report.smtp needs one of password, password_cmd, password_env or password_keyring")
		}
	}

	// Durations are checked up front so a bad config fails before any
	// mail is touched.
	checkTweaks := func(section string, t EventTweaks) {
		if t.DefaultDuration != "" {
			if _, err := parseClockDuration(t.DefaultDuration); err != nil {
				problems = append(problems, fmt.Sprintf("%s.default_duration: %v", section, err))
			}
		}
		for _, a := range t.Alarms {
			if _, err := parseClockDuration(a); err != nil {
				problems = append(problems, fmt.Sprintf("%s.alarms: %v", section, err))
			}
		}
	}
	checkTweaks("postprocess", c.Postprocess.global())
	for name, t := range c.Postprocess.Types {
		checkTweaks("postprocess.types."+name, t)
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
