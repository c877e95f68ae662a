package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Telegram TelegramConfig    `yaml:"telegram"`
	Vault    VaultConfig       `yaml:"vault"`
	Daily    DailyConfig       `yaml:"daily"`
	Tasks    TaskConfig        `yaml:"tasks"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Telegram.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Daily.Validate(); err != nil {
		return err
	}
	return c.Tasks.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for the webhook endpoint.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// TelegramConfig holds the Bot API settings. The bot serves exactly one
// whitelisted operator; updates from anyone else are dropped.
type TelegramConfig struct {
	UserID        int64  `yaml:"user_id"`
	APIBaseURL    string `yaml:"api_base_url"`
	WebhookURL    string `yaml:"webhook_url"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// Validate validates the Telegram configuration.
func (c *TelegramConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UserID, validation.Required, validation.Min(1)),
		validation.Field(&c.APIBaseURL, validation.Required),
	)
}

// VaultConfig holds the Obsidian vault layout and note formatting settings.
//
// NoteFilenameFormat is a Go time layout; the default produces minute
// resolution ("2026-02-15 1430.md"). Timezone is an IANA zone name and is
// the reference zone for every timestamp written into the vault.
type VaultConfig struct {
	Path               string `yaml:"path"`
	InboxFolder        string `yaml:"inbox_folder"`
	AttachmentsFolder  string `yaml:"attachments_folder"`
	NoteFilenameFormat string `yaml:"note_filename_format"`
	Timezone           string `yaml:"timezone"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.InboxFolder, validation.Required),
		validation.Field(&c.AttachmentsFolder, validation.Required),
		validation.Field(&c.NoteFilenameFormat, validation.Required),
		validation.Field(&c.Timezone, validation.Required),
	); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("vault: invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *VaultConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DailyConfig holds the daily-notes folder and filename date format.
type DailyConfig struct {
	Folder     string `yaml:"folder"`
	DateFormat string `yaml:"date_format"`
}

// Validate validates the daily-notes configuration.
func (c *DailyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Folder, validation.Required),
		validation.Field(&c.DateFormat, validation.Required),
	)
}

// TaskConfig holds task-inbox settings and the two deployment tag strings.
type TaskConfig struct {
	InboxFile   string `yaml:"inbox_file"`
	Tag         string `yaml:"tag"`
	FollowUpTag string `yaml:"follow_up_tag"`
	ListLimit   int    `yaml:"list_limit"`
}

// Validate validates the task configuration.
func (c *TaskConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.InboxFile, validation.Required),
		validation.Field(&c.Tag, validation.Required),
		validation.Field(&c.FollowUpTag, validation.Required),
		validation.Field(&c.ListLimit, validation.Required, validation.Min(1)),
	)
}

// Secrets holds credentials loaded from the environment, never from YAML.
type Secrets struct {
	TelegramToken    string `envconfig:"TELEGRAM_TOKEN"`
	ElevenLabsAPIKey string `envconfig:"ELEVENLABS_API_KEY"`
}

// Validate validates the secrets.
func (s *Secrets) Validate() error {
	if s.TelegramToken == "" {
		return fmt.Errorf("secrets: TELEGRAM_TOKEN is required")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Telegram: TelegramConfig{
			APIBaseURL: "https://api.telegram.org",
		},
		Vault: VaultConfig{
			Path:               "./vault",
			InboxFolder:        "+",
			AttachmentsFolder:  "+/attachments",
			NoteFilenameFormat: "2006-01-02 1504",
			Timezone:           "Europe/Rome",
		},
		Daily: DailyConfig{
			Folder:     "calendar/days",
			DateFormat: "2006-01-02",
		},
		Tasks: TaskConfig{
			InboxFile:   "+/task-inbox.md",
			Tag:         "#to/do",
			FollowUpTag: "#to/follow-up",
			ListLimit:   10,
		},
	}
}
