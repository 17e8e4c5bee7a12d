package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Check configuration
	ConfigFile   string `long:"config" short:"c" env:"CONFIG_FILE" default:"watched_flavors.json" description:"Watch list file (JSON or YAML)"`
	ScrapeURL    string `long:"url" env:"SCRAPE_URL" default:"https://sweetcow.com/stanley-marketplace/" description:"Flavor page to scrape"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Page fetch timeout in seconds"`
	NtfyServer   string `long:"ntfy-server" env:"NTFY_SERVER" default:"https://ntfy.sh" description:"ntfy server base URL"`
	NtfyTopic    string `long:"ntfy-topic" env:"NTFY_TOPIC" description:"ntfy topic, overrides ntfy_topic from the watch list"`
	DryRun       bool   `long:"dry-run" env:"DRY_RUN" description:"Log the notification instead of sending it"`
	HistoryDB    string `long:"history-db" env:"HISTORY_DB" description:"SQLite file for run history (optional)"`

	// Status server configuration
	Serve        bool   `long:"serve" env:"SERVE" description:"Run the status HTTP server instead of a single check"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://flavors.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key enabling POST /api/check (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"FlavorWatch/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command-line arguments and environment variables.
// It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.FetchTimeout < 0 {
		return nil, fmt.Errorf("fetch timeout must be non-negative")
	}

	cfg := &Cfg{
		ConfigFile:   raw.ConfigFile,
		ScrapeURL:    raw.ScrapeURL,
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		NtfyServer:   raw.NtfyServer,
		NtfyTopic:    raw.NtfyTopic,
		DryRun:       raw.DryRun,
		HistoryDB:    raw.HistoryDB,
		Serve:        raw.Serve,
		Port:         raw.Port,
		BaseUrl:      raw.BaseUrl,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}
