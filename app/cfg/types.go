package cfg

import "time"

type Cfg struct {
	// Check configuration
	ConfigFile   string
	ScrapeURL    string
	FetchTimeout time.Duration
	NtfyServer   string
	NtfyTopic    string
	DryRun       bool
	HistoryDB    string

	// Status server configuration
	Serve        bool
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
