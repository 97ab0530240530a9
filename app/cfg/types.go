package cfg

import "time"

type Cfg struct {
	// Cache and snapshot store
	ClearCache bool
	CacheDir   string
	Store      string

	// Tracked prods
	ProdIDs   []string
	ProdsFile string
	Interval  time.Duration

	// pouet.net access
	Source      string
	APIBaseURL  string
	SiteBaseURL string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64

	// Notification sinks
	WebhookURL     string
	TelegramToken  string
	TelegramChatID int64

	// Status API
	Port         string
	APIAccessKey string

	Debug   bool
	Version string
}

const (
	SourceAPI  = "api"
	SourceHTML = "html"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
)
