package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Cache and snapshot store
	ClearCache bool   `long:"clear-cache" env:"CLEAR_CACHE" description:"Delete the cache directory before the first cycle"`
	CacheDir   string `long:"cache-dir" env:"CACHE_DIR" default:"cache" description:"Directory holding prod snapshots"`
	Store      string `long:"store" env:"STORE" default:"file" choice:"file" choice:"sqlite" description:"Snapshot store backend"`

	// Tracked prods
	ProdIDs   []string `long:"prod-id" env:"PROD_IDS" env-delim:"," description:"pouet.net prod id to watch (repeatable)"`
	ProdsFile string   `long:"prods-file" env:"PRODS_FILE" description:"YAML file with a list of prod ids under 'prods'"`
	Interval  int      `long:"interval" env:"INTERVAL" default:"60" description:"Seconds to sleep between cycles"`

	// pouet.net access
	Source      string  `long:"source" env:"SOURCE" default:"api" choice:"api" choice:"html" description:"Read prods from the JSON API or the HTML prod page"`
	APIBaseURL  string  `long:"api-base-url" env:"API_BASE_URL" default:"https://api.pouet.net" description:"pouet.net API base URL"`
	SiteBaseURL string  `long:"site-base-url" env:"SITE_BASE_URL" default:"https://www.pouet.net" description:"pouet.net site base URL used for links and comment feeds"`
	UserAgent   string  `long:"user-agent" env:"USER_AGENT" default:"prodwatch/1.0" description:"User agent string for HTTP requests"`
	Timeout     int     `long:"timeout" env:"TIMEOUT" default:"0" description:"HTTP timeout in seconds (0 keeps the transport default)"`
	RateLimit   float64 `long:"rate-limit" env:"RATE_LIMIT" default:"0" description:"Maximum pouet.net requests per second (0 disables)"`

	// Notification sinks
	WebhookURL     string `long:"webhook-url" env:"WEBHOOK_URL" description:"Webhook URL receiving {\"text\": ...} posts; console only when empty"`
	TelegramToken  string `long:"telegram-token" env:"TELEGRAM_TOKEN" description:"Telegram bot token"`
	TelegramChatID int64  `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat id receiving notifications"`

	// Status API
	Port         string `long:"port" env:"PORT" description:"Status API port (disabled when empty)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for /api endpoints (optional)"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type prodsFile struct {
	Prods []string `yaml:"prods"`
}

// Load parses the command line and environment. It returns nil, nil when
// help was requested.
func Load() (*Cfg, error) {
	return Parse(os.Args[1:])
}

// Parse is Load for an explicit argument list. Positional arguments are
// taken as extra prod ids.
func Parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.Usage = "[OPTIONS] [PROD_ID...]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ids := append(append([]string(nil), raw.ProdIDs...), rest...)
	if raw.ProdsFile != "" {
		fileIDs, err := loadProdsFile(raw.ProdsFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fileIDs...)
	}

	prodIDs, err := normalizeProdIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(prodIDs) == 0 {
		return nil, fmt.Errorf("no prod ids configured, use --prod-id, PROD_IDS or --prods-file")
	}

	if raw.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", raw.Interval)
	}
	if raw.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", raw.Timeout)
	}
	if raw.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative, got %g", raw.RateLimit)
	}
	if (raw.TelegramToken == "") != (raw.TelegramChatID == 0) {
		return nil, fmt.Errorf("telegram token and chat id must be set together")
	}
	if strings.TrimSpace(raw.CacheDir) == "" {
		return nil, fmt.Errorf("cache directory must not be empty")
	}

	return &Cfg{
		ClearCache:     raw.ClearCache,
		CacheDir:       raw.CacheDir,
		Store:          raw.Store,
		ProdIDs:        prodIDs,
		ProdsFile:      raw.ProdsFile,
		Interval:       time.Duration(raw.Interval) * time.Second,
		Source:         raw.Source,
		APIBaseURL:     raw.APIBaseURL,
		SiteBaseURL:    raw.SiteBaseURL,
		UserAgent:      raw.UserAgent,
		Timeout:        time.Duration(raw.Timeout) * time.Second,
		RateLimit:      raw.RateLimit,
		WebhookURL:     raw.WebhookURL,
		TelegramToken:  raw.TelegramToken,
		TelegramChatID: raw.TelegramChatID,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}, nil
}

func loadProdsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prods file %s: %w", path, err)
	}

	var file prodsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prods file %s: %w", path, err)
	}

	return file.Prods, nil
}

// normalizeProdIDs rejects anything that is not a positive integer and drops
// duplicates, keeping the first occurrence.
func normalizeProdIDs(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))

	for _, raw := range ids {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		n, err := strconv.ParseUint(raw, 10, 63)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid prod id %q: must be a positive integer", raw)
		}

		id := strconv.FormatUint(n, 10)
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}

	return result, nil
}
