package config

const (
	DefaultFeedURL      = "https://www.tazkarti.com/data/matches-list-json.json"
	DefaultTelegramAPI  = "https://api.telegram.org"
	DefaultBookingURL   = "https://www.tazkarti.com/#/matches"
	DefaultSchedule     = "30s"
	DefaultTimeout      = "10s"
	DefaultLogFile      = "alerts.log"
	DefaultHealthAddr   = ":10000"
	DefaultTeamLabel    = "Al Ahly"
	DefaultTZName       = "Cairo"
	DefaultTZOffsetHour = 2
)

// DefaultWatchTerms are the spellings of the watched team seen in the feed.
var DefaultWatchTerms = []string{"Ahly", "Al Ahly", "Al-Ahly", "الأهلي"}

// Defaults returns a config with every compiled-in default set and no
// credentials.
func Defaults() Config {
	return Config{
		Telegram: TelegramConfig{
			APIURL:     DefaultTelegramAPI,
			Timeout:    DefaultTimeout,
			RatePerSec: 1,
		},
		Feed: FeedConfig{
			URL:     DefaultFeedURL,
			Timeout: DefaultTimeout,
		},
		Poll: PollConfig{
			Schedule:   DefaultSchedule,
			WatchTerms: append([]string(nil), DefaultWatchTerms...),
		},
		Alert: AlertConfig{
			TeamLabel:     DefaultTeamLabel,
			BookingURL:    DefaultBookingURL,
			TZOffsetHours: DefaultTZOffsetHour,
			TZName:        DefaultTZName,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    DefaultLogFile,
		},
		Health: HealthConfig{
			Enabled: true,
			Addr:    DefaultHealthAddr,
		},
	}
}
