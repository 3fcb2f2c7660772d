package app

import (
	"strings"
	"time"

	"matchwatch/internal/alert"
	"matchwatch/internal/config"
	"matchwatch/internal/notifier"
	"matchwatch/internal/statusbot"
	"matchwatch/internal/storage"
	logx "matchwatch/pkg/logx"
)

func mapLogConfig(cfg *config.Config) logx.Config {
	path := strings.TrimSpace(cfg.Logging.File)
	enabled := path != "" && !strings.EqualFold(path, "none")
	return logx.Config{
		Level:    cfg.Logging.Level,
		Console:  cfg.Logging.Console,
		File:     logx.FileConfig{Enabled: enabled, Path: path},
		Location: cfg.Location(),
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, bool) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" || driver == "none" {
		return storage.Config{}, false
	}
	path := strings.TrimSpace(cfg.Storage.Path)
	if path == "" {
		path = "./matchwatch_history"
		if driver == "file" {
			path += ".jsonl"
		} else {
			path += ".db"
		}
	}
	return storage.Config{Driver: driver, Path: path, BusyTimeout: time.Second}, true
}

func mapNotifierConfig(cfg *config.Config) notifier.Config {
	return notifier.Config{
		BaseURL:    cfg.Telegram.APIURL,
		Token:      cfg.Telegram.Token,
		ChatID:     cfg.Telegram.ChatID,
		Timeout:    cfg.NotifyTimeout(),
		RatePerSec: cfg.Telegram.RatePerSec,
	}
}

func mapStatusBotConfig(cfg *config.Config) statusbot.Config {
	return statusbot.Config{
		Token:  cfg.Telegram.Token,
		ChatID: cfg.Telegram.ChatID,
		APIURL: cfg.Telegram.APIURL,
	}
}

func mapFormatter(cfg *config.Config) alert.Formatter {
	return alert.Formatter{
		TeamLabel:  cfg.Alert.TeamLabel,
		BookingURL: cfg.Alert.BookingURL,
		Location:   cfg.Location(),
	}
}
