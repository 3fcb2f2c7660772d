package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"matchwatch/internal/config"
	"matchwatch/internal/poller"
	"matchwatch/internal/storage"
	logx "matchwatch/pkg/logx"
)

type fakeTelegram struct {
	mu   sync.Mutex
	msgs []map[string]any
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.msgs = append(f.msgs, body)
	f.mu.Unlock()
	_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
}

func (f *fakeTelegram) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func testConfig(t *testing.T, feedURL, apiURL string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.ChatID = "-10042"
	cfg.Telegram.APIURL = apiURL
	cfg.Telegram.RatePerSec = 100
	cfg.Feed.URL = feedURL
	cfg.Poll.Schedule = "20ms"
	cfg.Logging.Console = false
	cfg.Logging.File = filepath.Join(t.TempDir(), "alerts.log")
	cfg.Health.Addr = "127.0.0.1:0"
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestAppAlertsOncePerMatch(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"matchId": 7, "teamName1": "Zamalek", "teamName2": "Al Ahly"},
			{"matchId": "8", "teamName1": "Pyramids", "teamName2": "Ismaily"}
		]`)
	}))
	defer feedSrv.Close()
	tg := &fakeTelegram{}
	tgSrv := httptest.NewServer(tg)
	defer tgSrv.Close()

	cfg := testConfig(t, feedSrv.URL, tgSrv.URL)
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "history.jsonl")

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	// Several cycles run; only the first detection alerts.
	require.Eventually(t, func() bool { return tg.Count() == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, tg.Count())

	require.Eventually(t, func() bool { return a.HealthAddr() != "" }, 2*time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + a.HealthAddr() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Stop(ctx))
	require.Equal(t, poller.StateIdle, a.Loop().State())

	st, err := storage.Open(storage.Config{Driver: "file", Path: cfg.Storage.Path}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "7", got[0].MatchID)
	require.True(t, got[0].OK)

	logs, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	require.Contains(t, string(logs), "alert sent")
}

func TestNewRejectsBadSchedule(t *testing.T) {
	cfg := config.Defaults()
	cfg.Poll.Schedule = "soon"
	_, err := New(&cfg)
	require.Error(t, err)
}

func TestMapStorageConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	_, ok := mapStorageConfig(&cfg)
	require.False(t, ok)

	cfg.Storage.Driver = "SQLite"
	sc, ok := mapStorageConfig(&cfg)
	require.True(t, ok)
	require.Equal(t, "sqlite", sc.Driver)
	require.Equal(t, "./matchwatch_history.db", sc.Path)

	cfg.Logging.File = "none"
	require.False(t, mapLogConfig(&cfg).File.Enabled)
}
