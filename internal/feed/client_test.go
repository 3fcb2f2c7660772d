package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDecodesRecords(t *testing.T) {
	t.Parallel()
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"teamName1":"Zamalek","teamName2":"Al Ahly","matchId":"7"},
			{"teamNameAr1":"الأهلي","matchId":42,"tournament":{"nameEn":"Egyptian League","nameAr":"الدوري"}},
			{"matchId":"9","tournament":null,"stadiumName":null}
		]`))
	})

	res, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	require.Zero(t, res.Skipped)

	require.Equal(t, "7", res.Records[0].ID())
	require.Equal(t, "Al Ahly", res.Records[0].TeamName2.String())

	require.Equal(t, "42", res.Records[1].ID())
	require.False(t, res.Records[1].TeamName1.Set)
	en, ar := res.Records[1].TournamentNames()
	require.Equal(t, "Egyptian League", en)
	require.Equal(t, "الدوري", ar)

	require.Nil(t, res.Records[2].Tournament)
	require.False(t, res.Records[2].StadiumName.Present())
}

func TestFetchSkipsMalformedRecords(t *testing.T) {
	t.Parallel()
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"matchId":"1"}, 17, "text", null, {"matchId":"2","teamName1":{"x":1}}, {"matchId":"3","tournament":"flat"}]`))
	})

	res, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Skipped)
	require.Len(t, res.Records, 3)
	require.Equal(t, "1", res.Records[0].ID())
	// structured value where text was expected reads as absent
	require.False(t, res.Records[1].TeamName1.Set)
	require.NotNil(t, res.Records[2].Tournament)
	require.False(t, res.Records[2].Tournament.NameEn.Present())
}

func TestFetchErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", kind: KindHTTPStatus},
		{name: "not found", status: http.StatusNotFound, body: "", kind: KindHTTPStatus},
		{name: "object body", status: http.StatusOK, body: `{"matches":[]}`, kind: KindParse},
		{name: "garbage", status: http.StatusOK, body: `<html>`, kind: KindParse},
		{name: "null", status: http.StatusOK, body: `null`, kind: KindParse},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
			var fe *FetchError
			require.True(t, errors.As(err, &fe), "want *FetchError, got %v", err)
			require.Equal(t, tt.kind, fe.Kind)
			if tt.kind == KindHTTPStatus {
				require.Equal(t, tt.status, fe.StatusCode)
			}
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	start := time.Now()
	_, err := NewClient(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, KindTransport, fe.Kind)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchUnreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, KindTransport, fe.Kind)
}
