package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"quoteservice/internal/provider"
)

type pathLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *pathLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func chartUpstream(t *testing.T, l *pathLog) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		l.paths = append(l.paths, r.URL.Path)
		l.mu.Unlock()
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"TCS.NS","currency":"INR","regularMarketPrice":4250,"previousClose":4200}}]}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_SymbolFromEnv(t *testing.T) {
	// Arrange: endpoints and symbol come from the environment
	var paths pathLog
	srv := chartUpstream(t, &paths)
	t.Setenv("UPSTREAM_ENDPOINTS", srv.URL+"/v8/finance/chart/{symbol}")
	t.Setenv("SYMBOL", "TCS.NS")

	// Act
	var stdout, stderr bytes.Buffer
	err := run([]string{"-timeout", "1"}, &stdout, &stderr)

	// Assert
	require.NoError(t, err, stderr.String())
	require.Equal(t, []string{"/v8/finance/chart/TCS.NS"}, paths.get())

	var q provider.Quote
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &q))
	require.Equal(t, "TCS.NS", q.Symbol)
	require.Equal(t, 4250.0, q.Price)
	require.Equal(t, 1.19, q.ChangePercent)
	require.False(t, q.IsDemo)
	require.True(t, strings.HasPrefix(stdout.String(), "{\n  "), "output is indented")
}

func TestRun_SymbolFlagOverridesEnv(t *testing.T) {
	var paths pathLog
	srv := chartUpstream(t, &paths)
	t.Setenv("UPSTREAM_ENDPOINTS", srv.URL+"/{symbol}")
	t.Setenv("SYMBOL", "TCS.NS")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-symbol", "INFY.NS", "-timeout", "1"}, &stdout, &stderr)

	require.NoError(t, err, stderr.String())
	require.Equal(t, []string{"/INFY.NS"}, paths.get())
}

func TestRun_UpstreamDownPrintsDemo(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("UPSTREAM_ENDPOINTS", srv.URL+"/a/{symbol},"+srv.URL+"/b/{symbol}")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-symbol", "RELIANCE.NS", "-timeout", "1", "-log-level", "warn"}, &stdout, &stderr)

	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())

	var q provider.Quote
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &q))
	require.True(t, q.IsDemo)
	require.GreaterOrEqual(t, q.Price, 2772.0)
	require.LessOrEqual(t, q.Price, 2828.0)
	require.Contains(t, stderr.String(), "printed quote is synthetic")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.Error(t, run([]string{"-no-such-flag"}, &stdout, &stderr))

	t.Setenv("UPSTREAM_ENDPOINTS", "http://127.0.0.1/no-placeholder")
	err := run([]string{"-symbol", "TCS.NS"}, &stdout, &stderr)
	require.ErrorContains(t, err, "{symbol}")
	require.Zero(t, stdout.Len())
}
