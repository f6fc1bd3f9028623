package main

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		var value interface{}
		switch r.Method + " " + r.URL.Path {
		case "POST /session":
			value = map[string]interface{}{"browserName": "phantomjs"}
		case "POST /session/s1/execute":
			value = "1"
		case "GET /session/s1/screenshot":
			value = base64.StdEncoding.EncodeToString([]byte("png"))
		case "GET /session/s1/cookie":
			value = []map[string]interface{}{{"name": "foo", "value": "bar"}}
		case "DELETE /session/s1":
			value = map[string]string{}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"sessionId": "s1", "status": 0, "value": value})
	}))
	defer srv.Close()

	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	cfg := defaultSampleConfig()
	cfg.Host, cfg.Port = host, port
	cfg.Screenshot = filepath.Join(t.TempDir(), "foo.png")

	require.NoError(t, run(cfg, zerolog.Nop()))

	got, err := os.ReadFile(cfg.Screenshot)
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
	assert.Equal(t, []string{
		"POST /session",
		"POST /session/s1/url",
		"POST /session/s1/execute",
		"GET /session/s1/screenshot",
		"POST /session/s1/cookie",
		"GET /session/s1/cookie",
		"DELETE /session/s1",
	}, calls)
}
