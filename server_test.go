// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// capabilities as returned by PhantomJS 2.1 on session creation.
var phantomCapabilities = map[string]interface{}{
	"acceptSslCerts":           false,
	"applicationCacheEnabled":  false,
	"browserConnectionEnabled": false,
	"browserName":              "phantomjs",
	"cssSelectorsEnabled":      true,
	"databaseEnabled":          false,
	"driverName":               "ghostdriver",
	"driverVersion":            "1.2.0",
	"handlesAlerts":            false,
	"javascriptEnabled":        true,
	"locationContextEnabled":   false,
	"nativeEvents":             true,
	"platform":                 "linux-unknown-64bit",
	"proxy":                    map[string]interface{}{"proxyType": "direct"},
	"rotatable":                false,
	"takesScreenshot":          true,
	"version":                  "2.1.1",
	"webStorageEnabled":        false,
}

type request struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// fakeGhost is a GhostDriver stand-in that records every request it serves.
type fakeGhost struct {
	srv       *httptest.Server
	sessionID string

	mu       sync.Mutex
	requests []request
	routes   map[string]http.HandlerFunc
}

func newFakeGhost(t *testing.T) *fakeGhost {
	f := &fakeGhost{sessionID: uuid.NewString(), routes: map[string]http.HandlerFunc{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	f.handle(http.MethodPost, "/session", f.reply(Success, phantomCapabilities))
	f.handle(http.MethodDelete, f.path(""), f.reply(Success, map[string]string{}))
	return f
}

func (f *fakeGhost) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if !ok {
		f.raw(http.StatusNotFound, `{"sessionId":null,"status":9,"value":{"message":"unknown command"}}`)(w, r)
		return
	}
	h(w, r)
}

func (f *fakeGhost) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// reply answers with an envelope carrying value.
func (f *fakeGhost) reply(status int, value interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sessionId": f.sessionID,
			"status":    status,
			"value":     value,
		})
	}
}

func (f *fakeGhost) raw(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.WriteHeader(code)
		io.WriteString(w, body)
	}
}

func (f *fakeGhost) path(suffix string) string {
	return "/session/" + f.sessionID + suffix
}

func (f *fakeGhost) hostPort(t *testing.T) (string, string) {
	host, port, err := net.SplitHostPort(f.srv.Listener.Addr().String())
	require.NoError(t, err)
	return host, port
}

func (f *fakeGhost) driver(t *testing.T) *Driver {
	return NewDriver(f.hostPort(t))
}

func (f *fakeGhost) session(t *testing.T) *Session {
	s, err := f.driver(t).NewSession(DesiredCapabilities("test-agent"))
	require.NoError(t, err)
	return s
}

// sent returns the requests matching method and path, in arrival order.
func (f *fakeGhost) sent(method, path string) []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []request
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeGhost) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
