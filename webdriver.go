// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
)

//typing saver
type params map[string]interface{}

//Server details.
type Status struct {
	Build Build
	OS    OS
}

//Server built details.
type Build struct {
	Version  string
	Revision string
	Time     string
}

//Server OS details
type OS struct {
	Arch    string
	Name    string
	Version string
}

//Capabilities is a map that stores capabilities of a session.
type Capabilities map[string]interface{}

// UserAgentCapability overrides the user agent of every page PhantomJS opens.
const UserAgentCapability = "phantomjs.page.settings.userAgent"

// DesiredCapabilities returns the capability set GhostDriver expects for a
// PhantomJS session, with the page user agent set to userAgent.
func DesiredCapabilities(userAgent string) Capabilities {
	return Capabilities{
		"platform":          "ANY",
		"browserName":       "phantomjs",
		"version":           "",
		UserAgentCapability: userAgent,
	}
}

// Session is one remote PhantomJS browser. It must be released with Close,
// and is not safe for concurrent use apart from Close.
type Session struct {
	Id string
	// Capabilities returned by the server when the session was created.
	Capabilities Capabilities

	d      *Driver
	mu     sync.Mutex
	closed bool
}

//Create a new session.
func (d *Driver) NewSession(desired Capabilities) (*Session, error) {
	if desired == nil {
		desired = Capabilities{}
	}
	p := params{"desiredCapabilities": desired}
	sessionId, data, err := d.do("create session", p, http.MethodPost, "/session")
	if err != nil {
		return nil, err
	}
	var capabilities Capabilities
	if err := decode("create session", data, &capabilities); err != nil {
		return nil, err
	}
	if sessionId == "" {
		return nil, &Error{Kind: KindProtocol, Op: "create session", Err: ErrNoSessionID}
	}
	d.Logger.Debug().Str("session", sessionId).Msg("session created")
	return &Session{Id: sessionId, Capabilities: capabilities, d: d}, nil
}

// Create opens a PhantomJS session on the GhostDriver server at host:port,
// overriding the page user agent.
func Create(host, port, userAgent string) (*Session, error) {
	return NewDriver(host, port).NewSession(DesiredCapabilities(userAgent))
}

// WithSession creates a session, passes it to fn and closes it when fn
// returns or panics. A teardown failure is joined to fn's error.
func (d *Driver) WithSession(desired Capabilities, fn func(*Session) error) (err error) {
	s, err := d.NewSession(desired)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s)
}

// Run is WithSession for a PhantomJS session on host:port.
func Run(host, port, userAgent string, fn func(*Session) error) error {
	return NewDriver(host, port).WithSession(DesiredCapabilities(userAgent), fn)
}

// Driver returns the driver the session talks through.
func (s *Session) Driver() *Driver { return s.d }

func (s *Session) do(op string, p interface{}, method, urlFormat string, urlParams ...interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, &Error{Kind: KindProtocol, Op: op, Err: ErrSessionClosed}
	}
	args := append([]interface{}{s.Id}, urlParams...)
	_, data, err := s.d.do(op, p, method, "/session/%s"+urlFormat, args...)
	return data, err
}

//Delete the session. Only the first call sends the request; later calls return nil.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	_, data, err := s.d.do("delete session", nil, http.MethodDelete, "/session/%s", s.Id)
	if err == nil && len(data) > 0 && string(data) != "null" {
		var value map[string]string
		err = decode("delete session", data, &value)
	}
	if err != nil {
		s.d.Logger.Error().Err(err).Str("session", s.Id).Msg("session teardown failed")
		return err
	}
	s.d.Logger.Debug().Str("session", s.Id).Msg("session deleted")
	return nil
}

//Navigate to a new URL.
func (s *Session) Navigate(url string) error {
	p := params{"url": url}
	_, err := s.do("navigate", p, http.MethodPost, "/url")
	return err
}

// Inject a snippet of JavaScript into the page for execution in the context of the currently selected frame.
// The script is a function body; its return value comes back as a string. A
// JSON string result is returned unquoted, any other JSON result as its JSON text.
func (s *Session) ExecuteScript(script string) (string, error) {
	p := params{"script": script, "args": []string{}}
	data, err := s.do("execute", p, http.MethodPost, "/execute")
	if err != nil {
		return "", err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", &Error{Kind: KindProtocol, Op: "execute", Err: errors.New("response has no value")}
	}
	if data[0] != '"' {
		return string(data), nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return "", &Error{Kind: KindProtocol, Op: "execute", Err: err}
	}
	return str, nil
}

//Set a cookie.
func (s *Session) SetCookie(cookie Cookie) error {
	p := params{"cookie": cookie}
	_, err := s.do("set cookie", p, http.MethodPost, "/cookie")
	return err
}

// SetCookies sends each cookie with its own request, in order, and stops at
// the first failure.
func (s *Session) SetCookies(cookies []*http.Cookie) error {
	for i, c := range cookies {
		if err := s.SetCookie(CookieFromHTTP(c)); err != nil {
			return fmt.Errorf("cookie %d (%s): %w", i, c.Name, err)
		}
	}
	return nil
}

//Retrieve all cookies visible to the current page.
func (s *Session) GetCookies() ([]Cookie, error) {
	data, err := s.do("get cookies", nil, http.MethodGet, "/cookie")
	if err != nil {
		return nil, err
	}
	var cookies []Cookie
	if err := decode("get cookies", data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

//Take a screenshot of the current page. The PNG bytes are returned.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.do("screenshot", nil, http.MethodGet, "/screenshot")
	if err != nil {
		return nil, err
	}
	var encoded string
	if err := decode("screenshot", data, &encoded); err != nil {
		return nil, err
	}
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &Error{Kind: KindEncoding, Op: "screenshot", Err: err}
	}
	return buf, nil
}

// CaptureScreenshot writes a screenshot of the current page to path,
// replacing any existing file. Nothing is written unless the image decodes.
func (s *Session) CaptureScreenshot(path string) error {
	buf, err := s.Screenshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return &Error{Kind: KindIO, Op: "screenshot", Err: err}
	}
	return nil
}
