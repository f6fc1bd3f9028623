// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	Success                    = 0
	NoSuchDriver               = 6
	NoSuchElement              = 7
	NoSuchFrame                = 8
	UnknownCommand             = 9
	StaleElementReference      = 10
	ElementNotVisible          = 11
	InvalidElementState        = 12
	UnknownError               = 13
	ElementIsNotSelectable     = 15
	JavaScriptError            = 17
	XPathLookupError           = 19
	Timeout                    = 21
	NoSuchWindow               = 23
	InvalidCookieDomain        = 24
	UnableToSetCookie          = 25
	UnexpectedAlertOpen        = 26
	NoAlertOpenError           = 27
	ScriptTimeout              = 28
	InvalidElementCoordinates  = 29
	IMENotAvailable            = 30
	IMEEngineActivationFailed  = 31
	InvalidSelector            = 32
	SessionNotCreatedException = 33
	MoveTargetOutOfBounds      = 34
)

var statusCodeStrings = map[int]string{
	0:  "The command executed successfully.",
	6:  "A session is either terminated or not started.",
	7:  "An element could not be located on the page using the given search parameters.",
	8:  "A request to switch to a frame could not be satisfied because the frame could not be found.",
	9:  "The requested resource could not be found, or a request was received using an HTTP method that is not supported by the mapped resource.",
	10: "An element command failed because the referenced element is no longer attached to the DOM.",
	11: "An element command could not be completed because the element is not visible on the page.",
	12: "An element command could not be completed because the element is in an invalid state.",
	13: "An unknown server-side error occurred while processing the command.",
	15: "An attempt was made to select an element that cannot be selected.",
	17: "An error occurred while executing user supplied JavaScript.",
	19: "An error occurred while searching for an element by XPath.",
	21: "An operation did not complete before its timeout expired.",
	23: "A request to switch to a different window could not be satisfied because the window could not be found.",
	24: "An illegal attempt was made to set a cookie under a different domain than the current page.",
	25: "A request to set a cookie's value could not be satisfied.",
	26: "A modal dialog was open, blocking this operation.",
	27: "An attempt was made to operate on a modal dialog when one was not open.",
	28: "A script did not complete before its timeout expired.",
	29: "The coordinates provided to an interactions operation are invalid.",
	30: "IME was not available.",
	31: "An IME engine could not be started.",
	32: "Argument was an invalid selector (e.g. XPath/CSS).",
	33: "A new session could not be created.",
	34: "Target provided for a move action is out of bounds.",
}

type StackFrame struct {
	FileName   string
	ClassName  string
	MethodName string
	LineNumber int
}

// CommandError is a failure reported by the server, either through the HTTP
// status code or through a non-zero envelope status.
type CommandError struct {
	StatusCode int
	ErrorType  string
	Message    string
	Class      string
	StackTrace []StackFrame
}

func (e *CommandError) Error() string {
	m := e.ErrorType
	if m != "" {
		m += ": "
	}
	if e.StatusCode == -1 {
		m += "status code not specified"
		if e.Message != "" {
			m += ": " + e.Message
		}
	} else if str, found := statusCodeStrings[e.StatusCode]; found {
		m += str + ": " + e.Message
	} else {
		m += fmt.Sprintf("unknown status code (%d): %s", e.StatusCode, e.Message)
	}
	return m
}

// envelope is the {sessionId, status, value} object wrapping every response.
type envelope struct {
	RawSessionId json.RawMessage `json:"sessionId"`
	Status       int             `json:"status"`
	RawValue     json.RawMessage `json:"value"`
}

func parseError(c int, jr envelope, body []byte) error {
	var responseCodeError string
	switch c {
	// ghostdriver answers some command failures with 200
	case 200:
	case 400:
		responseCodeError = "400: Missing Command Parameters"
	case 404:
		responseCodeError = "404: Unknown command/Resource Not Found"
	case 405:
		responseCodeError = "405: Invalid Command Method"
	case 500:
		responseCodeError = "500: Failed Command"
	case 501:
		responseCodeError = "501: Unimplemented Command"
	default:
		responseCodeError = fmt.Sprintf("%d: Unknown error", c)
	}
	if jr.Status == 0 {
		return &CommandError{StatusCode: -1, ErrorType: responseCodeError, Message: head(body, 256)}
	}
	commandError := &CommandError{StatusCode: jr.Status, ErrorType: responseCodeError}
	var value struct {
		Message string `json:"message"`
		Class   string `json:"class"`
	}
	if err := json.Unmarshal(jr.RawValue, &value); err != nil {
		// the value can be a bare string instead of an object
		var s string
		if json.Unmarshal(jr.RawValue, &s) == nil {
			commandError.Message = s
		} else {
			commandError.Message = string(jr.RawValue)
		}
	} else {
		commandError.Message = value.Message
		commandError.Class = value.Class
	}
	return commandError
}

func isRedirect(response *http.Response) bool {
	r := response.StatusCode
	return r == http.StatusFound || r == http.StatusSeeOther
}

func newRequest(method, url string, data []byte) (*http.Request, error) {
	request, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if method == http.MethodPost {
		request.Header.Add("Content-Type", "application/json;charset=utf-8")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-charset", "utf-8")
	return request, nil
}

// head returns at most n bytes of buf for logging.
func head(buf []byte, n int) string {
	if len(buf) > n {
		return fmt.Sprintf("%s ...%d more bytes", string(buf[:n]), len(buf)-n)
	}
	return string(buf)
}

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Driver talks to a GhostDriver server.
type Driver struct {
	// Base URL of the server, e.g. "http://127.0.0.1:8910". No trailing slash.
	URL string
	// Transport used for every request. Default: http.DefaultClient.
	HTTPClient Doer
	// Request tracing goes to Logger at debug level. Default: disabled.
	Logger zerolog.Logger
}

// NewDriver returns a Driver for the GhostDriver server listening on host:port.
func NewDriver(host, port string) *Driver {
	return &Driver{
		URL:    fmt.Sprintf("http://%s:%s", host, port),
		Logger: zerolog.Nop(),
	}
}

func (d *Driver) client() Doer {
	if d.HTTPClient == nil {
		return http.DefaultClient
	}
	return d.HTTPClient
}

func (d *Driver) do(op string, params interface{}, method, urlFormat string, urlParams ...interface{}) (string, json.RawMessage, error) {
	if method != http.MethodGet && method != http.MethodPost && method != http.MethodDelete {
		return "", nil, &Error{Kind: KindTransport, Op: op, Err: errors.New("invalid method: " + method)}
	}
	url := strings.TrimRight(d.URL, "/") + fmt.Sprintf(urlFormat, urlParams...)
	return d.doInternal(op, params, method, url)
}

// doInternal performs one round trip and unwraps the envelope.
func (d *Driver) doInternal(op string, params interface{}, method, url string) (string, json.RawMessage, error) {
	log := d.Logger.With().Str("op", op).Logger()
	log.Debug().Str("method", method).Str("url", url).Msg(">>")
	var jsonParams []byte
	var err error
	if method == http.MethodPost {
		if params == nil {
			params = map[string]interface{}{}
		}
		jsonParams, err = json.Marshal(params)
		if err != nil {
			return "", nil, &Error{Kind: KindProtocol, Op: op, Err: err}
		}
	}
	request, err := newRequest(method, url, jsonParams)
	if err != nil {
		return "", nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	response, err := d.client().Do(request)
	if err != nil {
		return "", nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer response.Body.Close()
	log.Debug().Int("code", response.StatusCode).Msg("response")
	// a client that does not follow POST redirects (POST /session) hands us the 30x
	if method == http.MethodPost && isRedirect(response) {
		location, err := response.Location()
		if err != nil {
			return "", nil, &Error{Kind: KindProtocol, Op: op, Err: err}
		}
		log.Debug().Str("location", location.String()).Msg("redirected")
		return d.doInternal(op, nil, http.MethodGet, location.String())
	}

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return "", nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	log.Debug().Str("body", head(buf, 1024)).Msg("<<")

	jr := envelope{}
	err = json.Unmarshal(buf, &jr)
	if err != nil && response.StatusCode < 400 {
		return "", nil, &Error{Kind: KindProtocol, Op: op, Err: fmt.Errorf("response must be a JSON object: %w", err)}
	}
	if response.StatusCode >= 400 || jr.Status != Success {
		return "", nil, &Error{Kind: KindProtocol, Op: op, Err: parseError(response.StatusCode, jr, buf)}
	}
	var sessionId string
	if len(jr.RawSessionId) > 0 && string(jr.RawSessionId) != "null" {
		if err := json.Unmarshal(jr.RawSessionId, &sessionId); err != nil {
			return "", nil, &Error{Kind: KindProtocol, Op: op, Err: fmt.Errorf("sessionId must be a string: %w", err)}
		}
	}
	return sessionId, jr.RawValue, nil
}

// decode unmarshals an envelope value into v, reporting failures as protocol errors.
func decode(op string, data json.RawMessage, v interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return &Error{Kind: KindProtocol, Op: op, Err: errors.New("response has no value")}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindProtocol, Op: op, Err: err}
	}
	return nil
}

//Query the server's status.
func (d *Driver) Status() (*Status, error) {
	_, data, err := d.do("status", nil, http.MethodGet, "/status")
	if err != nil {
		return nil, err
	}
	status := &Status{}
	if err := decode("status", data, status); err != nil {
		return nil, err
	}
	return status, nil
}
