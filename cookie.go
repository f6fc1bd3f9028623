// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"net/http"
	"time"
)

// Cookie is the wire form of a cookie. Nil fields are absent from the JSON.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Path     *string `json:"path,omitempty"`
	Domain   *string `json:"domain,omitempty"`
	Secure   *bool   `json:"secure,omitempty"`
	HttpOnly *bool   `json:"httpOnly,omitempty"`
	// Expiry in seconds since the Unix epoch.
	Expiry *int64 `json:"expiry,omitempty"`
}

// CookieFromHTTP converts c to its wire form. Secure and HttpOnly are always
// sent; path and domain only when set, expiry only when Expires is set.
func CookieFromHTTP(c *http.Cookie) Cookie {
	cookie := Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Secure:   ptr(c.Secure),
		HttpOnly: ptr(c.HttpOnly),
	}
	if c.Path != "" {
		cookie.Path = ptr(c.Path)
	}
	if c.Domain != "" {
		cookie.Domain = ptr(c.Domain)
	}
	if !c.Expires.IsZero() {
		cookie.Expiry = ptr(c.Expires.Unix())
	}
	return cookie
}

// HTTPCookie converts the wire form back to an *http.Cookie.
func (c Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{Name: c.Name, Value: c.Value}
	if c.Path != nil {
		hc.Path = *c.Path
	}
	if c.Domain != nil {
		hc.Domain = *c.Domain
	}
	if c.Secure != nil {
		hc.Secure = *c.Secure
	}
	if c.HttpOnly != nil {
		hc.HttpOnly = *c.HttpOnly
	}
	if c.Expiry != nil {
		hc.Expires = time.Unix(*c.Expiry, 0)
	}
	return hc
}

func ptr[T any](v T) *T { return &v }
