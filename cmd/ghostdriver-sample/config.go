package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_11_0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/46.0.2490.80 Safari/537.36"

type sampleConfig struct {
	Host       string
	Port       string
	UserAgent  string
	URL        string
	Script     string
	Screenshot string
	LogLevel   zerolog.Level
	Cookies    []*http.Cookie
}

func defaultSampleConfig() sampleConfig {
	return sampleConfig{
		Host:       "localhost",
		Port:       "8910",
		UserAgent:  defaultUserAgent,
		URL:        "http://google.com",
		Script:     "document.body.style.backgroundColor = 'red'; return '1';",
		Screenshot: "foo.png",
		LogLevel:   zerolog.InfoLevel,
		Cookies:    []*http.Cookie{{Name: "foo", Value: "bar"}},
	}
}

type fileCookie struct {
	Name     string `toml:"name"`
	Value    string `toml:"value"`
	Path     string `toml:"path"`
	Domain   string `toml:"domain"`
	Secure   bool   `toml:"secure"`
	HttpOnly bool   `toml:"http_only"`
	Expires  string `toml:"expires"`
}

type fileConfig struct {
	Host       string       `toml:"host"`
	Port       string       `toml:"port"`
	UserAgent  string       `toml:"user_agent"`
	URL        string       `toml:"url"`
	Script     string       `toml:"script"`
	Screenshot string       `toml:"screenshot"`
	LogLevel   string       `toml:"log_level"`
	Cookies    []fileCookie `toml:"cookies"`
}

func loadSampleConfig(path string) (sampleConfig, error) {
	cfg := defaultSampleConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return sampleConfig{}, fmt.Errorf("load sample config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("user_agent") {
		cfg.UserAgent = raw.UserAgent
	}
	if meta.IsDefined("url") {
		cfg.URL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("script") {
		cfg.Script = raw.Script
	}
	if meta.IsDefined("screenshot") {
		cfg.Screenshot = strings.TrimSpace(raw.Screenshot)
	}
	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return sampleConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("cookies") {
		cookies := make([]*http.Cookie, 0, len(raw.Cookies))
		for i, c := range raw.Cookies {
			cookie := &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			}
			if v := strings.TrimSpace(c.Expires); v != "" {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return sampleConfig{}, fmt.Errorf("parse cookies[%d].expires: %w", i, err)
				}
				cookie.Expires = t
			}
			cookies = append(cookies, cookie)
		}
		cfg.Cookies = cookies
	}

	return cfg, nil
}
