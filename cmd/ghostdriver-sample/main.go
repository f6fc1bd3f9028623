// Command ghostdriver-sample opens a PhantomJS session on a running
// GhostDriver, loads a page, runs a script, stores a screenshot and sets and
// lists cookies.
//
//	phantomjs --webdriver=8910 &
//	ghostdriver-sample -config sample.toml
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	ghostdriver "github.com/nacika-ins/ghostdriver-client"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg := defaultSampleConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadSampleConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.LogLevel).With().Timestamp().Logger()
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("sample failed")
		os.Exit(1)
	}
}

func run(cfg sampleConfig, log zerolog.Logger) error {
	d := ghostdriver.NewDriver(cfg.Host, cfg.Port)
	d.Logger = log
	return d.WithSession(ghostdriver.DesiredCapabilities(cfg.UserAgent), func(s *ghostdriver.Session) error {
		log.Info().Str("session", s.Id).Msg("session created")
		if err := s.Navigate(cfg.URL); err != nil {
			return err
		}
		result, err := s.ExecuteScript(cfg.Script)
		if err != nil {
			return err
		}
		log.Info().Str("result", result).Msg("script executed")
		if err := s.CaptureScreenshot(cfg.Screenshot); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Screenshot).Msg("screenshot saved")
		if err := s.SetCookies(cfg.Cookies); err != nil {
			return err
		}
		cookies, err := s.GetCookies()
		if err != nil {
			return err
		}
		for _, c := range cookies {
			log.Info().Str("name", c.Name).Str("value", c.Value).Msg("cookie")
		}
		return nil
	})
}
