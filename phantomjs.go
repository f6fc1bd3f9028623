// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/phayes/freeport"
	"github.com/rs/zerolog"
)

// PhantomJS runs a phantomjs binary in webdriver mode and serves as the
// Driver for sessions opened on it.
type PhantomJS struct {
	Driver
	//The port GhostDriver listens on. Default: 0, pick a free port on Start.
	Port int
	//The path GhostDriver writes its own log to. Default: "" (phantomjs default)
	LogPath string
	//GhostDriver log level (ERROR, WARN, INFO, DEBUG). Default: INFO
	LogLevel string
	// Log file to dump phantomjs stdout/stderr. If "" send to terminal. Default: ""
	LogFile string
	// Start method fails if phantomjs doesn't listen in less than StartTimeout. Default 20s.
	StartTimeout time.Duration

	path    string
	cmd     *exec.Cmd
	logFile *os.File
}

//create a new service using the phantomjs binary at path.
func NewPhantomJS(path string) *PhantomJS {
	d := &PhantomJS{}
	d.path = path
	d.Logger = zerolog.Nop()
	d.LogLevel = "INFO"
	d.StartTimeout = 20 * time.Second
	return d
}

// args returns the command line switches for the current settings.
func (d *PhantomJS) args() []string {
	switches := []string{"--webdriver=127.0.0.1:" + strconv.Itoa(d.Port)}
	if d.LogPath != "" {
		switches = append(switches, "--webdriver-logfile="+d.LogPath)
	}
	if d.LogLevel != "" {
		switches = append(switches, "--webdriver-loglevel="+d.LogLevel)
	}
	return switches
}

func (d *PhantomJS) Start() error {
	psferr := "phantomjs start failed: "
	if d.cmd != nil {
		return errors.New(psferr + "phantomjs already running")
	}
	if d.Port == 0 {
		port, err := freeport.GetFreePort()
		if err != nil {
			return errors.New(psferr + "no free port: " + err.Error())
		}
		d.Port = port
	}
	d.URL = fmt.Sprintf("http://127.0.0.1:%d", d.Port)

	cmd := exec.Command(d.path, d.args()...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if d.LogFile != "" {
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		logFile, err := os.OpenFile(d.LogFile, flags, 0640)
		if err != nil {
			return errors.New(psferr + err.Error())
		}
		d.logFile = logFile
		cmd.Stdout, cmd.Stderr = logFile, logFile
	}
	if err := cmd.Start(); err != nil {
		d.closeLog()
		return errors.New(psferr + err.Error())
	}
	d.cmd = cmd
	d.Logger.Debug().Str("path", d.path).Int("port", d.Port).Msg("phantomjs started")
	if err := probePort(d.Port, d.StartTimeout); err != nil {
		d.Stop()
		return errors.New(psferr + err.Error())
	}
	return nil
}

func (d *PhantomJS) Stop() error {
	if d.cmd == nil {
		return errors.New("stop failed: phantomjs not running")
	}
	defer func() {
		d.cmd = nil
	}()
	if err := d.cmd.Process.Signal(os.Interrupt); err != nil {
		d.cmd.Process.Kill()
	}
	d.cmd.Wait()
	d.closeLog()
	return nil
}

func (d *PhantomJS) closeLog() {
	if d.logFile != nil {
		d.logFile.Close()
		d.logFile = nil
	}
}
