// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import (
	"errors"
	"fmt"
	"net"
	"time"
)

//probe port until get a reply or timeout is up
func probePort(port int, timeout time.Duration) error {
	address := fmt.Sprintf("127.0.0.1:%d", port)
	now := time.Now()
	for {
		if conn, err := net.DialTimeout("tcp", address, time.Second); err == nil {
			return conn.Close()
		}
		if time.Since(now) > timeout {
			return errors.New("timeout expired")
		}
		time.Sleep(100 * time.Millisecond)
	}
}
