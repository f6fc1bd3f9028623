// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ghostdriver drives a headless PhantomJS browser through the JSON
// Wire Protocol served by GhostDriver.
//
// See https://github.com/detro/ghostdriver
//
// Example:
//	err := ghostdriver.Run("localhost", "8910", userAgent, func(s *ghostdriver.Session) error {
//		if err := s.Navigate("http://golang.org"); err != nil {
//			return err
//		}
//		return s.CaptureScreenshot("golang.png")
//	})
//	if err != nil {
//		log.Println(err)
//	}
//
// A session obtained from Create or Driver.NewSession must be closed:
//	session, err := ghostdriver.Create("localhost", "8910", userAgent)
//	if err != nil {
//		return err
//	}
//	defer session.Close()
//
package ghostdriver
