// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - routines to manage background tasks
package background

import (
	"sync"
)

// Process - the signature of a background process
//
// Run must return when the shutdown channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for controlling a set of background processes
type T struct {
	sync.WaitGroup
	finalise chan struct{}
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		finalise: make(chan struct{}),
	}

	for _, p := range processes {
		register.Add(1)
		go func(p Process) {
			defer register.Done()
			p.Run(args, register.finalise)
		}(p)
	}
	return register
}

// Stop - stop the set of background processes and wait for them to
// finish
func (t *T) Stop() {
	if nil == t {
		return
	}
	close(t.finalise)
	t.Wait()
}
