// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"github.com/expirable-token/expirad/account"
)

// internal constants
const (
	queueSize = 1000
)

// Event - a committed balance movement
//
// a mint has From set to account.Nobody, a burn has To set to
// account.Nobody
type Event struct {
	From   account.Account
	To     account.Account
	Amount uint64
	Block  uint64
}

var (
	// for queueing events
	queue = make(chan Event, queueSize)
)

// Send - queue an event, dropping it if no listener is keeping up
func Send(event Event) {
	select {
	case queue <- event:
	default:
	}
}

// Chan - channel to read from
func Chan() <-chan Event {
	return queue
}
