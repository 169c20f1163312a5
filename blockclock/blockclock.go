// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockclock - the monotone block height driving expiry
//
// The height only moves forward while the daemon runs.  It is
// persisted to storage so a restart resumes from the last saved
// value, and can optionally tick forward on a fixed interval.
package blockclock

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/background"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/storage"
)

// key in the clock pool holding the persisted height
var heightKey = []byte{'N'}

// retries when the single database transaction is busy
const (
	persistAttempts = 5
	persistBackoff  = 10 * time.Millisecond
)

// globals for clock
type clockData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	height   uint64        // current block height
	interval time.Duration // zero disables the automatic tick

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData clockData

// Initialise - restore the height from storage and start the
// automatic tick when interval is non-zero
func Initialise(interval time.Duration) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	if interval < 0 {
		return fault.InvalidBlockInterval
	}

	log := logger.New("blockclock")
	globalData.log = log
	log.Info("starting…")

	// block 0 is reserved, a fresh ledger starts at height 1
	height, ok := storage.Pool.Clock.GetN(heightKey)
	if !ok {
		height = 1
	}
	globalData.height = height
	globalData.interval = interval

	log.Infof("block height: %d", globalData.height)

	// all data initialised
	globalData.initialised = true

	processes := background.Processes{}
	if interval > 0 {
		processes = append(processes, &ticker{})
	}
	globalData.background = background.Start(processes, log)

	return nil
}

// Finalise - stop the tick and save the final height
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	globalData.Lock()
	err := persist(globalData.height)
	globalData.initialised = false
	globalData.Unlock()
	if nil != err {
		globalData.log.Errorf("final height save error: %s", err)
	}

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Current - return the current block height
func Current() uint64 {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.height
}

// Advance - move the clock forward one block and return the new
// height
//
// the new height is saved on a best effort basis; a busy database is
// not an error as the next save stores the absolute height anyway
func Advance() uint64 {
	globalData.Lock()
	globalData.height += 1
	height := globalData.height
	globalData.Unlock()

	err := persist(height)
	if nil != err {
		globalData.log.Warnf("height save error: %s", err)
	}

	return height
}

// Set - move the clock to an absolute height
//
// the clock never goes backwards
func Set(height uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if height < globalData.height {
		return fault.BlockHeightWentBackwards
	}
	globalData.height = height

	err := persist(height)
	if nil != err {
		globalData.log.Warnf("height save error: %s", err)
	}

	return nil
}

// save the height, retrying if the shared transaction is busy
func persist(height uint64) error {
	var err error
	for i := 0; i < persistAttempts; i += 1 {
		var trx storage.Transaction
		trx, err = storage.NewDBTransaction()
		if nil == err {
			trx.PutN(storage.Pool.Clock, heightKey, height)
			return trx.Commit()
		}
		if fault.TransactionAlreadyInUse != err {
			return err
		}
		time.Sleep(persistBackoff)
	}
	return err
}

// the automatic tick
type ticker struct{}

func (t *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	log := args.(*logger.L)

	timer := time.NewTicker(globalData.interval)
	defer timer.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-timer.C:
			height := Advance()
			log.Debugf("tick: block height: %d", height)
		}
	}
}
