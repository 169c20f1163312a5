// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/epoch"
	"github.com/expirable-token/expirad/fault"
)

// globals for ledger
type ledgerData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	partition *epoch.Partition

	// set once during initialise
	initialised bool
}

// global data
var globalData ledgerData

// Initialise - setup the ledger with a validated time partitioning
func Initialise(partition *epoch.Partition) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("ledger")
	globalData.log = log
	log.Info("starting…")

	globalData.partition = partition

	log.Infof("blocks per slot: %d", partition.BlocksPerSlot())
	log.Infof("slots per era: %d", partition.SlotsPerEra())
	log.Infof("validity: %d slots = %d blocks", partition.ValiditySlots(), partition.ValidityBlocks())

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - shutdown the ledger
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Partition - the time partitioning in force
func Partition() *epoch.Partition {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.partition
}

// storage key of the bucket holding entries created in (era, slot)
func bucketKey(owner account.Account, era uint64, slot uint64) []byte {
	key := make([]byte, account.IdentitySize+16)
	copy(key, owner.Bytes())
	binary.BigEndian.PutUint64(key[account.IdentitySize:], era)
	binary.BigEndian.PutUint64(key[account.IdentitySize+8:], slot)
	return key
}

// storage key of the world total stamped at one block
func worldKey(block uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, block)
	return key
}
