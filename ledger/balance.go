// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/storage"
	"github.com/expirable-token/expirad/timeline"
)

// BalanceOf - the spendable balance at a reference block
//
// only the window's oldest bucket is walked entry by entry to filter
// out expired value; every newer bucket in the window is wholly live
// so its stored aggregate is used directly
func BalanceOf(owner account.Account, block uint64) uint64 {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return 0
	}

	fromEra, fromSlot, toEra, toSlot := globalData.partition.Window(block)
	low := globalData.partition.LowestLiveBlock(block)

	total := bufferedBalance(owner, fromEra, fromSlot, low)

	era := fromEra
	slot := fromSlot
	for era != toEra || slot != toSlot {
		era, slot = globalData.partition.NextSlot(era, slot)
		aggregate, ok := storage.Pool.Buckets.GetN(bucketKey(owner, era, slot))
		if ok {
			total += aggregate
		}
	}
	return total
}

// BalanceOfAtEpoch - the spendable balance inside a single epoch's
// bucket at a reference block
//
// an expired or not yet reached epoch reports zero
func BalanceOfAtEpoch(owner account.Account, epochNumber uint64, block uint64) uint64 {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return 0
	}

	if globalData.partition.IsEpochExpired(epochNumber, block) {
		return 0
	}
	if epochNumber > globalData.partition.Epoch(block) {
		return 0
	}

	low := globalData.partition.LowestLiveBlock(block)
	era, slot := globalData.partition.EpochPosition(epochNumber)

	// the window's oldest epoch needs the per entry age filter
	if epochNumber == globalData.partition.Epoch(low) {
		return bufferedBalance(owner, era, slot, low)
	}

	aggregate, _ := storage.Pool.Buckets.GetN(bucketKey(owner, era, slot))
	return aggregate
}

// TotalStamped - world total still stamped at one creation block
//
// introspection only: the value drops on burn but not on expiry, so
// the sum over all blocks is an upper bound on the sum of balances
func TotalStamped(block uint64) uint64 {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return 0
	}

	total, _ := storage.Pool.WorldTotal.GetN(worldKey(block))
	return total
}

// sum the live entries of one bucket without mutating it
func bufferedBalance(owner account.Account, era uint64, slot uint64, low uint64) uint64 {
	list := timeline.NewReader(storage.Pool.Entries, bucketKey(owner, era, slot))

	total := uint64(0)
	for block := list.Head(); timeline.SentinelBlock != block; block = list.Next(block) {
		if block >= low {
			amount, _ := list.Amount(block)
			total += amount
		}
	}
	return total
}
