// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/messagebus"
	"github.com/expirable-token/expirad/storage"
	"github.com/expirable-token/expirad/timeline"
)

// retry parameters for acquiring the staged database transaction; the
// clock persist of another goroutine holds it only briefly
const (
	trxAttempts = 10
	trxBackoff  = 10 * time.Millisecond
)

// acquire the staged transaction, waiting out a concurrent holder
func newDBTransaction() (storage.Transaction, error) {
	var trx storage.Transaction
	var err error
	for i := 0; i < trxAttempts; i += 1 {
		trx, err = storage.NewDBTransaction()
		if fault.TransactionAlreadyInUse != err {
			return trx, err
		}
		time.Sleep(trxBackoff)
	}
	return nil, err
}

// one debited slice of an entry, the unit a transfer credits onward
//
// the creation block is preserved so the credited value expires
// exactly when the debited value would have
type movement struct {
	block  uint64
	era    uint64
	slot   uint64
	amount uint64
}

// Mint - create new value stamped with the supplied block
func Mint(owner account.Account, amount uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	err = mintTo(trx, owner, amount, block)
	if nil != err {
		trx.Abort()
		return err
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	if amount > 0 {
		messagebus.Send(messagebus.Event{
			From:   account.Nobody,
			To:     owner,
			Amount: amount,
			Block:  block,
		})
	}
	return nil
}

// MintBatch - mint to several accounts in one atomic operation
func MintBatch(owners []account.Account, amounts []uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if len(owners) != len(amounts) {
		return fault.LengthMismatch
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	for i, owner := range owners {
		err = mintTo(trx, owner, amounts[i], block)
		if nil != err {
			trx.Abort()
			return err
		}
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	for i, owner := range owners {
		if amounts[i] > 0 {
			messagebus.Send(messagebus.Event{
				From:   account.Nobody,
				To:     owner,
				Amount: amounts[i],
				Block:  block,
			})
		}
	}
	return nil
}

// stage one mint
func mintTo(trx storage.Transaction, owner account.Account, amount uint64, block uint64) error {
	if owner.IsZero() {
		return fault.InvalidAccount
	}
	if timeline.SentinelBlock == block {
		return fault.InvalidCreationBlock
	}
	if 0 == amount {
		return nil
	}

	era, slot := globalData.partition.EraAndSlot(block)
	key := bucketKey(owner, era, slot)

	err := timeline.New(trx, storage.Pool.Entries, key).Add(block, amount)
	if nil != err {
		return err
	}
	err = addN(trx, storage.Pool.Buckets, key, amount)
	if nil != err {
		return err
	}
	return addN(trx, storage.Pool.WorldTotal, worldKey(block), amount)
}

// Burn - destroy value, oldest live entries first
func Burn(owner account.Account, amount uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if owner.IsZero() {
		return fault.InvalidAccount
	}
	if 0 == amount {
		return nil
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	movements, err := spendWindow(trx, owner, amount, block)
	if nil != err {
		trx.Abort()
		return err
	}
	for _, m := range movements {
		subN(trx, storage.Pool.WorldTotal, worldKey(m.block), m.amount)
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	messagebus.Send(messagebus.Event{
		From:   owner,
		To:     account.Nobody,
		Amount: amount,
		Block:  block,
	})
	return nil
}

// Transfer - move value, oldest live entries first
//
// the moved value keeps its original creation blocks
func Transfer(from account.Account, to account.Account, amount uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	err = transferTo(trx, from, to, amount, block)
	if nil != err {
		trx.Abort()
		return err
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	if amount > 0 {
		messagebus.Send(messagebus.Event{
			From:   from,
			To:     to,
			Amount: amount,
			Block:  block,
		})
	}
	return nil
}

// TransferBatch - several transfers from one account in one atomic
// operation
func TransferBatch(from account.Account, tos []account.Account, amounts []uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if len(tos) != len(amounts) {
		return fault.LengthMismatch
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	for i, to := range tos {
		err = transferTo(trx, from, to, amounts[i], block)
		if nil != err {
			trx.Abort()
			return err
		}
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	for i, to := range tos {
		if amounts[i] > 0 {
			messagebus.Send(messagebus.Event{
				From:   from,
				To:     to,
				Amount: amounts[i],
				Block:  block,
			})
		}
	}
	return nil
}

// stage one transfer
func transferTo(trx storage.Transaction, from account.Account, to account.Account, amount uint64, block uint64) error {
	if from.IsZero() || to.IsZero() {
		return fault.InvalidAccount
	}
	if 0 == amount {
		return nil
	}

	movements, err := spendWindow(trx, from, amount, block)
	if nil != err {
		return err
	}
	return credit(trx, to, movements)
}

// TransferAtEpoch - move value taken from a single epoch's bucket
//
// fails if the epoch is already expired or not yet reached
func TransferAtEpoch(from account.Account, to account.Account, epochNumber uint64, amount uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if from.IsZero() || to.IsZero() {
		return fault.InvalidAccount
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	movements, err := spendEpoch(trx, from, epochNumber, amount, block)
	if nil != err {
		trx.Abort()
		return err
	}
	err = credit(trx, to, movements)
	if nil != err {
		trx.Abort()
		return err
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	if amount > 0 {
		messagebus.Send(messagebus.Event{
			From:   from,
			To:     to,
			Amount: amount,
			Block:  block,
		})
	}
	return nil
}

// BurnAtEpoch - destroy value taken from a single epoch's bucket
func BurnAtEpoch(owner account.Account, epochNumber uint64, amount uint64, block uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if owner.IsZero() {
		return fault.InvalidAccount
	}

	trx, err := newDBTransaction()
	if nil != err {
		return err
	}

	movements, err := spendEpoch(trx, owner, epochNumber, amount, block)
	if nil != err {
		trx.Abort()
		return err
	}
	for _, m := range movements {
		subN(trx, storage.Pool.WorldTotal, worldKey(m.block), m.amount)
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	if amount > 0 {
		messagebus.Send(messagebus.Event{
			From:   owner,
			To:     account.Nobody,
			Amount: amount,
			Block:  block,
		})
	}
	return nil
}

// debit oldest first across the whole live window
//
// walks the window slot by slot, wrapping eras, until the amount is
// satisfied; returns the debited slices for crediting or world total
// adjustment
func spendWindow(trx storage.Transaction, owner account.Account, amount uint64, block uint64) ([]movement, error) {

	fromEra, fromSlot, toEra, toSlot := globalData.partition.Window(block)
	low := globalData.partition.LowestLiveBlock(block)

	movements := []movement{}
	remaining := amount

	era := fromEra
	slot := fromSlot
	for {
		// only the window's oldest bucket can still hold expired entries
		prune := era == fromEra && slot == fromSlot

		movements, remaining = spendBucket(trx, owner, era, slot, low, prune, remaining, movements)
		if 0 == remaining {
			return movements, nil
		}
		if era == toEra && slot == toSlot {
			break
		}
		era, slot = globalData.partition.NextSlot(era, slot)
	}

	globalData.log.Warnf("insufficient balance: account: %s  requested: %d  unsatisfied: %d  block: %d",
		owner, amount, remaining, block)
	return nil, fault.InsufficientBalance
}

// debit oldest first within the single bucket of one epoch
func spendEpoch(trx storage.Transaction, owner account.Account, epochNumber uint64, amount uint64, block uint64) ([]movement, error) {

	if globalData.partition.IsEpochExpired(epochNumber, block) {
		return nil, fault.ExpiredEpoch
	}
	if epochNumber > globalData.partition.Epoch(block) {
		return nil, fault.InvalidEpoch
	}
	if 0 == amount {
		return []movement{}, nil
	}

	low := globalData.partition.LowestLiveBlock(block)
	era, slot := globalData.partition.EpochPosition(epochNumber)

	// only the window's oldest epoch can still hold expired entries
	prune := epochNumber == globalData.partition.Epoch(low)

	movements, remaining := spendBucket(trx, owner, era, slot, low, prune, amount, []movement{})
	if remaining > 0 {
		globalData.log.Warnf("insufficient balance: account: %s  epoch: %d  requested: %d  unsatisfied: %d  block: %d",
			owner, epochNumber, amount, remaining, block)
		return nil, fault.InsufficientBalance
	}
	return movements, nil
}

// debit up to remaining from one bucket, oldest entry first
//
// pruning removes entries whose creation block is before low, the
// oldest block still live; their value is gone for good but the
// world total keeps the full stamped amount so that expired value
// remains visible to introspection
func spendBucket(trx storage.Transaction, owner account.Account, era uint64, slot uint64, low uint64, prune bool, remaining uint64, movements []movement) ([]movement, uint64) {

	key := bucketKey(owner, era, slot)
	list := timeline.New(trx, storage.Pool.Entries, key)

	if prune {
		pruned := list.ShrinkTo(low)
		if pruned > 0 {
			subN(trx, storage.Pool.Buckets, key, pruned)
		}
	}

	for block := list.Head(); timeline.SentinelBlock != block && remaining > 0; {
		value, ok := list.Amount(block)
		if !ok {
			fault.Panicf("ledger: missing entry: bucket: %x  block: %d", key, block)
		}

		if value <= remaining {
			next := list.Next(block)
			list.Remove(block)
			subN(trx, storage.Pool.Buckets, key, value)
			movements = append(movements, movement{
				block:  block,
				era:    era,
				slot:   slot,
				amount: value,
			})
			remaining -= value
			block = next
		} else {
			list.SetAmount(block, value-remaining)
			subN(trx, storage.Pool.Buckets, key, remaining)
			movements = append(movements, movement{
				block:  block,
				era:    era,
				slot:   slot,
				amount: remaining,
			})
			remaining = 0
		}
	}

	return movements, remaining
}

// credit debited slices to the recipient, merging entries that share
// a creation block
func credit(trx storage.Transaction, to account.Account, movements []movement) error {
	for _, m := range movements {
		key := bucketKey(to, m.era, m.slot)
		err := timeline.New(trx, storage.Pool.Entries, key).Add(m.block, m.amount)
		if nil != err {
			return err
		}
		err = addN(trx, storage.Pool.Buckets, key, m.amount)
		if nil != err {
			return err
		}
	}
	return nil
}

// increment a stored big endian counter, creating it at delta
//
// an overflowing counter would silently destroy value so it is
// rejected before anything is staged
func addN(trx storage.Transaction, pool *storage.PoolHandle, key []byte, delta uint64) error {
	current, _ := trx.GetN(pool, key)
	if current+delta < current {
		return fault.BalanceOverflow
	}
	trx.PutN(pool, key, current+delta)
	return nil
}

// decrement a stored big endian counter, deleting it at zero
//
// an underflow means the aggregates disagree with the entries, which
// is database corruption
func subN(trx storage.Transaction, pool *storage.PoolHandle, key []byte, delta uint64) {
	current, ok := trx.GetN(pool, key)
	if !ok || current < delta {
		fault.Panicf("ledger: counter underflow: key: %x  current: %d  delta: %d", key, current, delta)
	}
	if current == delta {
		trx.Delete(pool, key)
	} else {
		trx.PutN(pool, key, current-delta)
	}
}
