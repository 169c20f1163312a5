// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package timeline

import (
	"encoding/binary"

	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/storage"
)

// SentinelBlock - the reserved list terminator key
const SentinelBlock uint64 = 0

// node record layout
const (
	prevStart   = 0
	nextStart   = 8
	amountStart = 16
	nodeSize    = 24
)

// List - ordered expiry index of one bucket
//
// created by New for mutation inside a transaction, or by NewReader
// for pure reads outside any transaction
type List struct {
	trx    storage.Transaction
	pool   *storage.PoolHandle
	bucket []byte
}

// New - attach to a bucket's index for mutation
func New(trx storage.Transaction, pool *storage.PoolHandle, bucket []byte) *List {
	return &List{
		trx:    trx,
		pool:   pool,
		bucket: bucket,
	}
}

// NewReader - attach to a bucket's index for reading only
func NewReader(pool *storage.PoolHandle, bucket []byte) *List {
	return &List{
		trx:    nil,
		pool:   pool,
		bucket: bucket,
	}
}

// full storage key of one node
func (l *List) nodeKey(block uint64) []byte {
	key := make([]byte, 0, len(l.bucket)+8)
	key = append(key, l.bucket...)

	blockBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(blockBytes, block)
	return append(key, blockBytes...)
}

// read a node record
func (l *List) getNode(block uint64) (prev uint64, next uint64, amount uint64, found bool) {
	var buffer []byte
	if nil == l.trx {
		buffer = l.pool.Get(l.nodeKey(block))
	} else {
		buffer = l.trx.Get(l.pool, l.nodeKey(block))
	}
	if nil == buffer {
		return 0, 0, 0, false
	}
	if nodeSize != len(buffer) {
		fault.Panicf("timeline: truncated node for block: %d: %x", block, buffer)
	}
	prev = binary.BigEndian.Uint64(buffer[prevStart : prevStart+8])
	next = binary.BigEndian.Uint64(buffer[nextStart : nextStart+8])
	amount = binary.BigEndian.Uint64(buffer[amountStart : amountStart+8])
	return prev, next, amount, true
}

// write a node record
func (l *List) putNode(block uint64, prev uint64, next uint64, amount uint64) {
	if nil == l.trx {
		fault.Panic("timeline: mutation outside a transaction")
	}
	buffer := make([]byte, nodeSize)
	binary.BigEndian.PutUint64(buffer[prevStart:], prev)
	binary.BigEndian.PutUint64(buffer[nextStart:], next)
	binary.BigEndian.PutUint64(buffer[amountStart:], amount)
	l.trx.Put(l.pool, l.nodeKey(block), buffer)
}

// delete a node record
func (l *List) deleteNode(block uint64) {
	if nil == l.trx {
		fault.Panic("timeline: mutation outside a transaction")
	}
	l.trx.Delete(l.pool, l.nodeKey(block))
}

// Head - oldest creation block in the list
//
// returns SentinelBlock if the list is empty
func (l *List) Head() uint64 {
	_, next, _, found := l.getNode(SentinelBlock)
	if !found {
		return SentinelBlock
	}
	return next
}

// Tail - newest creation block in the list
//
// returns SentinelBlock if the list is empty
func (l *List) Tail() uint64 {
	prev, _, _, found := l.getNode(SentinelBlock)
	if !found {
		return SentinelBlock
	}
	return prev
}

// Next - creation block after the given one
//
// returns SentinelBlock at the end of the list
func (l *List) Next(block uint64) uint64 {
	_, next, _, found := l.getNode(block)
	if !found {
		return SentinelBlock
	}
	return next
}

// Previous - creation block before the given one
//
// returns SentinelBlock at the start of the list
func (l *List) Previous(block uint64) uint64 {
	prev, _, _, found := l.getNode(block)
	if !found {
		return SentinelBlock
	}
	return prev
}

// Amount - current amount of one entry
//
// second return is false if the creation block is not present
func (l *List) Amount(block uint64) (uint64, bool) {
	if SentinelBlock == block {
		return 0, false
	}
	_, _, amount, found := l.getNode(block)
	return amount, found
}

// IsEmpty - true if the list holds no entries
func (l *List) IsEmpty() bool {
	return SentinelBlock == l.Head()
}

// Add - merge an amount into the entry at a creation block
//
// inserts a new node at its sorted position if the block is not
// already present; adds to the existing amount if it is
func (l *List) Add(block uint64, amount uint64) error {
	if SentinelBlock == block {
		return fault.InvalidCreationBlock
	}

	prev, next, existing, found := l.getNode(block)
	if found {
		if existing+amount < existing {
			return fault.BalanceOverflow
		}
		l.putNode(block, prev, next, existing+amount)
		return nil
	}

	sentinelPrev, sentinelNext, _, sentinelFound := l.getNode(SentinelBlock)
	if !sentinelFound {
		// first entry of the bucket: a one element ring
		l.putNode(SentinelBlock, block, block, 0)
		l.putNode(block, SentinelBlock, SentinelBlock, amount)
		return nil
	}

	// search the insertion point from the newest end; a freshly
	// minted entry is the newest of its bucket so this is one step
	after := sentinelPrev // insert after this node
	for SentinelBlock != after && after > block {
		afterPrev, _, _, ok := l.getNode(after)
		if !ok {
			fault.Panicf("timeline: broken link at block: %d", after)
		}
		after = afterPrev
	}

	if SentinelBlock == after {
		// new oldest entry
		oldHead := sentinelNext
		l.putNode(block, SentinelBlock, oldHead, amount)
		l.relinkPrev(oldHead, block)
		l.relinkNext(SentinelBlock, block)
		return nil
	}

	afterPrev, afterNext, afterAmount, _ := l.getNode(after)
	l.putNode(block, after, afterNext, amount)
	l.putNode(after, afterPrev, block, afterAmount)
	l.relinkPrev(afterNext, block)
	return nil
}

// SetAmount - replace the amount of an existing entry
//
// the entry must exist; used for partial spends
func (l *List) SetAmount(block uint64, amount uint64) {
	prev, next, _, found := l.getNode(block)
	if !found {
		fault.Panicf("timeline: SetAmount of missing block: %d", block)
	}
	l.putNode(block, prev, next, amount)
}

// Remove - unlink and delete one entry
//
// no-op if the creation block is not present
func (l *List) Remove(block uint64) {
	if SentinelBlock == block {
		return
	}
	prev, next, _, found := l.getNode(block)
	if !found {
		return
	}

	l.deleteNode(block)

	if SentinelBlock == prev && SentinelBlock == next {
		// the ring is now empty; drop the sentinel as well
		l.deleteNode(SentinelBlock)
		return
	}

	l.relinkNext(prev, next)
	l.relinkPrev(next, prev)
}

// ShrinkTo - remove every entry strictly before a creation block
//
// returns the total amount removed; used to prune expired entries in
// one pass
func (l *List) ShrinkTo(block uint64) uint64 {

	sentinelPrev, sentinelNext, _, found := l.getNode(SentinelBlock)
	if !found {
		return 0
	}

	removed := uint64(0)
	current := sentinelNext
	for SentinelBlock != current && current < block {
		_, next, amount, ok := l.getNode(current)
		if !ok {
			fault.Panicf("timeline: broken link at block: %d", current)
		}
		removed += amount
		l.deleteNode(current)
		current = next
	}

	if current == sentinelNext {
		// nothing removed
		return 0
	}

	if SentinelBlock == current {
		// everything removed
		l.deleteNode(SentinelBlock)
		return removed
	}

	// current is the new oldest entry
	l.putNode(SentinelBlock, sentinelPrev, current, 0)
	l.relinkPrev(current, SentinelBlock)
	return removed
}

// update only the next pointer of a node (which may be the sentinel)
func (l *List) relinkNext(block uint64, next uint64) {
	prev, _, amount, found := l.getNode(block)
	if !found {
		fault.Panicf("timeline: relinkNext of missing block: %d", block)
	}
	l.putNode(block, prev, next, amount)
}

// update only the prev pointer of a node (which may be the sentinel)
func (l *List) relinkPrev(block uint64, prev uint64) {
	_, next, amount, found := l.getNode(block)
	if !found {
		fault.Panicf("timeline: relinkPrev of missing block: %d", block)
	}
	l.putNode(block, prev, next, amount)
}
