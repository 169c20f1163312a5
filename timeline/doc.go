// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package timeline - the ordered expiry index of one bucket
//
// A sorted set of creation block numbers held as a circular doubly
// linked list embedded in the Entries storage pool.  Each node is
// keyed by bucket ++ block and stores:
//
//	prev ++ next ++ amount   (3 × big endian uint64)
//
// The node at block 0 is the sentinel: its next is the oldest entry
// (the head) and its prev is the newest (the tail).  Block 0 is
// therefore never a valid creation block.  An empty list has no
// records at all.
//
// Linking and unlinking are a constant number of storage operations.
// Insertion searches for its position from the tail backwards, which
// is a single step in the common append case (a new entry is always
// the newest of its bucket at mint time).
//
// Amounts only ever decrease once created; an increase only happens
// by merging a credit into an existing creation block.  The caller
// owns aggregate bookkeeping.
package timeline
