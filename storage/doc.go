// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the on-disk ledger store
//
// A single LevelDB database split into a series of pools.  Each pool
// is defined by a prefix byte obtained from the prefix tag in the
// struct defining the available pools.
//
// Notes:
// 1. each pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++            = concatenation of byte data
// 3. account       = ledger identity (32 bytes)
// 4. era, slot     = time partition coordinates, big endian uint64 (8 bytes)
// 5. block         = creation block number, big endian uint64 (8 bytes)
// 6. amount, total = big endian uint64 (8 bytes)
//
// Buckets:
//
//	B ++ account ++ era ++ slot          - per bucket aggregate
//	                                       data: amount
//
// Entries:
//
//	E ++ account ++ era ++ slot ++ block - node of the bucket's ordered
//	                                       expiry index, a circular doubly
//	                                       linked list over creation blocks
//	                                       with the block 0 node as sentinel
//	                                       data: prev ++ next ++ amount
//
// Clock:
//
//	C ++ 'N'                             - last persisted block height
//	                                       data: height (big endian uint64)
//
// World totals:
//
//	W ++ block                           - total ever minted at one block
//	                                       data: total
//
// Testing:
//
//	Z ++ key                             - testing data
//
// All writes are staged in a transaction (LevelDB batch plus a cache
// overlay providing read-your-writes) and land atomically on commit.
// The ledger is single-writer: one transaction at a time.
package storage
