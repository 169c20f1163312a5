// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the expirable balance ledger
//
// Balances are made of entries stamped with their creation block and
// grouped into one bucket per (account, era, slot).  An entry stops
// being spendable once its age reaches the validity window; it is
// never deleted eagerly, only pruned lazily when a spend or an
// epoch scoped operation touches its bucket.
//
// Spending is strict FIFO: burn and transfer walk the live window
// oldest bucket first and, inside a bucket, oldest entry first.  A
// transferred amount keeps the creation block of the entries it was
// taken from, so expiry travels with the value and not with the
// transfer event.
//
// Every mutation is staged in a single storage transaction and lands
// atomically.  An operation that cannot be satisfied in full, for
// example a transfer exceeding the live balance, leaves no effect at
// all.
package ledger
