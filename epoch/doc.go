// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package epoch - time partitioning for the expirable ledger
//
// The block number line is divided into fixed-size slots and the
// slots are grouped into eras:
//
//	slot(t) = (t / blocksPerSlot) mod slotsPerEra
//	era(t)  =  t / blocksPerSlot  /   slotsPerEra
//
// an "epoch" is the absolute slot number t / blocksPerSlot, i.e. the
// (era, slot) pair flattened to a single ordinal.
//
// A balance entry created at block b is expired at block t when:
//
//	t - b >= validitySlots * blocksPerSlot
//
// The live window of a reference block is the inclusive range of
// (era, slot) pairs holding at least one possibly-live block.  The
// window always spans whole slots so its width in blocks is at least
// the validity duration and less than the validity duration plus one
// slot.
//
// With slotsPerEra = 1 the partitioning degenerates to a flat
// absolute window of validitySlots slots.
package epoch
