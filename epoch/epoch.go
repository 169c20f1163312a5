// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package epoch

import (
	"github.com/expirable-token/expirad/fault"
)

// bounds on the geometry so that the worst-case bucket traversal of
// any single operation is statically known
const (
	MinimumBlocksPerSlot = 1
	MaximumBlocksPerSlot = 100000

	MinimumSlotsPerEra = 1
	MaximumSlotsPerEra = 4096

	MinimumValiditySlots = 1
	MaximumValiditySlots = 4096
)

// Partition - validated time partitioning parameters
//
// create with New, the zero value is not usable
type Partition struct {
	blocksPerSlot uint64
	slotsPerEra   uint64
	validitySlots uint64
}

// New - create a partitioning from configuration values
//
// fails if any parameter is outside its documented bounds
func New(blocksPerSlot, slotsPerEra, validitySlots uint64) (*Partition, error) {

	if blocksPerSlot < MinimumBlocksPerSlot || blocksPerSlot > MaximumBlocksPerSlot {
		return nil, fault.InvalidBlocksPerSlot
	}
	if slotsPerEra < MinimumSlotsPerEra || slotsPerEra > MaximumSlotsPerEra {
		return nil, fault.InvalidSlotsPerEra
	}
	if validitySlots < MinimumValiditySlots || validitySlots > MaximumValiditySlots {
		return nil, fault.InvalidValidityWindow
	}

	return &Partition{
		blocksPerSlot: blocksPerSlot,
		slotsPerEra:   slotsPerEra,
		validitySlots: validitySlots,
	}, nil
}

// BlocksPerSlot - blocks in one slot
func (p *Partition) BlocksPerSlot() uint64 {
	return p.blocksPerSlot
}

// SlotsPerEra - slots in one era
func (p *Partition) SlotsPerEra() uint64 {
	return p.slotsPerEra
}

// ValiditySlots - validity window length in slots
func (p *Partition) ValiditySlots() uint64 {
	return p.validitySlots
}

// ValidityBlocks - validity window length in blocks
func (p *Partition) ValidityBlocks() uint64 {
	return p.validitySlots * p.blocksPerSlot
}

// Epoch - absolute slot ordinal of a block
func (p *Partition) Epoch(block uint64) uint64 {
	return block / p.blocksPerSlot
}

// EraAndSlot - map a block number to its (era, slot) pair
func (p *Partition) EraAndSlot(block uint64) (uint64, uint64) {
	epoch := block / p.blocksPerSlot
	return epoch / p.slotsPerEra, epoch % p.slotsPerEra
}

// EpochPosition - map an epoch ordinal to its (era, slot) pair
func (p *Partition) EpochPosition(epoch uint64) (uint64, uint64) {
	return epoch / p.slotsPerEra, epoch % p.slotsPerEra
}

// NextSlot - advance one slot, wrapping into the next era
func (p *Partition) NextSlot(era, slot uint64) (uint64, uint64) {
	slot += 1
	if slot >= p.slotsPerEra {
		return era + 1, 0
	}
	return era, slot
}

// LowestLiveBlock - the oldest block number that is still live at the
// reference block
func (p *Partition) LowestLiveBlock(block uint64) uint64 {
	validity := p.ValidityBlocks()
	if block < validity {
		return 0
	}
	return block - validity + 1
}

// Window - inclusive (era, slot) range still live at the reference block
func (p *Partition) Window(block uint64) (fromEra, fromSlot, toEra, toSlot uint64) {
	fromEra, fromSlot = p.EraAndSlot(p.LowestLiveBlock(block))
	toEra, toSlot = p.EraAndSlot(block)
	return fromEra, fromSlot, toEra, toSlot
}

// IsExpired - true if an entry created at creationBlock is no longer
// spendable at currentBlock
func (p *Partition) IsExpired(creationBlock, currentBlock uint64) bool {
	if creationBlock > currentBlock {
		return false
	}
	return currentBlock-creationBlock >= p.ValidityBlocks()
}

// IsEpochExpired - true if every block of the epoch is outside the
// live window of currentBlock
func (p *Partition) IsEpochExpired(epoch, currentBlock uint64) bool {
	return epoch < p.Epoch(p.LowestLiveBlock(currentBlock))
}
