// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package epoch_test

import (
	"testing"

	"github.com/expirable-token/expirad/epoch"
	"github.com/expirable-token/expirad/fault"
)

// construction must reject out of bounds geometry
func TestNewValidation(t *testing.T) {

	testList := []struct {
		blocksPerSlot uint64
		slotsPerEra   uint64
		validitySlots uint64
		err           error
	}{
		{1, 1, 1, nil},
		{1, 24, 3, nil},
		{epoch.MaximumBlocksPerSlot, epoch.MaximumSlotsPerEra, epoch.MaximumValiditySlots, nil},
		{0, 24, 3, fault.InvalidBlocksPerSlot},
		{epoch.MaximumBlocksPerSlot + 1, 24, 3, fault.InvalidBlocksPerSlot},
		{1, 0, 3, fault.InvalidSlotsPerEra},
		{1, epoch.MaximumSlotsPerEra + 1, 3, fault.InvalidSlotsPerEra},
		{1, 24, 0, fault.InvalidValidityWindow},
		{1, 24, epoch.MaximumValiditySlots + 1, fault.InvalidValidityWindow},
	}

	for i, item := range testList {
		_, err := epoch.New(item.blocksPerSlot, item.slotsPerEra, item.validitySlots)
		if item.err != err {
			t.Errorf("%d: expected error: %v  actual: %v", i, item.err, err)
		}
	}
}

// era and slot arithmetic
func TestEraAndSlot(t *testing.T) {

	// 2 blocks per slot, 4 slots per era
	p, err := epoch.New(2, 4, 3)
	if nil != err {
		t.Fatalf("new error: %s", err)
	}

	testList := []struct {
		block uint64
		era   uint64
		slot  uint64
		epoch uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{2, 0, 1, 1},
		{7, 0, 3, 3},
		{8, 1, 0, 4},
		{15, 1, 3, 7},
		{16, 2, 0, 8},
	}

	for i, item := range testList {
		era, slot := p.EraAndSlot(item.block)
		if era != item.era || slot != item.slot {
			t.Errorf("%d: block %d expected: (%d, %d)  actual: (%d, %d)",
				i, item.block, item.era, item.slot, era, slot)
		}
		if e := p.Epoch(item.block); e != item.epoch {
			t.Errorf("%d: block %d epoch expected: %d  actual: %d", i, item.block, item.epoch, e)
		}
		pe, ps := p.EpochPosition(item.epoch)
		if pe != item.era || ps != item.slot {
			t.Errorf("%d: epoch %d expected: (%d, %d)  actual: (%d, %d)",
				i, item.epoch, item.era, item.slot, pe, ps)
		}
	}
}

// window must span whole slots and cover the validity duration
func TestWindow(t *testing.T) {

	// 1 block per slot, 1 slot per era: degenerate flat window
	p, err := epoch.New(1, 1, 3)
	if nil != err {
		t.Fatalf("new error: %s", err)
	}

	testList := []struct {
		block    uint64
		fromEra  uint64
		fromSlot uint64
		toEra    uint64
		toSlot   uint64
	}{
		{0, 0, 0, 0, 0},
		{1, 0, 0, 1, 0},
		{2, 0, 0, 2, 0},
		{3, 1, 0, 3, 0}, // block 0 has aged out
		{4, 2, 0, 4, 0},
	}

	for i, item := range testList {
		fromEra, fromSlot, toEra, toSlot := p.Window(item.block)
		if fromEra != item.fromEra || fromSlot != item.fromSlot ||
			toEra != item.toEra || toSlot != item.toSlot {
			t.Errorf("%d: block %d window expected: (%d,%d)..(%d,%d)  actual: (%d,%d)..(%d,%d)",
				i, item.block,
				item.fromEra, item.fromSlot, item.toEra, item.toSlot,
				fromEra, fromSlot, toEra, toSlot)
		}
	}
}

// window width in slots must be validitySlots or validitySlots + 1
func TestWindowWidth(t *testing.T) {

	p, err := epoch.New(2, 4, 3)
	if nil != err {
		t.Fatalf("new error: %s", err)
	}

	for block := uint64(0); block < 200; block += 1 {
		fromEra, fromSlot, toEra, toSlot := p.Window(block)
		from := fromEra*p.SlotsPerEra() + fromSlot
		to := toEra*p.SlotsPerEra() + toSlot
		if to < from {
			t.Fatalf("block %d: inverted window", block)
		}
		width := to - from + 1
		if width > p.ValiditySlots()+1 {
			t.Errorf("block %d: window too wide: %d slots", block, width)
		}
		// once fully started the window never narrows below validity
		if block >= p.ValidityBlocks() && width < p.ValiditySlots() {
			t.Errorf("block %d: window too narrow: %d slots", block, width)
		}
	}
}

// entry and epoch expiry
func TestExpiry(t *testing.T) {

	p, err := epoch.New(1, 24, 3)
	if nil != err {
		t.Fatalf("new error: %s", err)
	}

	if p.IsExpired(0, 2) {
		t.Error("entry expired too early")
	}
	if !p.IsExpired(0, 3) {
		t.Error("entry not expired at window edge")
	}
	if p.IsExpired(5, 2) {
		t.Error("future entry reported expired")
	}

	if p.IsEpochExpired(0, 2) {
		t.Error("epoch 0 expired too early")
	}
	if !p.IsEpochExpired(0, 3) {
		t.Error("epoch 0 not expired at block 3")
	}
	if p.IsEpochExpired(1, 3) {
		t.Error("epoch 1 wrongly expired at block 3")
	}
}

// slot advance must wrap eras
func TestNextSlot(t *testing.T) {

	p, err := epoch.New(1, 3, 2)
	if nil != err {
		t.Fatalf("new error: %s", err)
	}

	era, slot := p.NextSlot(0, 0)
	if 0 != era || 1 != slot {
		t.Errorf("expected: (0,1)  actual: (%d,%d)", era, slot)
	}
	era, slot = p.NextSlot(0, 2)
	if 1 != era || 0 != slot {
		t.Errorf("expected: (1,0)  actual: (%d,%d)", era, slot)
	}
}
