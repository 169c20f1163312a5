// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package timeline_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/storage"
	"github.com/expirable-token/expirad/timeline"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test"
)

func TestMain(m *testing.M) {
	os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		panic("storage initialise error: " + err.Error())
	}

	result := m.Run()

	storage.Finalise()
	os.RemoveAll(testingDirName)
	os.Exit(result)
}

// distinct bucket per test so lists do not interfere
func testBucket(tag byte) []byte {
	bucket := make([]byte, 48)
	bucket[0] = tag
	return bucket
}

// run a mutation inside a committed transaction
func withList(t *testing.T, bucket []byte, f func(l *timeline.List)) {
	t.Helper()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	f(timeline.New(trx, storage.Pool.Entries, bucket))
	err = trx.Commit()
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}
}

// collect the whole list oldest to newest
func contents(l *timeline.List) ([]uint64, []uint64) {
	blocks := []uint64{}
	amounts := []uint64{}
	for block := l.Head(); timeline.SentinelBlock != block; block = l.Next(block) {
		amount, _ := l.Amount(block)
		blocks = append(blocks, block)
		amounts = append(amounts, amount)
	}
	return blocks, amounts
}

func checkList(t *testing.T, l *timeline.List, expectedBlocks []uint64, expectedAmounts []uint64) {
	t.Helper()

	blocks, amounts := contents(l)
	if len(blocks) != len(expectedBlocks) {
		t.Fatalf("list length expected: %d  actual: %d", len(expectedBlocks), len(blocks))
	}
	for i := range blocks {
		if blocks[i] != expectedBlocks[i] {
			t.Errorf("%d: block expected: %d  actual: %d", i, expectedBlocks[i], blocks[i])
		}
		if amounts[i] != expectedAmounts[i] {
			t.Errorf("%d: amount expected: %d  actual: %d", i, expectedAmounts[i], amounts[i])
		}
	}
}

// out of order adds must come back sorted
func TestAddOrdering(t *testing.T) {
	bucket := testBucket(1)

	withList(t, bucket, func(l *timeline.List) {
		for _, block := range []uint64{50, 10, 30, 70, 20} {
			err := l.Add(block, block*100)
			if nil != err {
				t.Fatalf("add %d error: %s", block, err)
			}
		}
	})

	l := timeline.NewReader(storage.Pool.Entries, bucket)
	checkList(t, l,
		[]uint64{10, 20, 30, 50, 70},
		[]uint64{1000, 2000, 3000, 5000, 7000})

	if 10 != l.Head() {
		t.Errorf("head expected: 10  actual: %d", l.Head())
	}
	if 70 != l.Tail() {
		t.Errorf("tail expected: 70  actual: %d", l.Tail())
	}
	if 50 != l.Previous(70) {
		t.Errorf("previous(70) expected: 50  actual: %d", l.Previous(70))
	}
	if timeline.SentinelBlock != l.Previous(10) {
		t.Errorf("previous(10) expected sentinel  actual: %d", l.Previous(10))
	}
}

// adding an existing block merges the amounts
func TestAddMerge(t *testing.T) {
	bucket := testBucket(2)

	withList(t, bucket, func(l *timeline.List) {
		_ = l.Add(10, 100)
		_ = l.Add(10, 25)
	})

	l := timeline.NewReader(storage.Pool.Entries, bucket)
	checkList(t, l, []uint64{10}, []uint64{125})
}

// a merge that would wrap the amount is rejected and the entry kept
func TestAddOverflow(t *testing.T) {
	bucket := testBucket(8)

	const huge = uint64(1) << 63

	withList(t, bucket, func(l *timeline.List) {
		if err := l.Add(10, huge); nil != err {
			t.Fatalf("add error: %s", err)
		}
		if fault.BalanceOverflow != l.Add(10, huge) {
			t.Error("overflowing merge was accepted")
		}
	})

	l := timeline.NewReader(storage.Pool.Entries, bucket)
	checkList(t, l, []uint64{10}, []uint64{huge})
}

// the sentinel block is rejected
func TestAddSentinel(t *testing.T) {
	bucket := testBucket(3)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	defer trx.Abort()

	l := timeline.New(trx, storage.Pool.Entries, bucket)
	if fault.InvalidCreationBlock != l.Add(timeline.SentinelBlock, 1) {
		t.Error("sentinel block was accepted")
	}
}

func TestRemove(t *testing.T) {
	bucket := testBucket(4)

	withList(t, bucket, func(l *timeline.List) {
		for _, block := range []uint64{10, 20, 30} {
			_ = l.Add(block, block)
		}
	})

	// remove the middle
	withList(t, bucket, func(l *timeline.List) {
		l.Remove(20)
	})
	checkList(t, timeline.NewReader(storage.Pool.Entries, bucket),
		[]uint64{10, 30}, []uint64{10, 30})

	// remove the head
	withList(t, bucket, func(l *timeline.List) {
		l.Remove(10)
	})
	checkList(t, timeline.NewReader(storage.Pool.Entries, bucket),
		[]uint64{30}, []uint64{30})

	// remove the last entry empties the list completely
	withList(t, bucket, func(l *timeline.List) {
		l.Remove(30)
	})

	l := timeline.NewReader(storage.Pool.Entries, bucket)
	if !l.IsEmpty() {
		t.Error("list is not empty after removing all entries")
	}
	if storage.Pool.Entries.Has(append(bucket, make([]byte, 8)...)) {
		t.Error("sentinel record was not cleaned up")
	}
}

func TestSetAmount(t *testing.T) {
	bucket := testBucket(5)

	withList(t, bucket, func(l *timeline.List) {
		_ = l.Add(10, 100)
		l.SetAmount(10, 40)
	})

	checkList(t, timeline.NewReader(storage.Pool.Entries, bucket),
		[]uint64{10}, []uint64{40})
}

func TestShrinkTo(t *testing.T) {
	bucket := testBucket(6)

	withList(t, bucket, func(l *timeline.List) {
		for _, block := range []uint64{10, 20, 30, 40} {
			_ = l.Add(block, block)
		}
	})

	// remove nothing
	withList(t, bucket, func(l *timeline.List) {
		if removed := l.ShrinkTo(10); 0 != removed {
			t.Errorf("removed expected: 0  actual: %d", removed)
		}
	})

	// remove the two oldest
	withList(t, bucket, func(l *timeline.List) {
		if removed := l.ShrinkTo(30); 30 != removed {
			t.Errorf("removed expected: 30  actual: %d", removed)
		}
	})
	checkList(t, timeline.NewReader(storage.Pool.Entries, bucket),
		[]uint64{30, 40}, []uint64{30, 40})

	// remove everything
	withList(t, bucket, func(l *timeline.List) {
		if removed := l.ShrinkTo(1000); 70 != removed {
			t.Errorf("removed expected: 70  actual: %d", removed)
		}
	})
	if !timeline.NewReader(storage.Pool.Entries, bucket).IsEmpty() {
		t.Error("list is not empty after full shrink")
	}
}

// a staged mutation must be invisible after abort
func TestAbortRollsBack(t *testing.T) {
	bucket := testBucket(7)

	withList(t, bucket, func(l *timeline.List) {
		_ = l.Add(10, 100)
	})

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	l := timeline.New(trx, storage.Pool.Entries, bucket)
	_ = l.Add(20, 200)
	l.Remove(10)
	trx.Abort()

	checkList(t, timeline.NewReader(storage.Pool.Entries, bucket),
		[]uint64{10}, []uint64{100})
}
