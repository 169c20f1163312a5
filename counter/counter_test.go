// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/expirable-token/expirad/counter"
)

// test incrementing and decrementing a counter
func TestCounter(t *testing.T) {

	var c counter.Counter

	if !c.IsZero() {
		t.Errorf("counter is not zero at start: %d", c.Uint64())
	}

	for i := 0; i < 5; i += 1 {
		c.Increment()
	}
	if 5 != c.Uint64() {
		t.Errorf("counter is not 5 after incrementing: %d", c.Uint64())
	}

	for i := 0; i < 5; i += 1 {
		c.Decrement()
	}
	if !c.IsZero() {
		t.Errorf("counter did not return to zero: %d", c.Uint64())
	}
}

// counter must stay consistent under concurrent updates
func TestCounterConcurrent(t *testing.T) {

	var c counter.Counter
	var wg sync.WaitGroup

	for i := 0; i < 10; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j += 1 {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	if 10000 != c.Uint64() {
		t.Errorf("counter expected: %d  actual: %d", 10000, c.Uint64())
	}
}
