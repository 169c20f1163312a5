// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// helper to run a function inside a committed transaction
func withTransaction(t *testing.T, f func(trx Transaction)) {
	t.Helper()

	trx, err := NewDBTransaction()
	assert.Nil(t, err, "NewDBTransaction should not fail")

	f(trx)

	err = trx.Commit()
	assert.Nil(t, err, "Commit should not fail")
}

func TestPutGetDelete(t *testing.T) {
	p := Pool.TestData

	key := []byte("key-one")
	value := []byte("value-one")

	withTransaction(t, func(trx Transaction) {
		trx.Put(p, key, value)
	})

	assert.Equal(t, value, p.Get(key), "wrong value")
	assert.True(t, p.Has(key), "missing key")

	withTransaction(t, func(trx Transaction) {
		trx.Delete(p, key)
	})

	assert.Nil(t, p.Get(key), "value not deleted")
	assert.False(t, p.Has(key), "key not deleted")
}

func TestPutNGetN(t *testing.T) {
	p := Pool.TestData

	key := []byte("key-n")

	withTransaction(t, func(trx Transaction) {
		trx.PutN(p, key, 1234567890)
	})

	n, found := p.GetN(key)
	assert.True(t, found, "missing numeric record")
	assert.Equal(t, uint64(1234567890), n, "wrong numeric value")

	withTransaction(t, func(trx Transaction) {
		trx.Delete(p, key)
	})
}

// a transaction must see its own staged writes and deletes
func TestReadYourWrites(t *testing.T) {
	p := Pool.TestData

	key := []byte("key-ryw")
	value := []byte("value-ryw")

	trx, err := NewDBTransaction()
	assert.Nil(t, err, "NewDBTransaction should not fail")

	trx.Put(p, key, value)
	assert.Equal(t, value, trx.Get(p, key), "staged write not visible")
	assert.True(t, trx.Has(p, key), "staged write not visible via Has")

	trx.Delete(p, key)
	assert.Nil(t, trx.Get(p, key), "staged delete not visible")
	assert.False(t, trx.Has(p, key), "staged delete not visible via Has")

	trx.Abort()
}

// aborted writes must not land
func TestAbortDiscards(t *testing.T) {
	p := Pool.TestData

	key := []byte("key-abort")

	trx, err := NewDBTransaction()
	assert.Nil(t, err, "NewDBTransaction should not fail")

	trx.Put(p, key, []byte("discarded"))
	trx.Abort()

	assert.Nil(t, p.Get(key), "aborted write was committed")
}

// only one transaction may be in progress
func TestSingleTransaction(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err, "NewDBTransaction should not fail")
	assert.True(t, trx.InUse(), "transaction should be in use")

	_, err = NewDBTransaction()
	assert.NotNil(t, err, "second transaction should fail")

	trx.Abort()
	assert.False(t, trx.InUse(), "transaction should be released")
}

func TestLastElement(t *testing.T) {
	p := Pool.TestData

	withTransaction(t, func(trx Transaction) {
		trx.Put(p, []byte("aaa"), []byte("first"))
		trx.Put(p, []byte("zzz"), []byte("last"))
	})

	element, found := p.LastElement()
	assert.True(t, found, "no last element")
	assert.Equal(t, []byte("zzz"), element.Key, "wrong last key")
	assert.Equal(t, []byte("last"), element.Value, "wrong last value")

	withTransaction(t, func(trx Transaction) {
		trx.Delete(p, []byte("aaa"))
		trx.Delete(p, []byte("zzz"))
	})
}
