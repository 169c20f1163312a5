// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"
)

// Transaction - staged mutation of the ledger database
//
// all writes are buffered until Commit; Abort discards everything;
// reads see the staged writes of the same transaction
type Transaction interface {
	Begin() error
	Commit() error
	Abort()
	InUse() bool
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
}

type transactionData struct {
	sync.Mutex
	inUse      bool
	dataAccess []DataAccess
	cache      Cache
}

func newTransaction(access []DataAccess, cache Cache) Transaction {
	return &transactionData{
		inUse:      false,
		dataAccess: access,
		cache:      cache,
	}
}

func (t *transactionData) Begin() error {
	t.Lock()
	defer t.Unlock()

	for _, access := range t.dataAccess {
		if err := access.Begin(); nil != err {
			return err
		}
	}
	t.inUse = true
	return nil
}

func (t *transactionData) Commit() error {
	t.Lock()
	defer t.Unlock()

	for i, access := range t.dataAccess {
		if err := access.Commit(); nil != err {
			// a failed commit cannot leave staged values visible
			// or keep the transaction wedged in use
			for _, remaining := range t.dataAccess[i:] {
				remaining.Abort()
			}
			t.cache.Clear()
			t.inUse = false
			return err
		}
	}
	t.cache.Clear()
	t.inUse = false
	return nil
}

func (t *transactionData) Abort() {
	t.Lock()
	defer t.Unlock()

	for _, access := range t.dataAccess {
		access.Abort()
	}
	t.cache.Clear()
	t.inUse = false
}

func (t *transactionData) InUse() bool {
	t.Lock()
	defer t.Unlock()

	return t.inUse
}

func (t *transactionData) Put(handle *PoolHandle, key []byte, value []byte) {
	handle.put(key, value)
}

func (t *transactionData) PutN(handle *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	handle.put(key, buffer)
}

func (t *transactionData) Delete(handle *PoolHandle, key []byte) {
	handle.remove(key)
}

func (t *transactionData) Get(handle *PoolHandle, key []byte) []byte {
	return handle.Get(key)
}

func (t *transactionData) GetN(handle *PoolHandle, key []byte) (uint64, bool) {
	return handle.GetN(key)
}

func (t *transactionData) Has(handle *PoolHandle, key []byte) bool {
	return handle.Has(key)
}
