// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/expirable-token/expirad/storage/mocks"
)

func setupTestTransaction(t *testing.T) (Transaction, *mocks.MockDataAccess, *gomock.Controller) {
	ctl := gomock.NewController(t)
	mock := mocks.NewMockDataAccess(ctl)
	trx := newTransaction([]DataAccess{mock}, newCache())
	return trx, mock, ctl
}

func TestBegin(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Begin().Return(nil).Times(1)

	err := trx.Begin()
	assert.Equal(t, nil, err, "Begin should not return any error")
	assert.True(t, trx.InUse(), "transaction should be in use after Begin")
}

func TestCommit(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Begin().Return(nil).Times(1)
	mock.EXPECT().Commit().Return(nil).Times(1)

	err := trx.Begin()
	assert.Equal(t, nil, err, "Begin should not return any error")

	err = trx.Commit()
	assert.Equal(t, nil, err, "Commit should not return any error")
	assert.False(t, trx.InUse(), "transaction should be released after Commit")
}

func TestAbort(t *testing.T) {
	trx, mock, ctl := setupTestTransaction(t)
	defer ctl.Finish()

	mock.EXPECT().Begin().Return(nil).Times(1)
	mock.EXPECT().Abort().Times(1)

	err := trx.Begin()
	assert.Equal(t, nil, err, "Begin should not return any error")

	trx.Abort()
	assert.False(t, trx.InUse(), "transaction should be released after Abort")
}

func TestCommitFailureReleasesTransaction(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mock := mocks.NewMockDataAccess(ctl)
	cache := newCache()
	trx := newTransaction([]DataAccess{mock}, cache)

	writeFailure := errors.New("disk write failed")

	mock.EXPECT().Begin().Return(nil).Times(2)
	mock.EXPECT().Commit().Return(writeFailure).Times(1)
	mock.EXPECT().Abort().Times(1)

	err := trx.Begin()
	assert.Equal(t, nil, err, "Begin should not return any error")
	cache.Set(dbPut, "staged-key", []byte{0x01})

	err = trx.Commit()
	assert.Equal(t, writeFailure, err, "Commit should surface the write error")
	assert.False(t, trx.InUse(), "transaction should be released after a failed Commit")

	_, _, found := cache.Get("staged-key")
	assert.False(t, found, "staged values should be dropped after a failed Commit")

	err = trx.Begin()
	assert.Equal(t, nil, err, "Begin should succeed after a failed Commit")
}
