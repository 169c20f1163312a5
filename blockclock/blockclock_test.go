// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockclock_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/blockclock"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/storage"
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

func TestClock(t *testing.T) {

	err := blockclock.Initialise(0)
	if nil != err {
		t.Fatalf("initialise error: %s", err)
	}

	if 1 != blockclock.Current() {
		t.Fatalf("initial height expected: 1  actual: %d", blockclock.Current())
	}

	if 2 != blockclock.Advance() {
		t.Errorf("advance expected: 2  actual: %d", blockclock.Current())
	}
	if 3 != blockclock.Advance() {
		t.Errorf("advance expected: 3  actual: %d", blockclock.Current())
	}

	err = blockclock.Set(10)
	if nil != err {
		t.Fatalf("set error: %s", err)
	}
	if 10 != blockclock.Current() {
		t.Errorf("height expected: 10  actual: %d", blockclock.Current())
	}

	// never backwards
	err = blockclock.Set(5)
	if fault.BlockHeightWentBackwards != err {
		t.Errorf("backwards set error expected: %s  actual: %v", fault.BlockHeightWentBackwards, err)
	}

	// double initialise must fail
	err = blockclock.Initialise(0)
	if fault.AlreadyInitialised != err {
		t.Errorf("double initialise error expected: %s  actual: %v", fault.AlreadyInitialised, err)
	}

	err = blockclock.Finalise()
	if nil != err {
		t.Fatalf("finalise error: %s", err)
	}

	// the height must survive a restart
	err = blockclock.Initialise(0)
	if nil != err {
		t.Fatalf("initialise error: %s", err)
	}
	if 10 != blockclock.Current() {
		t.Errorf("restored height expected: 10  actual: %d", blockclock.Current())
	}
	err = blockclock.Finalise()
	if nil != err {
		t.Fatalf("finalise error: %s", err)
	}
}
