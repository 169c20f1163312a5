// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"testing"

	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/fault"
)

// a fixed test identity
func testAccount(fill byte) account.Account {
	var a account.Account
	for i := 0; i < account.IdentitySize; i += 1 {
		a[i] = fill
	}
	return a
}

// round trip through the Base58 text form
func TestBase58RoundTrip(t *testing.T) {

	accounts := []account.Account{
		testAccount(0x01),
		testAccount(0x7f),
		testAccount(0xff),
	}

	for i, a := range accounts {
		encoded := a.String()
		decoded, err := account.AccountFromBase58(encoded)
		if nil != err {
			t.Fatalf("%d: decode error: %s", i, err)
		}
		if decoded != a {
			t.Errorf("%d: round trip expected: %x  actual: %x", i, a, decoded)
		}
	}
}

// corrupted text must be rejected by the checksum
func TestChecksumRejection(t *testing.T) {

	a := testAccount(0x55)
	encoded := []byte(a.String())

	// flip one character (avoiding a possible identical replacement)
	if 'z' == encoded[3] {
		encoded[3] = 'y'
	} else {
		encoded[3] = 'z'
	}

	_, err := account.AccountFromBase58(string(encoded))
	if nil == err {
		t.Fatal("corrupted account text was accepted")
	}
	if fault.ChecksumMismatch != err && fault.CannotDecodeAccount != err {
		t.Errorf("unexpected error: %s", err)
	}
}

// short input must be rejected
func TestShortInput(t *testing.T) {
	_, err := account.AccountFromBase58("3yZe7d")
	if fault.CannotDecodeAccount != err {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = account.AccountFromBytes([]byte{1, 2, 3})
	if fault.CannotDecodeAccount != err {
		t.Errorf("unexpected error: %v", err)
	}
}

// the zero value is the sentinel
func TestNobody(t *testing.T) {
	var a account.Account
	if !a.IsZero() {
		t.Error("zero account is not the sentinel")
	}
	if !account.Nobody.IsZero() {
		t.Error("Nobody is not the sentinel")
	}
	if testAccount(1).IsZero() {
		t.Error("non-zero account reported as sentinel")
	}
}

// text marshalling round trip
func TestMarshalText(t *testing.T) {
	a := testAccount(0x23)

	text, err := a.MarshalText()
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}

	var b account.Account
	err = b.UnmarshalText(text)
	if nil != err {
		t.Fatalf("unmarshal error: %s", err)
	}
	if a != b {
		t.Errorf("round trip expected: %x  actual: %x", a, b)
	}
}
