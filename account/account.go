// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - ledger holder identities
//
// An account is an opaque fixed-size identity.  The text form is
// Base58 of the identity bytes followed by a truncated SHA3-256
// checksum, in the same spirit as other ledger systems so that a
// mistyped identity is detected rather than silently creating a
// new balance holder.
//
// The all-zero account is reserved as the "nobody" sentinel: it is
// the source of a mint and the destination of a burn and can never
// hold a balance.
package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/expirable-token/expirad/fault"
)

// miscellaneous constants
const (
	IdentitySize   = 32
	checksumLength = 4
)

// Account - holder identity within the ledger
type Account [IdentitySize]byte

// Nobody - sentinel identity for mint and burn
var Nobody Account

// AccountFromBase58 - convert a Base58 encoded string to an account
func AccountFromBase58(accountBase58Encoded string) (Account, error) {
	var account Account

	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err {
		return account, fault.CannotDecodeAccount
	}

	if IdentitySize+checksumLength != len(accountDecoded) {
		return account, fault.CannotDecodeAccount
	}

	checksumStart := len(accountDecoded) - checksumLength
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return account, fault.ChecksumMismatch
	}

	copy(account[:], accountDecoded[:checksumStart])
	return account, nil
}

// AccountFromBytes - convert a raw byte slice to an account
func AccountFromBytes(buffer []byte) (Account, error) {
	var account Account
	if IdentitySize != len(buffer) {
		return account, fault.CannotDecodeAccount
	}
	copy(account[:], buffer)
	return account, nil
}

// Bytes - return the identity as a byte slice
func (account Account) Bytes() []byte {
	return account[:]
}

// IsZero - true for the "nobody" sentinel
func (account Account) IsZero() bool {
	return account == Nobody
}

// String - Base58 encoded identity with checksum
func (account Account) String() string {
	buffer := make([]byte, 0, IdentitySize+checksumLength)
	buffer = append(buffer, account[:]...)
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// MarshalText - convert an account to its text form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert text form back to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	*account = a
	return nil
}
