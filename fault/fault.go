// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised       = ProcessError("already initialised")
	BalanceOverflow          = InvalidError("balance overflow")
	BlockHeightWentBackwards = InvalidError("block height went backwards")
	CannotDecodeAccount      = RecordError("cannot decode account")
	ChecksumMismatch         = ProcessError("checksum mismatch")
	DatabaseIsNotSet         = ProcessError("database is not set")
	ExpiredEpoch             = InvalidError("epoch is expired")
	InsufficientBalance      = InvalidError("insufficient balance")
	InvalidAccount           = InvalidError("invalid account")
	InvalidBlockInterval     = InvalidError("invalid block interval")
	InvalidBlocksPerSlot     = InvalidError("invalid blocks per slot")
	InvalidCount             = InvalidError("invalid count")
	InvalidCreationBlock     = InvalidError("invalid creation block")
	InvalidEpoch             = InvalidError("invalid epoch")
	InvalidIpAddress         = InvalidError("invalid ip Address")
	InvalidLoggerChannel     = InvalidError("invalid logger channel")
	InvalidSlotsPerEra       = InvalidError("invalid slots per era")
	InvalidValidityWindow    = InvalidError("invalid validity window")
	LengthMismatch           = LengthError("length mismatch")
	MissingParameters        = LengthError("missing parameters")
	NotAvailableInReadOnly   = ProcessError("not available in read only mode")
	NotInitialised           = ProcessError("not initialised")
	RateLimiting             = ProcessError("rate limiting")
	TransactionAlreadyInUse  = ProcessError("transaction already in use")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// IsErrExists - determine if an error is an ExistsError
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine if an error is an InvalidError
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - determine if an error is a LengthError
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - determine if an error is a NotFoundError
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine if an error is a ProcessError
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRecord - determine if an error is a RecordError
func IsErrRecord(e error) bool { _, ok := e.(RecordError); return ok }
