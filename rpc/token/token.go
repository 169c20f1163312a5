// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - the RPC surface of the expirable balance ledger
package token

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/blockclock"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/ledger"
	"github.com/expirable-token/expirad/rpc/ratelimit"
)

const (
	rateLimitToken = 200
	rateBurstToken = 100
)

// Token - type for RPC calls
type Token struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	ReadOnly bool
}

// New - create the token service
func New(log *logger.L, readOnly bool) *Token {
	return &Token{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitToken, rateBurstToken),
		ReadOnly: readOnly,
	}
}

// guard common to every mutation
func (token *Token) mutable() error {
	if err := ratelimit.Limit(token.Limiter); nil != err {
		return err
	}
	if token.ReadOnly {
		return fault.NotAvailableInReadOnly
	}
	return nil
}

// Mint new value
// --------------

// MintArguments - arguments for RPC
type MintArguments struct {
	Owner  *account.Account `json:"owner"` // base58
	Amount uint64           `json:"amount,string"`
}

// MintReply - results from minting
type MintReply struct {
	Block uint64 `json:"block,string"`
	Epoch uint64 `json:"epoch,string"`
}

// Mint - create new value stamped with the current block
func (token *Token) Mint(arguments *MintArguments, reply *MintReply) error {

	if err := token.mutable(); nil != err {
		return err
	}
	if nil == arguments.Owner {
		return fault.InvalidAccount
	}

	token.Log.Infof("Token.Mint: %+v", arguments)

	block := blockclock.Current()
	err := ledger.Mint(*arguments.Owner, arguments.Amount, block)
	if nil != err {
		return err
	}

	reply.Block = block
	reply.Epoch = ledger.Partition().Epoch(block)
	return nil
}

// Burn existing value
// -------------------

// BurnArguments - arguments for RPC
type BurnArguments struct {
	Owner  *account.Account `json:"owner"` // base58
	Amount uint64           `json:"amount,string"`
}

// BurnReply - results from burning
type BurnReply struct {
	Block   uint64 `json:"block,string"`
	Balance uint64 `json:"balance,string"`
}

// Burn - destroy value, oldest live entries first
func (token *Token) Burn(arguments *BurnArguments, reply *BurnReply) error {

	if err := token.mutable(); nil != err {
		return err
	}
	if nil == arguments.Owner {
		return fault.InvalidAccount
	}

	token.Log.Infof("Token.Burn: %+v", arguments)

	block := blockclock.Current()
	err := ledger.Burn(*arguments.Owner, arguments.Amount, block)
	if nil != err {
		return err
	}

	reply.Block = block
	reply.Balance = ledger.BalanceOf(*arguments.Owner, block)
	return nil
}

// Transfer value
// --------------

// TransferArguments - arguments for RPC
type TransferArguments struct {
	From   *account.Account `json:"from"` // base58
	To     *account.Account `json:"to"`   // base58
	Amount uint64           `json:"amount,string"`
}

// TransferReply - results from a transfer
type TransferReply struct {
	Block     uint64 `json:"block,string"`
	Remaining uint64 `json:"remaining,string"`
}

// Transfer - move value, oldest live entries first; the moved value
// keeps its original creation blocks
func (token *Token) Transfer(arguments *TransferArguments, reply *TransferReply) error {

	if err := token.mutable(); nil != err {
		return err
	}
	if nil == arguments.From || nil == arguments.To {
		return fault.InvalidAccount
	}

	token.Log.Infof("Token.Transfer: %+v", arguments)

	block := blockclock.Current()
	err := ledger.Transfer(*arguments.From, *arguments.To, arguments.Amount, block)
	if nil != err {
		return err
	}

	reply.Block = block
	reply.Remaining = ledger.BalanceOf(*arguments.From, block)
	return nil
}

// Transfer value to several recipients
// ------------------------------------

const maximumTransferBatch = 100

// TransferBatchArguments - arguments for RPC
type TransferBatchArguments struct {
	From    *account.Account  `json:"from"` // base58
	To      []account.Account `json:"to"`   // base58
	Amounts []uint64          `json:"amounts"`
}

// TransferBatchReply - results from a batched transfer
type TransferBatchReply struct {
	Block     uint64 `json:"block,string"`
	Count     int    `json:"count"`
	Remaining uint64 `json:"remaining,string"`
}

// TransferBatch - move value to several recipients in one atomic
// operation; any failure rolls back the whole batch
func (token *Token) TransferBatch(arguments *TransferBatchArguments, reply *TransferBatchReply) error {

	count := len(arguments.To)
	if err := ratelimit.LimitN(token.Limiter, count, maximumTransferBatch); nil != err {
		return err
	}
	if token.ReadOnly {
		return fault.NotAvailableInReadOnly
	}
	if nil == arguments.From {
		return fault.InvalidAccount
	}

	token.Log.Infof("Token.TransferBatch: %+v", arguments)

	block := blockclock.Current()
	err := ledger.TransferBatch(*arguments.From, arguments.To, arguments.Amounts, block)
	if nil != err {
		return err
	}

	reply.Block = block
	reply.Count = count
	reply.Remaining = ledger.BalanceOf(*arguments.From, block)
	return nil
}

// Transfer value out of one epoch
// -------------------------------

// TransferAtEpochArguments - arguments for RPC
type TransferAtEpochArguments struct {
	From   *account.Account `json:"from"` // base58
	To     *account.Account `json:"to"`   // base58
	Epoch  uint64           `json:"epoch,string"`
	Amount uint64           `json:"amount,string"`
}

// TransferAtEpoch - move value taken from a single epoch's bucket
func (token *Token) TransferAtEpoch(arguments *TransferAtEpochArguments, reply *TransferReply) error {

	if err := token.mutable(); nil != err {
		return err
	}
	if nil == arguments.From || nil == arguments.To {
		return fault.InvalidAccount
	}

	token.Log.Infof("Token.TransferAtEpoch: %+v", arguments)

	block := blockclock.Current()
	err := ledger.TransferAtEpoch(*arguments.From, *arguments.To, arguments.Epoch, arguments.Amount, block)
	if nil != err {
		return err
	}

	reply.Block = block
	reply.Remaining = ledger.BalanceOf(*arguments.From, block)
	return nil
}

// Balance queries
// ---------------

// BalanceArguments - arguments for RPC
type BalanceArguments struct {
	Owner *account.Account `json:"owner"` // base58
}

// BalanceReply - the live balance at the current block
type BalanceReply struct {
	Balance uint64 `json:"balance,string"`
	Block   uint64 `json:"block,string"`
	Epoch   uint64 `json:"epoch,string"`
}

// Balance - spendable balance of an account at the current block
func (token *Token) Balance(arguments *BalanceArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(token.Limiter); nil != err {
		return err
	}
	if nil == arguments.Owner {
		return fault.InvalidAccount
	}

	block := blockclock.Current()
	reply.Balance = ledger.BalanceOf(*arguments.Owner, block)
	reply.Block = block
	reply.Epoch = ledger.Partition().Epoch(block)
	return nil
}

// BalanceAtEpochArguments - arguments for RPC
type BalanceAtEpochArguments struct {
	Owner *account.Account `json:"owner"` // base58
	Epoch uint64           `json:"epoch,string"`
}

// BalanceAtEpoch - spendable balance inside one epoch's bucket
func (token *Token) BalanceAtEpoch(arguments *BalanceAtEpochArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(token.Limiter); nil != err {
		return err
	}
	if nil == arguments.Owner {
		return fault.InvalidAccount
	}

	block := blockclock.Current()
	reply.Balance = ledger.BalanceOfAtEpoch(*arguments.Owner, arguments.Epoch, block)
	reply.Block = block
	reply.Epoch = arguments.Epoch
	return nil
}
