// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/rpc/token"
)

// Mint - create new value for an account
func (client *Client) Mint(owner *account.Account, amount uint64) (*token.MintReply, error) {
	arguments := token.MintArguments{
		Owner:  owner,
		Amount: amount,
	}

	var reply token.MintReply
	if err := client.client.Call("Token.Mint", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// Burn - destroy value of an account
func (client *Client) Burn(owner *account.Account, amount uint64) (*token.BurnReply, error) {
	arguments := token.BurnArguments{
		Owner:  owner,
		Amount: amount,
	}

	var reply token.BurnReply
	if err := client.client.Call("Token.Burn", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// Transfer - move value between accounts
func (client *Client) Transfer(from *account.Account, to *account.Account, amount uint64) (*token.TransferReply, error) {
	arguments := token.TransferArguments{
		From:   from,
		To:     to,
		Amount: amount,
	}

	var reply token.TransferReply
	if err := client.client.Call("Token.Transfer", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// TransferAtEpoch - move value taken from a single epoch
func (client *Client) TransferAtEpoch(from *account.Account, to *account.Account, epoch uint64, amount uint64) (*token.TransferReply, error) {
	arguments := token.TransferAtEpochArguments{
		From:   from,
		To:     to,
		Epoch:  epoch,
		Amount: amount,
	}

	var reply token.TransferReply
	if err := client.client.Call("Token.TransferAtEpoch", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// Balance - live balance of an account
func (client *Client) Balance(owner *account.Account) (*token.BalanceReply, error) {
	arguments := token.BalanceArguments{
		Owner: owner,
	}

	var reply token.BalanceReply
	if err := client.client.Call("Token.Balance", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// BalanceAtEpoch - live balance inside one epoch's bucket
func (client *Client) BalanceAtEpoch(owner *account.Account, epoch uint64) (*token.BalanceReply, error) {
	arguments := token.BalanceAtEpochArguments{
		Owner: owner,
		Epoch: epoch,
	}

	var reply token.BalanceReply
	if err := client.client.Call("Token.BalanceAtEpoch", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}
