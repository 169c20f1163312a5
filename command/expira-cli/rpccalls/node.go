// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/expirable-token/expirad/rpc/node"
)

// GetInfo - request geometry and status from expirad
func (client *Client) GetInfo() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := client.client.Call("Node.Info", node.InfoArguments{}, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// Advance - tick the remote block clock by one
func (client *Client) Advance() (*node.AdvanceReply, error) {
	var reply node.AdvanceReply
	if err := client.client.Call("Node.Advance", node.AdvanceArguments{}, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// IsEpochExpired - check if an epoch is outside the live window
func (client *Client) IsEpochExpired(epoch uint64) (*node.IsEpochExpiredReply, error) {
	arguments := node.IsEpochExpiredArguments{
		Epoch: epoch,
	}

	var reply node.IsEpochExpiredReply
	if err := client.client.Call("Node.IsEpochExpired", &arguments, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}
