// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - introspection RPC service
package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/blockclock"
	"github.com/expirable-token/expirad/counter"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/ledger"
	"github.com/expirable-token/expirad/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Start    time.Time
	Version  string
	ReadOnly bool
	counter  *counter.Counter
}

// New - create the node service
func New(log *logger.L, start time.Time, version string, readOnly bool, rpcCount *counter.Counter) *Node {
	return &Node{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:    start,
		Version:  version,
		ReadOnly: readOnly,
		counter:  rpcCount,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Block          uint64 `json:"block,string"`
	Epoch          uint64 `json:"epoch,string"`
	BlocksPerSlot  uint64 `json:"blocksPerSlot,string"`
	SlotsPerEra    uint64 `json:"slotsPerEra,string"`
	ValiditySlots  uint64 `json:"validitySlots,string"`
	ValidityBlocks uint64 `json:"validityBlocks,string"`
	RPCs           uint64 `json:"rpcs"`
	Version        string `json:"version"`
	Uptime         string `json:"uptime"`
}

// Info - return enough information for clients to determine the
// ledger geometry and the node state
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	partition := ledger.Partition()
	block := blockclock.Current()

	reply.Block = block
	reply.Epoch = partition.Epoch(block)
	reply.BlocksPerSlot = partition.BlocksPerSlot()
	reply.SlotsPerEra = partition.SlotsPerEra()
	reply.ValiditySlots = partition.ValiditySlots()
	reply.ValidityBlocks = partition.ValidityBlocks()
	reply.RPCs = node.counter.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}

// IsEpochExpiredArguments - arguments for the expiry query
type IsEpochExpiredArguments struct {
	Epoch uint64 `json:"epoch,string"`
}

// IsEpochExpiredReply - results from the expiry query
type IsEpochExpiredReply struct {
	Expired bool   `json:"expired"`
	Block   uint64 `json:"block,string"`
}

// IsEpochExpired - true if every block of the epoch is already
// outside the live window
func (node *Node) IsEpochExpired(arguments *IsEpochExpiredArguments, reply *IsEpochExpiredReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	block := blockclock.Current()
	reply.Expired = ledger.Partition().IsEpochExpired(arguments.Epoch, block)
	reply.Block = block
	return nil
}

// AdvanceArguments - empty arguments for a manual block tick
type AdvanceArguments struct{}

// AdvanceReply - the height after advancing
type AdvanceReply struct {
	Block uint64 `json:"block,string"`
	Epoch uint64 `json:"epoch,string"`
}

// Advance - tick the block clock by one, for deployments that drive
// block time from an external scheduler instead of the interval timer
func (node *Node) Advance(_ *AdvanceArguments, reply *AdvanceReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}
	if node.ReadOnly {
		return fault.NotAvailableInReadOnly
	}

	node.Log.Info("Node.Advance")

	block := blockclock.Advance()
	reply.Block = block
	reply.Epoch = ledger.Partition().Epoch(block)
	return nil
}
