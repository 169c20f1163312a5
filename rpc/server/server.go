// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - registration of all RPC services
package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/counter"
	"github.com/expirable-token/expirad/rpc/node"
	"github.com/expirable-token/expirad/rpc/token"
)

// Create - make a server with all services registered
func Create(log *logger.L, version string, readOnly bool, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(token.New(log, readOnly))
	_ = server.Register(node.New(log, start, version, readOnly, rpcCount))

	return server
}
