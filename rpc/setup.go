// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - the JSON RPC over TLS service of the daemon
package rpc

import (
	"io/ioutil"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/counter"
	"github.com/expirable-token/expirad/fault"
	"github.com/expirable-token/expirad/rpc/certificate"
	"github.com/expirable-token/expirad/rpc/listeners"
	"github.com/expirable-token/expirad/rpc/server"
)

const (
	tlsName = "client_rpc"
)

// to count the number of active connections
var connectionCountRPC counter.Counter

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start the RPC listeners
func Initialise(rpcConfiguration *listeners.RPCConfiguration, version string, readOnly bool) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to Start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	certificatePEM, err := ioutil.ReadFile(rpcConfiguration.Certificate)
	if nil != err {
		log.Errorf("certificate read error: %s", err)
		return err
	}
	keyPEM, err := ioutil.ReadFile(rpcConfiguration.PrivateKey)
	if nil != err {
		log.Errorf("private key read error: %s", err)
		return err
	}

	tlsConfig, certificateFingerprint, err := certificate.Get(log, tlsName, certificatePEM, keyPEM)
	if nil != err {
		return err
	}

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		&connectionCountRPC,
		server.Create(log, version, readOnly, &connectionCountRPC),
		tlsConfig,
		certificateFingerprint,
	)
	if nil != err {
		return err
	}
	err = rpcListener.Serve()
	if nil != err {
		return err
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
