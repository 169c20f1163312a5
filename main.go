// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/expirable-token/expirad/blockclock"
	"github.com/expirable-token/expirad/configuration"
	"github.com/expirable-token/expirad/epoch"
	"github.com/expirable-token/expirad/ledger"
	"github.com/expirable-token/expirad/rpc"
	"github.com/expirable-token/expirad/storage"
	"github.com/expirable-token/expirad/util"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		fmt.Printf("%s\n", version)
		return
	}

	if len(options["help"]) > 0 {
		printHelp(program)
		return
	}

	if len(arguments) > 0 && "version" == arguments[0] {
		fmt.Printf("%s\n", version)
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// general info
	log.Infof("database: %q", theConfiguration.Database)
	log.Infof("read only: %v", theConfiguration.ReadOnly)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)

	// validate the ledger geometry before anything touches the database
	partition, err := epoch.New(
		theConfiguration.Ledger.BlocksPerSlot,
		theConfiguration.Ledger.SlotsPerEra,
		theConfiguration.Ledger.ValiditySlots,
	)
	if nil != err {
		log.Criticalf("ledger geometry error: %s", err)
		exitwithstatus.Message("ledger geometry error: %s", err)
	}

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, theConfiguration.ReadOnly)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// the block clock - depends on storage
	log.Info("initialise blockclock")
	interval := time.Duration(theConfiguration.Ledger.IntervalSeconds) * time.Second
	if theConfiguration.ReadOnly {
		interval = 0 // never advance a read only ledger
	}
	err = blockclock.Initialise(interval)
	if nil != err {
		log.Criticalf("blockclock initialise error: %s", err)
		exitwithstatus.Message("blockclock initialise error: %s", err)
	}
	defer blockclock.Finalise()

	// the ledger proper
	log.Info("initialise ledger")
	err = ledger.Initialise(partition)
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	defer ledger.Finalise()

	// the RPC service
	log.Info("initialise rpc")
	for _, f := range []string{theConfiguration.ClientRPC.Certificate, theConfiguration.ClientRPC.PrivateKey} {
		if !util.EnsureFileExists(f) {
			log.Criticalf("file: %q does not exist", f)
			exitwithstatus.Message("%s: file: %q does not exist", program, f)
		}
	}
	err = rpc.Initialise(&theConfiguration.ClientRPC, version, theConfiguration.ReadOnly)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("%s: waiting for CTRL-C (SIGINT) or 'kill %d' (SIGTERM)…\n", program, os.Getpid())
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n%s: received signal: %v\n", program, sig)
		fmt.Printf("%s: shutting down…\n", program)
	}
}

func printHelp(program string) {
	fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [version]\n", program)
	fmt.Printf("       --help             -h            this message\n")
	fmt.Printf("       --verbose          -v            more debugging\n")
	fmt.Printf("       --quiet            -q            less informational messages\n")
	fmt.Printf("       --version          -V            show version\n")
	fmt.Printf("       --config-file=FILE -c FILE       specify configuration file\n")
}
