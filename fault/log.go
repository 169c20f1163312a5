// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel for last-chance logging
var log *logger.L

// Initialise - setup a log channel for severe errors
func Initialise() error {
	if nil != log {
		return AlreadyInitialised
	}
	log = logger.New("PANIC")
	if nil == log {
		return InvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any data
func Finalise() {
	if nil != log {
		log.Flush()
	}
}

// Critical - log a simple string
func Critical(message string) {
	if _, file, line, ok := runtime.Caller(1); ok {
		internalCriticalf("(%q:%d) "+message, file, line)
	} else {
		internalCriticalf(message)
	}
}

// Criticalf - log a formatted string
func Criticalf(message string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(1); ok {
		a := make([]interface{}, 0, len(arguments)+2)
		a = append(a, file, line)
		a = append(a, arguments...)
		internalCriticalf("(%q:%d) "+message, a...)
	} else {
		internalCriticalf(message, arguments...)
	}
}

// Panic - log a simple string and panic
func Panic(message string) {
	if _, file, line, ok := runtime.Caller(1); ok {
		internalCriticalf("(%q:%d) "+message, file, line)
	} else {
		internalCriticalf(message)
	}
	panicMessage(message)
}

// Panicf - log a formatted string and panic
func Panicf(message string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(1); ok {
		a := make([]interface{}, 0, len(arguments)+2)
		a = append(a, file, line)
		a = append(a, arguments...)
		internalCriticalf("(%q:%d) "+message, a...)
	} else {
		internalCriticalf(message, arguments...)
	}
	panicMessage(fmt.Sprintf(message, arguments...))
}

// PanicIfError - panic if error is not nil
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	Panicf("%s failed with error: %s", message, err)
}

// flush and panic
func panicMessage(message string) {
	if nil != log {
		log.Flush()
	}
	panic(message)
}

// log a formatted message
func internalCriticalf(message string, arguments ...interface{}) {
	if nil == log {
		fmt.Printf(message+"\n", arguments...)
	} else {
		log.Criticalf(message, arguments...)
	}
}
