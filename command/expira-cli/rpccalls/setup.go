// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpccalls - client side of the expirad JSON RPC service
package rpccalls

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
)

// Client - to hold RPC connection streams
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// NewClient - create a RPC connection to an expirad
func NewClient(connect string) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	r := &Client{
		conn:   conn,
		client: jsonrpc.NewClient(conn),
	}
	return r, nil
}

// Close - shutdown the expirad connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}
