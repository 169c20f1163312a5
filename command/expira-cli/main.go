// SPDX-License-Identifier: ISC
// Copyright (c) 2021-2026 Expirad Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/expirable-token/expirad/account"
	"github.com/expirable-token/expirad/command/expira-cli/rpccalls"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "expira-cli"
	app.Usage = "query and mutate an expirad ledger over RPC"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "127.0.0.1:2150",
			Usage: " expirad RPC `HOST:PORT`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "display expirad status",
			Action: runInfo,
		},
		{
			Name:      "expired",
			Usage:     "check whether an epoch is past the validity window",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "epoch, e",
					Value: "",
					Usage: "*epoch to check `NUMBER`",
				},
			},
			Action: runExpired,
		},
		{
			Name:      "balance",
			Usage:     "display the spendable balance of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account `BASE58`",
				},
				cli.StringFlag{
					Name:  "epoch, e",
					Value: "",
					Usage: " restrict to one creation epoch `NUMBER`",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "mint",
			Usage:     "create new value for an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account `BASE58`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*amount to mint `NUMBER`",
				},
			},
			Action: runMint,
		},
		{
			Name:      "burn",
			Usage:     "destroy value of an account, oldest first",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account `BASE58`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*amount to burn `NUMBER`",
				},
			},
			Action: runBurn,
		},
		{
			Name:      "transfer",
			Usage:     "move value between accounts, oldest first",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from, f",
					Value: "",
					Usage: "*sender account `BASE58`",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*receiver account `BASE58`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*amount to transfer `NUMBER`",
				},
				cli.StringFlag{
					Name:  "epoch, e",
					Value: "",
					Usage: " take value from one creation epoch `NUMBER`",
				},
			},
			Action: runTransfer,
		},
		{
			Name:   "advance",
			Usage:  "tick the block clock by one",
			Action: runAdvance,
		},
		{
			Name:  "version",
			Usage: "display expira-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func connect(c *cli.Context) (*rpccalls.Client, error) {
	address := c.GlobalString("connect")
	if "" == address {
		return nil, fmt.Errorf("connect address is required")
	}
	if c.GlobalBool("verbose") {
		fmt.Fprintf(c.App.ErrWriter, "connecting to: %s\n", address)
	}
	return rpccalls.NewClient(address)
}

func accountFlag(c *cli.Context, name string) (*account.Account, error) {
	s := c.String(name)
	if "" == s {
		return nil, fmt.Errorf("%s account is required", name)
	}
	a, err := account.AccountFromBase58(s)
	if nil != err {
		return nil, fmt.Errorf("%s account: %q error: %s", name, s, err)
	}
	return &a, nil
}

func uint64Flag(c *cli.Context, name string) (uint64, error) {
	s := c.String(name)
	if "" == s {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return 0, fmt.Errorf("%s: %q error: %s", name, s, err)
	}
	return n, nil
}

func runInfo(c *cli.Context) error {
	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetInfo()
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runAdvance(c *cli.Context) error {
	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Advance()
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runExpired(c *cli.Context) error {
	epoch, err := uint64Flag(c, "epoch")
	if nil != err {
		return err
	}

	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.IsEpochExpired(epoch)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runBalance(c *cli.Context) error {
	owner, err := accountFlag(c, "owner")
	if nil != err {
		return err
	}

	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	if "" == c.String("epoch") {
		reply, err := client.Balance(owner)
		if nil != err {
			return err
		}
		return printJson(c.App.Writer, reply)
	}

	epoch, err := uint64Flag(c, "epoch")
	if nil != err {
		return err
	}
	reply, err := client.BalanceAtEpoch(owner, epoch)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runMint(c *cli.Context) error {
	owner, err := accountFlag(c, "owner")
	if nil != err {
		return err
	}
	amount, err := uint64Flag(c, "amount")
	if nil != err {
		return err
	}

	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Mint(owner, amount)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runBurn(c *cli.Context) error {
	owner, err := accountFlag(c, "owner")
	if nil != err {
		return err
	}
	amount, err := uint64Flag(c, "amount")
	if nil != err {
		return err
	}

	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Burn(owner, amount)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}

func runTransfer(c *cli.Context) error {
	from, err := accountFlag(c, "from")
	if nil != err {
		return err
	}
	to, err := accountFlag(c, "to")
	if nil != err {
		return err
	}
	amount, err := uint64Flag(c, "amount")
	if nil != err {
		return err
	}

	client, err := connect(c)
	if nil != err {
		return err
	}
	defer client.Close()

	if "" == c.String("epoch") {
		reply, err := client.Transfer(from, to, amount)
		if nil != err {
			return err
		}
		return printJson(c.App.Writer, reply)
	}

	epoch, err := uint64Flag(c, "epoch")
	if nil != err {
		return err
	}
	reply, err := client.TransferAtEpoch(from, to, epoch, amount)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, reply)
}
