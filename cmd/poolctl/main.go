// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// main.go is a thin host wrapper over the pool package: a subcommand CLI
// in the same shape as the source material's own flag-based tool, adapted
// from per-invocation MiMC hash/decrypt/prove commands to per-invocation
// deposit/withdraw/root/balance commands against a pool whose state is
// persisted to a local file between runs (see state.go).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ymcrcat/soroban-privacy-pools/field"
	"github.com/ymcrcat/soroban-privacy-pools/pool"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: poolctl <init|deposit|withdraw|root|balance> [flags]")
		return 2
	}

	switch args[0] {
	case "init":
		return cmdInit(args[1:], stdout, stderr)
	case "deposit":
		return cmdDeposit(args[1:], stdout, stderr)
	case "withdraw":
		return cmdWithdraw(args[1:], stdout, stderr)
	case "root":
		return cmdRoot(args[1:], stdout, stderr)
	case "balance":
		return cmdBalance(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 2
	}
}

func cmdInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var vkPath, statePath, denomStr string
	var depth int
	fs.StringVar(&vkPath, "vk", "", "path to the wire-encoded verification key")
	fs.StringVar(&statePath, "state", "", "path to write the new pool state file")
	fs.IntVar(&depth, "depth", 0, "LIMT depth")
	fs.StringVar(&denomStr, "denom", "", "fixed denomination (decimal or 0x.. hex)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if vkPath == "" || statePath == "" || denomStr == "" {
		fmt.Fprintln(stderr, "error: -vk, -state, and -denom are required")
		fs.Usage()
		return 2
	}

	vkBytes, err := os.ReadFile(vkPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	denom := new(big.Int)
	if _, ok := denom.SetString(denomStr, 0); !ok || denom.Sign() <= 0 {
		fmt.Fprintln(stderr, "error: -denom must be a positive integer (decimal or 0x.. hex)")
		return 2
	}

	p, err := pool.New(vkBytes, pool.Config{Depth: depth, Denomination: denom})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if err := os.WriteFile(statePath, encodeState(p.Snapshot()), 0o600); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintln(stdout, "initialized pool:", statePath)
	return 0
}

func cmdDeposit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var statePath, from, commitmentHex string
	fs.StringVar(&statePath, "state", "", "path to the pool state file")
	fs.StringVar(&from, "from", "", "caller identity (opaque string)")
	fs.StringVar(&commitmentHex, "commitment", "", "32-byte commitment, hex encoded")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if statePath == "" || commitmentHex == "" {
		fmt.Fprintln(stderr, "error: -state and -commitment are required")
		fs.Usage()
		return 2
	}

	p, err := loadPool(statePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	commitment, err := hex.DecodeString(commitmentHex)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	idx, err := p.Deposit([]byte(from), commitment)
	if err != nil {
		fmt.Fprintln(stderr, "FAIL:", err)
		return 1
	}

	if err := savePool(statePath, p); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintf(stdout, "deposit ok: leafIndex=%d root=%x\n", idx, encodeFr(p.Root()))
	return 0
}

func cmdWithdraw(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var statePath, to, proofPath, signalsPath string
	fs.StringVar(&statePath, "state", "", "path to the pool state file")
	fs.StringVar(&to, "to", "", "caller identity (opaque string)")
	fs.StringVar(&proofPath, "proof", "", "path to the wire-encoded proof")
	fs.StringVar(&signalsPath, "signals", "", "path to the wire-encoded public signals")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if statePath == "" || proofPath == "" || signalsPath == "" {
		fmt.Fprintln(stderr, "error: -state, -proof, and -signals are required")
		fs.Usage()
		return 2
	}

	p, err := loadPool(statePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	proofBytes, err := os.ReadFile(proofPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	signalsBytes, err := os.ReadFile(signalsPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if err := p.Withdraw([]byte(to), proofBytes, signalsBytes); err != nil {
		fmt.Fprintln(stderr, "FAIL:", err)
		return 1
	}

	if err := savePool(statePath, p); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintln(stdout, "withdraw ok")
	return 0
}

func cmdRoot(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("root", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var statePath string
	fs.StringVar(&statePath, "state", "", "path to the pool state file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if statePath == "" {
		fmt.Fprintln(stderr, "error: -state is required")
		return 2
	}

	p, err := loadPool(statePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintf(stdout, "%x\n", encodeFr(p.Root()))
	return 0
}

func cmdBalance(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var statePath string
	fs.StringVar(&statePath, "state", "", "path to the pool state file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if statePath == "" {
		fmt.Fprintln(stderr, "error: -state is required")
		return 2
	}

	p, err := loadPool(statePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintln(stdout, p.Balance().String())
	return 0
}

func loadPool(statePath string) (*pool.Pool, error) {
	raw, err := os.ReadFile(statePath)
	if err != nil {
		return nil, err
	}
	s, err := decodeState(raw)
	if err != nil {
		return nil, err
	}
	return pool.Restore(s)
}

func savePool(statePath string, p *pool.Pool) error {
	return os.WriteFile(statePath, encodeState(p.Snapshot()), 0o600)
}

func encodeFr(f field.Fr) []byte {
	e := f.Encode()
	return e[:]
}
