// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/fuegosuite/fuegowallet/txhist"
)

const defaultNet = "mainnet"

// Flags.
var opts = struct {
	Force  bool   `short:"f" description:"Force removal without prompt"`
	DbPath string `long:"db" description:"Path to the sqlite transaction history database"`
	DSN    string `long:"dsn" description:"PostgreSQL connection string of the transaction history store"`
}{
	Force:  false,
	DbPath: filepath.Join(defaultDataDir(), defaultNet, "txhistory.db"),
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "."
	}
	return filepath.Join(homeDir, ".fuegowallet")
}

func init() {
	_, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}
}

func yes(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes":
		return true
	default:
		return false
	}
}

func no(s string) bool {
	switch s {
	case "n", "N", "no", "No":
		return true
	default:
		return false
	}
}

func main() {
	os.Exit(mainInt())
}

func mainInt() int {
	if opts.DSN == "" {
		fmt.Println("Database path:", opts.DbPath)
		_, err := os.Stat(opts.DbPath)
		if os.IsNotExist(err) {
			fmt.Println("Database file does not exist")
			return 1
		}
	}

	for !opts.Force {
		fmt.Print("Drop all fuegowallet transaction history? [y/N] ")

		scanner := bufio.NewScanner(bufio.NewReader(os.Stdin))
		if !scanner.Scan() {
			// Exit on EOF.
			return 0
		}
		err := scanner.Err()
		if err != nil {
			fmt.Println()
			fmt.Println(err)
			return 1
		}
		resp := scanner.Text()
		if yes(resp) {
			break
		}
		if no(resp) || resp == "" {
			return 0
		}

		fmt.Println("Enter yes or no.")
	}

	var (
		store *txhist.Store
		err   error
	)
	if opts.DSN != "" {
		store, err = txhist.OpenPostgres(opts.DSN)
	} else {
		store, err = txhist.OpenSQLite(opts.DbPath)
	}
	if err != nil {
		fmt.Println("Failed to open database:", err)
		return 1
	}
	defer store.Close()

	fmt.Println("Dropping transaction history")
	if err := store.DeleteAll(); err != nil {
		fmt.Println("Failed to drop transaction history:", err)
		return 1
	}

	return 0
}
