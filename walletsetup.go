// Copyright (c) 2014-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fuegosuite/fuegowallet/internal/prompt"
	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pgpwordlist"
	"github.com/fuegosuite/fuegowallet/wallet"
	_ "github.com/fuegosuite/fuegowallet/walletdb/bdb"
)

// networkDir returns the directory name of a network directory to hold wallet
// files.
func networkDir(dataDir string, chainParams *netparams.Params) string {
	return filepath.Join(dataDir, chainParams.Name)
}

// createWallet prompts the user for information needed to generate a new
// wallet and generates the wallet accordingly.  The new wallet will reside
// at the provided path.
func createWallet(cfg *config) error {
	dbDir := networkDir(cfg.AppDataDir.Value, activeNet)
	loader := wallet.NewLoader(
		activeNet, dbDir, true, cfg.DBTimeout,
	)

	reader := bufio.NewReader(os.Stdin)
	privPass, pubPass, seed, err := prompt.Setup(reader,
		[]byte(wallet.InsecurePubPassphrase), []byte(cfg.WalletPass))
	if err != nil {
		return err
	}

	// Restored wallets scan the chain again from a height the user
	// provides.  The default of zero scans from the beginning.
	restoreHeight, err := prompt.RestoreHeight(reader)
	if err != nil {
		return err
	}

	fmt.Println("Creating the wallet...")
	w, err := loader.CreateNewWallet(pubPass, privPass, seed, restoreHeight)
	if err != nil {
		return err
	}

	fmt.Println("Your wallet address is:", w.Address())

	if err := loader.UnloadWallet(); err != nil {
		return err
	}

	fmt.Println("The wallet has been created successfully.")
	return nil
}

// createSimulationWallet is intended to be called from the rpcclient and used
// to create a wallet for actors involved in simulations.  The seed words are
// written beside the database so test harnesses can restore it later.
func createSimulationWallet(cfg *config) error {
	// Simulation wallet password is 'password'.
	privPass := []byte("password")

	// Public passphrase is the default.
	pubPass := []byte(wallet.InsecurePubPassphrase)

	// Generate a random seed.
	seed := make([]byte, wallet.SeedLength)
	if _, err := rand.Read(seed); err != nil {
		return err
	}

	netDir := networkDir(cfg.AppDataDir.Value, activeNet)

	// Write the seed to disk, so that we can restore it later if need be,
	// for testing purposes.
	seedStr, err := pgpwordlist.ToStringChecksum(seed)
	if err != nil {
		return err
	}
	err = os.WriteFile(filepath.Join(netDir, "seed"), []byte(seedStr), 0600)
	if err != nil {
		return err
	}

	fmt.Println("Creating the wallet...")
	loader := wallet.NewLoader(
		activeNet, netDir, true, cfg.DBTimeout,
	)
	if _, err := loader.CreateNewWallet(pubPass, privPass, seed, 0); err != nil {
		return err
	}
	if err := loader.UnloadWallet(); err != nil {
		return err
	}

	fmt.Println("The wallet has been created successfully.")
	return nil
}

// checkCreateDir checks that the path exists and is a directory.
// If path does not exist, it is created.
func checkCreateDir(path string) error {
	if fi, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// Attempt data directory creation
			if err = os.MkdirAll(path, 0700); err != nil {
				return fmt.Errorf("cannot create directory: %s", err)
			}
		} else {
			return fmt.Errorf("error checking directory: %s", err)
		}
	} else {
		if !fi.IsDir() {
			return fmt.Errorf("path '%s' is not a directory", path)
		}
	}

	return nil
}
