// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/fuegosuite/fuegowallet/rpc/legacyrpc"
	"github.com/fuegosuite/fuegowallet/txhist"
	"github.com/fuegosuite/fuegowallet/wallet"
)

// historyDBName is the filename of the sqlite transaction history database
// created inside the network directory when no postgres DSN is configured.
const historyDBName = "txhistory.db"

var cfg *config

func main() {
	// Work around defer not working after os.Exit.
	if err := walletMain(); err != nil {
		os.Exit(1)
	}
}

// walletMain is a work-around main function that is required since deferred
// functions (such as log flushing) are not called with calls to os.Exit.
// Instead, main runs this function and checks for a non-nil error, at which
// point any defers have already run, and if the error is non-nil, the program
// can be exited with an error exit status.
func walletMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	tcfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Show version at startup.
	log.Infof("Version %s", version())

	if cfg.Profile != "" {
		go func() {
			listenAddr := net.JoinHostPort("", cfg.Profile)
			log.Infof("Profile server listening on %s", listenAddr)
			profileRedirect := http.RedirectHandler("/debug/pprof",
				http.StatusSeeOther)
			http.Handle("/", profileRedirect)
			log.Errorf("%v", http.ListenAndServe(listenAddr, nil))
		}()
	}

	netDir := networkDir(cfg.AppDataDir.Value, activeNet)
	if err := checkCreateDir(netDir); err != nil {
		log.Errorf("%v", err)
		return err
	}

	// Open the transaction history store.  The sqlite backend lives in the
	// network directory; a postgres DSN switches to the shared backend.
	var history *txhist.Store
	if cfg.HistoryDSN.ExplicitlySet() && cfg.HistoryDSN.Value != "" {
		history, err = txhist.OpenPostgres(cfg.HistoryDSN.Value)
	} else {
		history, err = txhist.OpenSQLite(
			filepath.Join(netDir, historyDBName),
		)
	}
	if err != nil {
		log.Errorf("Unable to open transaction history: %v", err)
		return err
	}
	defer func() {
		if err := history.Close(); err != nil {
			log.Errorf("Failed to close transaction history: %v", err)
		}
	}()

	loader := wallet.NewLoader(
		activeNet, netDir, true, cfg.DBTimeout,
		wallet.WithHistory(history),
	)

	// Add interrupt handlers to shutdown the various process components
	// before exiting.  Interrupt handlers run in LIFO order, so the wallet
	// (which should be closed last) is added first.
	addInterruptHandler(func() {
		err := loader.UnloadWallet()
		if err != nil && err != wallet.ErrNotLoaded {
			log.Errorf("Failed to close wallet: %v", err)
		}
	})

	// Create and start the RPC server to serve wallet client connections.
	rpcs, err := startRPCServer(loader)
	if err != nil {
		log.Errorf("Unable to create RPC server: %v", err)
		return err
	}

	// Shutdown the server if an interrupt signal is received.
	addInterruptHandler(rpcs.Stop)

	// A shutdown request through the RPC server walks the same path as a
	// signal.
	go func() {
		<-rpcs.RequestProcessShutdown()
		simulateInterrupt()
	}()

	if !cfg.NoInitialLoad {
		// Load the wallet database.  It must have been created already
		// or this will return an appropriate error.
		w, err := loader.OpenExistingWallet(
			[]byte(cfg.WalletPass), nil,
		)
		if err != nil {
			log.Errorf("%v", err)
			return err
		}

		// Attach the configured fuegod node.  Failure here is not
		// fatal: the wallet stays usable offline and clients may issue
		// connectnode later.
		host, portStr, err := net.SplitHostPort(cfg.RPCConnect)
		if err == nil {
			port, perr := strconv.ParseUint(portStr, 10, 16)
			if perr != nil {
				err = perr
			} else if cerr := w.Connect(host, uint16(port)); cerr != nil {
				err = cerr
			}
		}
		if err != nil {
			log.Warnf("Unable to attach to node %s: %v -- "+
				"running disconnected", cfg.RPCConnect, err)
		}
	}

	<-interruptHandlersDone
	log.Info("Shutdown complete")
	return nil
}

// startRPCServer creates and returns the RPC server listening on the
// configured interfaces.  Connections beyond the configured maximums are
// refused at the listener.
func startRPCServer(loader *wallet.Loader) (*legacyrpc.Server, error) {
	listeners, err := makeListeners(cfg.RPCListeners)
	if err != nil {
		return nil, err
	}

	opts := legacyrpc.Options{
		Username:            cfg.Username,
		Password:            cfg.Password,
		MaxPOSTClients:      cfg.RPCMaxClients,
		MaxWebsocketClients: cfg.RPCMaxWebsockets,
	}
	server := legacyrpc.NewServer(&opts, loader, listeners)

	// The RPC server gains access to the loaded wallet as soon as one is
	// available.
	loader.RunAfterLoad(server.RegisterWallet)

	return server, nil
}

// makeListeners opens a listener for each normalized listen address, with
// the accepted connection count limited per listener.  The addresses are
// bound concurrently and the first bind failure closes whatever was
// already opened.
func makeListeners(normalizedListenAddrs []string) ([]net.Listener, error) {
	if len(normalizedListenAddrs) == 0 {
		return nil, fmt.Errorf("no valid RPC listen addresses")
	}

	// Bound the number of open connections per listener to the sum of
	// the configured client maximums.
	maxConns := int(cfg.RPCMaxClients + cfg.RPCMaxWebsockets)

	listeners := make([]net.Listener, len(normalizedListenAddrs))
	var g errgroup.Group
	for i, addr := range normalizedListenAddrs {
		i, addr := i, addr
		g.Go(func() error {
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			listeners[i] = netutil.LimitListener(lis, maxConns)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Close the listeners that did bind, the caller has no
		// handle on them yet.
		for _, l := range listeners {
			if l != nil {
				l.Close()
			}
		}
		return nil, err
	}
	return listeners, nil
}
