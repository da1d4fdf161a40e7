// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package legacyrpc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/rpc/jsonrpc"
	"github.com/fuegosuite/fuegowallet/wallet"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// serverVersion is reported by the getinfo method.
const serverVersion = "0.2.1"

// requestHandler is a handler function to handle an unmarshaled and parsed
// request into a marshalable response.  If the error is a *jsonrpc.RPCError
// or any of the above special error classes, the server will respond with
// the JSON-RPC appropiate error code.  All other errors use the wallet
// catch-all error code, jsonrpc.ErrRPCWallet.
type requestHandler func(interface{}, *wallet.Wallet) (interface{}, error)

var rpcHandlers = map[string]struct {
	handler requestHandler

	// noWallet is set on the few methods that can be answered before a
	// wallet has been loaded.
	noWallet bool
}{
	"addaddressbookentry":    {handler: addAddressBookEntry},
	"connectnode":            {handler: connectNode},
	"createdeposit":          {handler: createDeposit},
	"disconnectnode":         {handler: disconnectNode},
	"estimatefee":            {handler: estimateFee},
	"exportkeys":             {handler: exportKeys},
	"getaddressbookentry":    {handler: getAddressBookEntry},
	"getbalance":             {handler: getBalance},
	"getblockinfo":           {handler: getBlockInfo},
	"getdeposit":             {handler: getDeposit},
	"getinfo":                {handler: getInfo},
	"getmininginfo":          {handler: getMiningInfo},
	"getnewaddress":          {handler: getNewAddress},
	"getseedphrase":          {handler: getSeedPhrase},
	"getsyncstatus":          {handler: getSyncStatus},
	"help":                   {handler: help, noWallet: true},
	"listaddressbook":        {handler: listAddressBook},
	"listdeposits":           {handler: listDeposits},
	"listtransactions":       {handler: listTransactions},
	"markaddressused":        {handler: markAddressUsed},
	"removeaddressbookentry": {handler: removeAddressBookEntry},
	"rescanblockchain":       {handler: rescanBlockchain},
	"sendtoaddress":          {handler: sendToAddress},
	"setminingpool":          {handler: setMiningPool},
	"startmining":            {handler: startMining},
	"stopmining":             {handler: stopMining},
	"updateaddressbookentry": {handler: updateAddressBookEntry},
	"validateaddress":        {handler: validateAddress},
	"walletlock":             {handler: walletLock},
	"walletpassphrase":       {handler: walletPassphrase},
	"withdrawdeposit":        {handler: withdrawDeposit},
}

// helpDescs contains the one-line usage for every implemented method,
// sorted and concatenated by the help handler.
var helpDescs = map[string]string{
	"addaddressbookentry":    "addaddressbookentry address label (description) - Add a labeled address to the address book",
	"connectnode":            "connectnode host (port) - Attach the session to a fuegod node",
	"createdeposit":          "createdeposit amount term - Lock an amount for a term of days to earn interest",
	"disconnectnode":         "disconnectnode - Detach the session from its node",
	"estimatefee":            "estimatefee address amount (mixin) - Estimate the fee a transfer would pay",
	"exportkeys":             "exportkeys passphrase - Export the seed phrase and key pair",
	"getaddressbookentry":    "getaddressbookentry address - Look up one address book entry",
	"getbalance":             "getbalance - Get the total and unlocked balances",
	"getblockinfo":           "getblockinfo height - Get the summary of the block at a height",
	"getdeposit":             "getdeposit depositid - Look up one term deposit",
	"getinfo":                "getinfo - Get a snapshot of the wallet session",
	"getmininginfo":          "getmininginfo - Get the mining engine state",
	"getnewaddress":          "getnewaddress (label) - Derive the next receive address",
	"getseedphrase":          "getseedphrase passphrase - Export the seed recovery phrase",
	"getsyncstatus":          "getsyncstatus - Get the sync engine state",
	"help":                   "help (command) - Get command usage",
	"listaddressbook":        "listaddressbook - List all address book entries",
	"listdeposits":           "listdeposits - List all term deposits",
	"listtransactions":       "listtransactions (count) (from) - List recent transactions, newest first",
	"markaddressused":        "markaddressused address - Bump an address book entry's use counter",
	"removeaddressbookentry": "removeaddressbookentry address - Remove an address book entry",
	"rescanblockchain":       "rescanblockchain (startheight) - Restart sync from an earlier height",
	"sendtoaddress":          "sendtoaddress address amount (paymentid) (mixin) - Send an amount to an address",
	"setminingpool":          "setminingpool pool (worker) - Set the mining pool endpoint",
	"startmining":            "startmining threads (background) - Start the mining engine",
	"stopmining":             "stopmining - Stop the mining engine",
	"updateaddressbookentry": "updateaddressbookentry address (label) (description) - Relabel an address book entry",
	"validateaddress":        "validateaddress address - Check an address for this network",
	"walletlock":             "walletlock - Seal the wallet's private key material",
	"walletpassphrase":       "walletpassphrase passphrase - Unseal the wallet's private key material",
	"withdrawdeposit":        "withdrawdeposit depositid - Spend an unlocked deposit with its interest",
}

// lazyHandler is a closure over a requestHandler or passthrough request with
// the RPC server's wallet.  All functions include the necessary wallet
// lookups and are ready to be invoked.
type lazyHandler func() (interface{}, *jsonrpc.RPCError)

// lazyApplyHandler looks up the best request handler func for the method,
// returning a closure that will execute it with the (required) wallet.
func lazyApplyHandler(request *jsonrpc.Request, w *wallet.Wallet) lazyHandler {
	handlerData, ok := rpcHandlers[request.Method]
	if !ok {
		return func() (interface{}, *jsonrpc.RPCError) {
			return nil, jsonrpc.NewRPCError(
				jsonrpc.ErrRPCMethodNotFound,
				"unknown method "+request.Method)
		}
	}

	return func() (interface{}, *jsonrpc.RPCError) {
		cmd, err := jsonrpc.UnmarshalCmd(request)
		if err != nil {
			return nil, jsonError(err)
		}
		if w == nil && !handlerData.noWallet {
			return nil, &ErrUnloadedWallet
		}

		resp, err := handlerData.handler(cmd, w)
		if err != nil {
			return nil, jsonError(err)
		}
		return resp, nil
	}
}

// getInfo assembles the combined session snapshot clients poll for their
// overview screens.
func getInfo(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	snap := w.Snapshot()

	return &jsonrpc.InfoResult{
		Version:         serverVersion,
		Address:         snap.Account.Address,
		Balance:         snap.Account.Balance.ToXFG(),
		UnlockedBalance: snap.Account.UnlockedBalance.ToXFG(),
		Unlocked:        !w.Locked(),
		Connected:       snap.Account.Connected,
		NodeHost:        snap.Network.Node,
		SyncHeight:      snap.Network.SyncHeight,
		NetworkHeight:   snap.Network.NetworkHeight,
		PeerCount:       snap.Network.PeerCount,
		MiningActive:    snap.Mining.Mining,
		Network:         w.ChainParams().Name,
	}, nil
}

func getBalance(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	snap := w.Snapshot()
	return &jsonrpc.BalanceResult{
		Balance:         snap.Account.Balance.ToXFG(),
		UnlockedBalance: snap.Account.UnlockedBalance.ToXFG(),
	}, nil
}

func getSyncStatus(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	snap := w.Snapshot()

	state := "idle"
	switch {
	case snap.Network.Synced:
		state = "synced"
	case snap.Network.Syncing:
		state = "syncing"
	}

	return &jsonrpc.SyncStatusResult{
		State:         state,
		SyncHeight:    snap.Network.SyncHeight,
		NetworkHeight: snap.Network.NetworkHeight,
		Progress:      snap.Network.Progress,
		PeerCount:     snap.Network.PeerCount,
		Connection:    snap.Network.Connection.String(),
		LastError:     snap.Network.OracleError,
	}, nil
}

func connectNode(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.ConnectNodeCmd)

	port := cmd.Port
	if port == nil {
		p, err := strconv.ParseUint(w.ChainParams().RPCClientPort, 10, 16)
		if err != nil {
			return nil, err
		}
		p16 := uint16(p)
		port = &p16
	}

	return nil, w.Connect(cmd.Host, *port)
}

func disconnectNode(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	return nil, w.Disconnect()
}

func rescanBlockchain(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.RescanBlockchainCmd)

	var start uint64
	if cmd.StartHeight != nil {
		start = *cmd.StartHeight
	}
	return nil, w.RescanBlockchain(start)
}

func getBlockInfo(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.GetBlockInfoCmd)

	info, err := w.BlockInfo(cmd.Height)
	if err != nil {
		return nil, err
	}
	return &jsonrpc.BlockInfoResult{
		Height:     info.Height,
		Hash:       info.Hash,
		Timestamp:  info.Timestamp.Unix(),
		Difficulty: info.Difficulty,
		Reward:     info.Reward.ToXFG(),
		TxCount:    info.TxCount,
	}, nil
}

func sendToAddress(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.SendToAddressCmd)

	amount, err := unit.NewAmount(cmd.Amount)
	if err != nil {
		return nil, ErrNeedPositiveAmount
	}

	paymentID := fn.None[string]()
	if cmd.PaymentID != nil {
		paymentID = fn.Some(*cmd.PaymentID)
	}
	mixin := uint8(rules.DefaultMixin)
	if cmd.Mixin != nil {
		mixin = *cmd.Mixin
	}

	rec, err := w.Send(cmd.Address, amount, paymentID, mixin)
	if err != nil {
		return nil, err
	}
	return &jsonrpc.SendToAddressResult{
		TxID: rec.ID,
		Hash: rec.Hash,
		Fee:  rec.Fee.ToXFG(),
	}, nil
}

func estimateFee(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.EstimateFeeCmd)

	amount, err := unit.NewAmount(cmd.Amount)
	if err != nil {
		return nil, ErrNeedPositiveAmount
	}
	mixin := uint8(rules.DefaultMixin)
	if cmd.Mixin != nil {
		mixin = *cmd.Mixin
	}

	fee, err := w.EstimateFee(cmd.Address, amount, mixin)
	if err != nil {
		return nil, err
	}
	return fee.ToXFG(), nil
}

func listTransactions(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.ListTransactionsCmd)

	count := 10
	if cmd.Count != nil {
		count = *cmd.Count
	}
	from := 0
	if cmd.From != nil {
		from = *cmd.From
	}
	if count < 0 {
		return nil, InvalidParameterError{
			fmt.Errorf("negative count: %d", count),
		}
	}
	if from < 0 {
		return nil, InvalidParameterError{
			fmt.Errorf("negative from: %d", from),
		}
	}

	recs, err := w.ListTransactions(count, from)
	if err != nil {
		return nil, err
	}

	results := make([]jsonrpc.TransactionResult, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		results = append(results, jsonrpc.TransactionResult{
			TxID:          rec.ID,
			Hash:          rec.Hash,
			Amount:        rec.Amount.ToXFG(),
			Fee:           rec.Fee.ToXFG(),
			Timestamp:     rec.Timestamp.Unix(),
			Height:        rec.Height,
			Confirmations: rec.Confirmations,
			Confirmed:     rec.Confirmed,
			Counterparty:  rec.Counterparty,
			PaymentID:     rec.PaymentID,
		})
	}
	return results, nil
}

// depositResult converts a session deposit to its client representation.
func depositResult(d *wallet.Deposit) *jsonrpc.DepositResult {
	return &jsonrpc.DepositResult{
		DepositID:    d.ID.String(),
		Amount:       d.Amount.ToXFG(),
		Term:         d.TermDays,
		Rate:         d.Rate(),
		Interest:     d.Interest.ToXFG(),
		Status:       d.Status.String(),
		UnlockHeight: d.UnlockHeight,
		CreatingTxID: d.CreatingTxID,
		SpendingTxID: d.SpendingTxID,
		CreatedAt:    d.CreatedAt.Unix(),
	}
}

func createDeposit(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.CreateDepositCmd)

	amount, err := unit.NewAmount(cmd.Amount)
	if err != nil {
		return nil, ErrNeedPositiveAmount
	}

	deposit, err := w.CreateDeposit(amount, cmd.Term)
	if err != nil {
		return nil, err
	}
	return depositResult(deposit), nil
}

func withdrawDeposit(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.WithdrawDepositCmd)

	id, err := uuid.Parse(cmd.DepositID)
	if err != nil {
		return nil, InvalidParameterError{err}
	}

	rec, err := w.WithdrawDeposit(id)
	if err != nil {
		return nil, err
	}
	return &jsonrpc.SendToAddressResult{
		TxID: rec.ID,
		Hash: rec.Hash,
		Fee:  rec.Fee.ToXFG(),
	}, nil
}

func getDeposit(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.GetDepositCmd)

	id, err := uuid.Parse(cmd.DepositID)
	if err != nil {
		return nil, InvalidParameterError{err}
	}

	deposit, err := w.Deposit(id)
	if err != nil {
		return nil, err
	}
	return depositResult(deposit), nil
}

func listDeposits(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	deposits := w.Deposits()

	results := make([]*jsonrpc.DepositResult, 0, len(deposits))
	for i := range deposits {
		results = append(results, depositResult(&deposits[i]))
	}
	return results, nil
}

// bookEntryResult converts an address book entry to its client
// representation.
func bookEntryResult(e *wallet.AddressBookEntry) *jsonrpc.AddressBookEntryResult {
	result := &jsonrpc.AddressBookEntryResult{
		Address:     e.Address,
		Label:       e.Label,
		Description: e.Description,
		CreatedTime: e.CreatedTime.Unix(),
		UseCount:    e.UseCount,
	}
	if !e.LastUsedTime.IsZero() {
		result.LastUsedTime = e.LastUsedTime.Unix()
	}
	return result
}

func addAddressBookEntry(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.AddAddressBookEntryCmd)

	desc := ""
	if cmd.Description != nil {
		desc = *cmd.Description
	}
	return w.AddAddressBookEntry(cmd.Address, cmd.Label, desc)
}

func updateAddressBookEntry(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.UpdateAddressBookEntryCmd)

	label := fn.None[string]()
	if cmd.Label != nil {
		label = fn.Some(*cmd.Label)
	}
	desc := fn.None[string]()
	if cmd.Description != nil {
		desc = fn.Some(*cmd.Description)
	}
	return w.UpdateAddressBookEntry(cmd.Address, label, desc)
}

func removeAddressBookEntry(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.RemoveAddressBookEntryCmd)
	return w.RemoveAddressBookEntry(cmd.Address)
}

func markAddressUsed(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.MarkAddressUsedCmd)
	return w.MarkAddressUsed(cmd.Address)
}

func getAddressBookEntry(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.GetAddressBookEntryCmd)

	entry, ok := w.AddressBookEntry(cmd.Address)
	if !ok {
		return nil, wallet.Error{
			ErrorCode:   wallet.ErrNotFound,
			Description: "address not found in the address book",
		}
	}
	return bookEntryResult(&entry), nil
}

func listAddressBook(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	book := w.AddressBook()

	results := make([]*jsonrpc.AddressBookEntryResult, 0, len(book))
	for i := range book {
		results = append(results, bookEntryResult(&book[i]))
	}
	return results, nil
}

func startMining(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.StartMiningCmd)

	background := false
	if cmd.Background != nil {
		background = *cmd.Background
	}
	return nil, w.StartMining(int(cmd.Threads), background)
}

func stopMining(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	return nil, w.StopMining()
}

func setMiningPool(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.SetMiningPoolCmd)

	worker := ""
	if cmd.Worker != nil {
		worker = *cmd.Worker
	}
	return nil, w.SetMiningPool(cmd.Pool, worker)
}

func getMiningInfo(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	snap := w.Snapshot()

	result := &jsonrpc.MiningInfoResult{
		Active:        snap.Mining.Mining,
		Threads:       uint8(snap.Mining.Threads),
		Background:    snap.Mining.Background,
		Hashrate:      snap.Mining.Hashrate,
		TotalHashes:   snap.Mining.TotalHashes,
		ValidShares:   snap.Mining.ValidShares,
		InvalidShares: snap.Mining.InvalidShares,
		Pool:          snap.Mining.PoolAddress,
		Worker:        snap.Mining.WorkerName,
	}
	if !snap.Mining.LastShareTime.IsZero() {
		result.LastShareTime = snap.Mining.LastShareTime.Unix()
	}
	return result, nil
}

func getNewAddress(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.GetNewAddressCmd)

	label := ""
	if cmd.Label != nil {
		label = *cmd.Label
	}
	return w.NewAddress(label)
}

func validateAddress(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.ValidateAddressCmd)

	result := &jsonrpc.ValidateAddressResult{
		IsValid: w.ValidateAddress(cmd.Address),
	}
	if result.IsValid {
		result.Address = cmd.Address
		result.IsMine = cmd.Address == w.Address()
	}
	return result, nil
}

func getSeedPhrase(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.GetSeedPhraseCmd)
	return w.SeedPhrase([]byte(cmd.Passphrase))
}

func exportKeys(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.ExportKeysCmd)

	keys, err := w.Keys([]byte(cmd.Passphrase))
	if err != nil {
		return nil, err
	}
	return &jsonrpc.ExportKeysResult{
		SeedPhrase: keys.SeedPhrase,
		ViewKey:    keys.ViewKey,
		SpendKey:   keys.SpendKey,
	}, nil
}

func walletPassphrase(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.WalletPassphraseCmd)
	return nil, w.Unlock([]byte(cmd.Passphrase))
}

func walletLock(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	w.Lock()
	return nil, nil
}

func help(icmd interface{}, w *wallet.Wallet) (interface{}, error) {
	cmd := icmd.(*jsonrpc.HelpCmd)

	if cmd.Command != nil && *cmd.Command != "" {
		usage, ok := helpDescs[*cmd.Command]
		if !ok {
			return nil, InvalidParameterError{
				fmt.Errorf("no help for method %q", *cmd.Command),
			}
		}
		return usage, nil
	}

	methods := make([]string, 0, len(helpDescs))
	for method := range helpDescs {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	usages := make([]string, 0, len(methods))
	for _, method := range methods {
		usages = append(usages, helpDescs[method])
	}
	return strings.Join(usages, "\n"), nil
}
