// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jsonrpc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Registered method and concrete command types.  Commands are structs
// whose exported fields, in declaration order, are the method's
// positional parameters.  Pointer fields are optional parameters and may
// be omitted from the tail of the parameter list.
var (
	methodToConcreteType = make(map[string]reflect.Type)
	concreteTypeToMethod = make(map[reflect.Type]string)
	registerLock         sync.RWMutex
)

// MustRegisterCmd registers the command for the given method.  It panics
// when the method is already registered or the command is not a pointer
// to a struct, which identifies a programming error in the package's own
// init-time registrations.
func MustRegisterCmd(method string, cmd interface{}) {
	registerLock.Lock()
	defer registerLock.Unlock()

	if _, ok := methodToConcreteType[method]; ok {
		panic(fmt.Sprintf("method %q is already registered", method))
	}

	rt := reflect.TypeOf(cmd)
	if rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("command for method %q is not a struct "+
			"pointer", method))
	}

	methodToConcreteType[method] = rt.Elem()
	concreteTypeToMethod[rt.Elem()] = method
}

// RegisteredMethods returns a sorted-insensitive list of methods with
// registered commands.
func RegisteredMethods() []string {
	registerLock.RLock()
	defer registerLock.RUnlock()

	methods := make([]string, 0, len(methodToConcreteType))
	for method := range methodToConcreteType {
		methods = append(methods, method)
	}
	return methods
}

// CmdMethod returns the method for the passed command.  The provided
// command type must be a registered type.
func CmdMethod(cmd interface{}) (string, error) {
	rt := reflect.TypeOf(cmd)
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	registerLock.RLock()
	method, ok := concreteTypeToMethod[rt]
	registerLock.RUnlock()
	if !ok {
		return "", makeError(ErrRPCMethodNotFound, fmt.Sprintf(
			"%q is not a registered command type", rt))
	}
	return method, nil
}

// UnmarshalCmd unmarshals a JSON-RPC request into a suitable concrete
// command.  Required (non-pointer) parameters must all be present, while
// optional (pointer) parameters may be omitted from the end of the
// parameter list.
func UnmarshalCmd(r *Request) (interface{}, error) {
	registerLock.RLock()
	rt, ok := methodToConcreteType[r.Method]
	registerLock.RUnlock()
	if !ok {
		return nil, makeError(ErrRPCMethodNotFound, fmt.Sprintf(
			"unknown method %q", r.Method))
	}

	rv := reflect.New(rt)
	elem := rv.Elem()

	numFields := rt.NumField()
	if len(r.Params) > numFields {
		return nil, makeError(ErrRPCInvalidParams, fmt.Sprintf(
			"method %q takes at most %d parameters", r.Method,
			numFields))
	}

	for i := 0; i < numFields; i++ {
		field := elem.Field(i)
		if i >= len(r.Params) {
			if field.Kind() != reflect.Ptr {
				return nil, makeError(ErrRPCInvalidParams,
					fmt.Sprintf("method %q requires the "+
						"%q parameter", r.Method,
						paramName(rt.Field(i).Name)))
			}
			continue
		}

		dst := field.Addr().Interface()
		if err := json.Unmarshal(r.Params[i], dst); err != nil {
			return nil, makeError(ErrRPCInvalidParams, fmt.Sprintf(
				"parameter %q: %v",
				paramName(rt.Field(i).Name), err))
		}
	}

	return rv.Interface(), nil
}

// marshalParams converts a concrete command into its positional parameter
// list.  Unset optional parameters are dropped from the tail.
func marshalParams(cmd interface{}) ([]json.RawMessage, error) {
	rv := reflect.ValueOf(cmd)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, makeError(ErrRPCInvalidParams, fmt.Sprintf(
			"command type %T is not a struct", cmd))
	}

	// Find the last parameter that must be serialized so unset optional
	// trailing parameters are omitted entirely.
	last := -1
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if field.Kind() != reflect.Ptr || !field.IsNil() {
			last = i
		}
	}

	params := make([]json.RawMessage, 0, last+1)
	for i := 0; i <= last; i++ {
		raw, err := json.Marshal(rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		params = append(params, raw)
	}
	return params, nil
}

// paramName converts an exported field name to the lower camel case form
// used in error messages.
func paramName(fieldName string) string {
	return strings.ToLower(fieldName[:1]) + fieldName[1:]
}

// AuthenticateCmd defines the authenticate JSON-RPC command.
type AuthenticateCmd struct {
	Username   string
	Passphrase string
}

// GetInfoCmd defines the getinfo JSON-RPC command.
type GetInfoCmd struct{}

// GetBalanceCmd defines the getbalance JSON-RPC command.
type GetBalanceCmd struct{}

// GetSyncStatusCmd defines the getsyncstatus JSON-RPC command.
type GetSyncStatusCmd struct{}

// ConnectNodeCmd defines the connectnode JSON-RPC command.
type ConnectNodeCmd struct {
	Host string
	Port *uint16
}

// DisconnectNodeCmd defines the disconnectnode JSON-RPC command.
type DisconnectNodeCmd struct{}

// RescanBlockchainCmd defines the rescanblockchain JSON-RPC command.
type RescanBlockchainCmd struct {
	StartHeight *uint64
}

// GetBlockInfoCmd defines the getblockinfo JSON-RPC command.
type GetBlockInfoCmd struct {
	Height uint64
}

// SendToAddressCmd defines the sendtoaddress JSON-RPC command.  Amount
// is in whole coins.
type SendToAddressCmd struct {
	Address   string
	Amount    float64
	PaymentID *string
	Mixin     *uint8
}

// EstimateFeeCmd defines the estimatefee JSON-RPC command.
type EstimateFeeCmd struct {
	Address string
	Amount  float64
	Mixin   *uint8
}

// ListTransactionsCmd defines the listtransactions JSON-RPC command.
type ListTransactionsCmd struct {
	Count *int
	From  *int
}

// CreateDepositCmd defines the createdeposit JSON-RPC command.  Amount
// is in whole coins and the term is in days.
type CreateDepositCmd struct {
	Amount float64
	Term   uint32
}

// WithdrawDepositCmd defines the withdrawdeposit JSON-RPC command.
type WithdrawDepositCmd struct {
	DepositID string
}

// GetDepositCmd defines the getdeposit JSON-RPC command.
type GetDepositCmd struct {
	DepositID string
}

// ListDepositsCmd defines the listdeposits JSON-RPC command.
type ListDepositsCmd struct{}

// AddAddressBookEntryCmd defines the addaddressbookentry JSON-RPC
// command.
type AddAddressBookEntryCmd struct {
	Address     string
	Label       string
	Description *string
}

// UpdateAddressBookEntryCmd defines the updateaddressbookentry JSON-RPC
// command.
type UpdateAddressBookEntryCmd struct {
	Address     string
	Label       *string
	Description *string
}

// RemoveAddressBookEntryCmd defines the removeaddressbookentry JSON-RPC
// command.
type RemoveAddressBookEntryCmd struct {
	Address string
}

// MarkAddressUsedCmd defines the markaddressused JSON-RPC command.
type MarkAddressUsedCmd struct {
	Address string
}

// GetAddressBookEntryCmd defines the getaddressbookentry JSON-RPC
// command.
type GetAddressBookEntryCmd struct {
	Address string
}

// ListAddressBookCmd defines the listaddressbook JSON-RPC command.
type ListAddressBookCmd struct{}

// StartMiningCmd defines the startmining JSON-RPC command.
type StartMiningCmd struct {
	Threads    uint8
	Background *bool
}

// StopMiningCmd defines the stopmining JSON-RPC command.
type StopMiningCmd struct{}

// SetMiningPoolCmd defines the setminingpool JSON-RPC command.
type SetMiningPoolCmd struct {
	Pool   string
	Worker *string
}

// GetMiningInfoCmd defines the getmininginfo JSON-RPC command.
type GetMiningInfoCmd struct{}

// GetNewAddressCmd defines the getnewaddress JSON-RPC command.
type GetNewAddressCmd struct {
	Label *string
}

// ValidateAddressCmd defines the validateaddress JSON-RPC command.
type ValidateAddressCmd struct {
	Address string
}

// GetSeedPhraseCmd defines the getseedphrase JSON-RPC command.
type GetSeedPhraseCmd struct {
	Passphrase string
}

// ExportKeysCmd defines the exportkeys JSON-RPC command.
type ExportKeysCmd struct {
	Passphrase string
}

// WalletPassphraseCmd defines the walletpassphrase JSON-RPC command.
type WalletPassphraseCmd struct {
	Passphrase string
}

// WalletLockCmd defines the walletlock JSON-RPC command.
type WalletLockCmd struct{}

// HelpCmd defines the help JSON-RPC command.
type HelpCmd struct {
	Command *string
}

// StopCmd defines the stop JSON-RPC command.
type StopCmd struct{}

func init() {
	MustRegisterCmd("authenticate", (*AuthenticateCmd)(nil))
	MustRegisterCmd("getinfo", (*GetInfoCmd)(nil))
	MustRegisterCmd("getbalance", (*GetBalanceCmd)(nil))
	MustRegisterCmd("getsyncstatus", (*GetSyncStatusCmd)(nil))
	MustRegisterCmd("connectnode", (*ConnectNodeCmd)(nil))
	MustRegisterCmd("disconnectnode", (*DisconnectNodeCmd)(nil))
	MustRegisterCmd("rescanblockchain", (*RescanBlockchainCmd)(nil))
	MustRegisterCmd("getblockinfo", (*GetBlockInfoCmd)(nil))
	MustRegisterCmd("sendtoaddress", (*SendToAddressCmd)(nil))
	MustRegisterCmd("estimatefee", (*EstimateFeeCmd)(nil))
	MustRegisterCmd("listtransactions", (*ListTransactionsCmd)(nil))
	MustRegisterCmd("createdeposit", (*CreateDepositCmd)(nil))
	MustRegisterCmd("withdrawdeposit", (*WithdrawDepositCmd)(nil))
	MustRegisterCmd("getdeposit", (*GetDepositCmd)(nil))
	MustRegisterCmd("listdeposits", (*ListDepositsCmd)(nil))
	MustRegisterCmd("addaddressbookentry", (*AddAddressBookEntryCmd)(nil))
	MustRegisterCmd("updateaddressbookentry", (*UpdateAddressBookEntryCmd)(nil))
	MustRegisterCmd("removeaddressbookentry", (*RemoveAddressBookEntryCmd)(nil))
	MustRegisterCmd("markaddressused", (*MarkAddressUsedCmd)(nil))
	MustRegisterCmd("getaddressbookentry", (*GetAddressBookEntryCmd)(nil))
	MustRegisterCmd("listaddressbook", (*ListAddressBookCmd)(nil))
	MustRegisterCmd("startmining", (*StartMiningCmd)(nil))
	MustRegisterCmd("stopmining", (*StopMiningCmd)(nil))
	MustRegisterCmd("setminingpool", (*SetMiningPoolCmd)(nil))
	MustRegisterCmd("getmininginfo", (*GetMiningInfoCmd)(nil))
	MustRegisterCmd("getnewaddress", (*GetNewAddressCmd)(nil))
	MustRegisterCmd("validateaddress", (*ValidateAddressCmd)(nil))
	MustRegisterCmd("getseedphrase", (*GetSeedPhraseCmd)(nil))
	MustRegisterCmd("exportkeys", (*ExportKeysCmd)(nil))
	MustRegisterCmd("walletpassphrase", (*WalletPassphraseCmd)(nil))
	MustRegisterCmd("walletlock", (*WalletLockCmd)(nil))
	MustRegisterCmd("help", (*HelpCmd)(nil))
	MustRegisterCmd("stop", (*StopCmd)(nil))
}
