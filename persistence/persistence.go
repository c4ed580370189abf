// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package persistence - every collection of a session in one table
//
// the stored schema version gates the whole store: if it differs from
// CurrentVersion everything is erased before any collection is bound
package persistence

import (
	"fmt"
	"reflect"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/storage"
)

// CurrentVersion - bump whenever any codec or key function changes
const CurrentVersion = 14

// VersionKey - reserved key holding the schema version
const VersionKey = "\x00VERSION"

// Registry - the collections of one session
//
// each field is bound at start-up to the namespace in its tag
type Registry struct {
	AccountsLite        *collection.Collection[address.Address, record.AccountLite]           `namespace:"accountsLite"`
	AccountsFull        *collection.Collection[address.Address, record.AccountFull]           `namespace:"accountsFull"`
	Wallets             *collection.Collection[address.Address, record.WalletV4]              `namespace:"wallets"`
	Transactions        *collection.Collection[collection.AddressLt, record.Transaction]      `namespace:"transactions"`
	TransactionHistory  *collection.Collection[address.Address, record.History]               `namespace:"transactionHistory"`
	PendingTransactions *collection.Collection[address.Address, record.Pending]               `namespace:"pendingTransactions"`
	JettonWallets       *collection.Collection[address.Address, record.JettonWallet]          `namespace:"jettonWallets"`
	JettonMasters       *collection.Collection[address.Address, record.JettonMaster]          `namespace:"jettonMasters"`
	WalletJettons       *collection.Collection[address.Address, record.WalletJettons]         `namespace:"walletJettons"`
	StakingPools        *collection.Collection[collection.AddressTarget, record.StakingPool]  `namespace:"stakingPools"`
	Config              *collection.Collection[collection.Void, record.Config]                `namespace:"config"`
	AppManifests        *collection.Collection[string, record.AppManifest]                    `namespace:"appManifests"`
	AppData             *collection.Collection[string, record.AppData]                        `namespace:"appData"`
	HoldersStatus       *collection.Collection[address.Address, record.HoldersStatus]         `namespace:"holdersStatus"`
	HoldersState        *collection.Collection[address.Address, record.HoldersState]          `namespace:"holdersState"`
	HoldersOfflineApp   *collection.Collection[collection.Void, record.OfflineApp]            `namespace:"holdersOfflineApp"`
	ProcessingState     *collection.Collection[collection.KeyAddress, record.ProcessingState] `namespace:"processingState"`
	Settings            *collection.Collection[collection.Void, record.Settings]              `namespace:"settings"`

	store   storage.Handle
	testnet bool
}

// every collection field satisfies this
type binder interface {
	Initialise(env collection.Environment, namespace string) error
	Describe() (string, string)
}

// Namespace - one row of the registry table
type Namespace struct {
	Field     string
	Name      string
	KeyKind   string
	ValueType string
}

// New - check the schema version then bind every collection
func New(log *logger.L, store storage.Handle, testnet bool) (*Registry, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == store {
		return nil, fault.ErrMissingParameters
	}

	migrate(log, store)

	r := &Registry{
		store:   store,
		testnet: testnet,
	}
	env := collection.Environment{
		Log:     log,
		Store:   store,
		Testnet: testnet,
	}

	err := r.bind(env)
	if nil != err {
		log.Criticalf("bind collections: error: %s", err)
		return nil, err
	}
	return r, nil
}

// Testnet - network flavour of every address key
func (r *Registry) Testnet() bool {
	return r.testnet
}

// Store - the backing store
func (r *Registry) Store() storage.Handle {
	return r.store
}

// StoredVersion - schema version found in a store, zero if none
func StoredVersion(store storage.Handle) int64 {
	version, ok := store.GetNumber(VersionKey)
	if !ok {
		return 0
	}
	return version
}

// wipe the store if it was written by a different schema
func migrate(log *logger.L, store storage.Handle) {
	version, ok := store.GetNumber(VersionKey)
	if ok && CurrentVersion == version {
		log.Debugf("schema version: %d", version)
		return
	}

	if ok {
		log.Warnf("schema version: %d  current: %d  erase all records", version, CurrentVersion)
	} else {
		log.Infof("no schema version  erase all records")
	}
	store.Clear()
	store.PutNumber(VersionKey, CurrentVersion)
}

func (r *Registry) bind(env collection.Environment) error {

	// get write access by using pointer + Elem()
	registryType := reflect.TypeOf(*r)
	registryValue := reflect.ValueOf(r).Elem()

	seen := make(map[string]string)

	for i := 0; i < registryType.NumField(); i += 1 {
		fieldInfo := registryType.Field(i)
		if !fieldInfo.IsExported() {
			continue
		}

		namespace := fieldInfo.Tag.Get("namespace")
		if "" == namespace {
			return fmt.Errorf("registry: %s  has no namespace", fieldInfo.Name)
		}
		if previous, ok := seen[namespace]; ok {
			return fmt.Errorf("registry: %s  reuses namespace: %q of: %s", fieldInfo.Name, namespace, previous)
		}
		seen[namespace] = fieldInfo.Name

		if reflect.Ptr != fieldInfo.Type.Kind() {
			return fault.ErrInvalidStructPointer
		}
		c := reflect.New(fieldInfo.Type.Elem())
		b, ok := c.Interface().(binder)
		if !ok {
			return fault.ErrInvalidStructPointer
		}
		err := b.Initialise(env, namespace)
		if nil != err {
			return fmt.Errorf("registry: %s  namespace: %q  error: %w", fieldInfo.Name, namespace, err)
		}
		registryValue.Field(i).Set(c)
	}
	return nil
}

// Namespaces - the registry table
func (r *Registry) Namespaces() []Namespace {
	registryType := reflect.TypeOf(*r)
	registryValue := reflect.ValueOf(r).Elem()

	result := make([]Namespace, 0, registryType.NumField())
	for i := 0; i < registryType.NumField(); i += 1 {
		fieldInfo := registryType.Field(i)
		if !fieldInfo.IsExported() {
			continue
		}
		b, ok := registryValue.Field(i).Interface().(binder)
		if !ok {
			continue
		}
		name, kind := b.Describe()
		result = append(result, Namespace{
			Field:     fieldInfo.Name,
			Name:      name,
			KeyKind:   kind,
			ValueType: valueType(fieldInfo.Type),
		})
	}
	return result
}

// the record type is the type of the Get result
func valueType(t reflect.Type) string {
	method, ok := t.MethodByName("Get")
	if !ok || 1 != method.Type.NumOut() {
		return "?"
	}
	return method.Type.Out(0).Elem().String()
}
