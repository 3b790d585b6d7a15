// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package emulator implements the provider interface against an in-memory
// ledger state. State lives in two independently versioned atomic cells
// holding immutable snapshots; all mutation is expressed as read-compute-CAS
// with retry on conflict, so submissions are linearized without locks.
package emulator

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/provider"
	"github.com/blinklabs-io/chainquery/query"
	"github.com/blinklabs-io/chainquery/rules"
	"github.com/jinzhu/copier"
)

// Emulator applies the configured rule engine transactionally against an
// in-memory UTxO set
type Emulator struct {
	engine rules.Engine
	logger *slog.Logger
	state  atomic.Pointer[rules.State]
	ledCtx atomic.Pointer[rules.Context]
}

// New creates an Emulator. By default it starts with an empty UTxO set, the
// default rule engine, and a preview-network context.
func New(opts ...EmulatorOptionFunc) *Emulator {
	e := &Emulator{
		engine: rules.NewEngine(),
		logger: slog.New(slog.DiscardHandler),
	}
	initialState := rules.State{Utxos: ledger.UtxoMap{}}
	initialCtx := rules.Context{
		NetworkId:  ledger.NetworkPreview.Id,
		SlotConfig: ledger.NetworkPreview.SlotConfig,
	}
	e.state.Store(&initialState)
	e.ledCtx.Store(&initialCtx)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SubmitTx validates the transaction against the current state and, on
// success, installs the successor state. On a CAS conflict the whole
// validate+apply step is recomputed against the latest state, because
// validation itself is state-dependent. Validation failures are returned as
// SubmitError values and never mutate state.
func (e *Emulator) SubmitTx(
	ctx context.Context,
	tx *ledger.Transaction,
) (ledger.Blake2b256, error) {
	txHash, err := tx.Hash()
	if err != nil {
		return ledger.Blake2b256{}, provider.ValidationError{
			Message: err.Error(),
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return ledger.Blake2b256{}, provider.ConnectionError{Cause: err}
		}
		curState := e.state.Load()
		curCtx := e.ledCtx.Load()
		newState, err := e.engine.Apply(*curCtx, *curState, tx)
		if err != nil {
			return ledger.Blake2b256{}, classifyRuleError(err)
		}
		if e.state.CompareAndSwap(curState, &newState) {
			e.logger.Debug(
				"transaction applied",
				"tx_hash", txHash.String(),
				"slot", curCtx.Slot,
				"utxo_count", len(newState.Utxos),
			)
			return txHash, nil
		}
		// A concurrent submitter won the race; retry against the new state
	}
}

// SubmitTxBytes decodes and submits a CBOR-encoded transaction
func (e *Emulator) SubmitTxBytes(
	ctx context.Context,
	txCbor []byte,
) (ledger.Blake2b256, error) {
	tx, err := ledger.NewTransactionFromCbor(txCbor)
	if err != nil {
		return ledger.Blake2b256{}, provider.ValidationError{
			Message: err.Error(),
		}
	}
	return e.SubmitTx(ctx, tx)
}

// FindUtxos evaluates a query against an atomically loaded snapshot of the
// live UTxO set
func (e *Emulator) FindUtxos(
	ctx context.Context,
	q query.UtxoQuery,
) ([]ledger.Utxo, error) {
	curState := e.state.Load()
	return query.Evaluate(q, curState.Utxos)
}

// LatestParams returns the protocol parameters from the current context
func (e *Emulator) LatestParams(
	ctx context.Context,
) (ledger.ProtocolParameters, error) {
	return e.ledCtx.Load().Params, nil
}

// CurrentSlot returns the current slot from the context cell
func (e *Emulator) CurrentSlot(ctx context.Context) (uint64, error) {
	return e.ledCtx.Load().Slot, nil
}

// SetSlot advances the time-dependent part of the context. This uses its own
// CAS cell and is independent of UTxO-set mutation.
func (e *Emulator) SetSlot(slot uint64) {
	for {
		curCtx := e.ledCtx.Load()
		newCtx := *curCtx
		newCtx.Slot = slot
		if e.ledCtx.CompareAndSwap(curCtx, &newCtx) {
			return
		}
	}
}

// SetParams replaces the protocol parameters in the context
func (e *Emulator) SetParams(params ledger.ProtocolParameters) {
	for {
		curCtx := e.ledCtx.Load()
		newCtx := *curCtx
		newCtx.Params = params
		if e.ledCtx.CompareAndSwap(curCtx, &newCtx) {
			return
		}
	}
}

// AddUtxos installs UTxOs directly into the live set, outside of any ledger
// rules. It's intended for seeding initial or test state.
func (e *Emulator) AddUtxos(utxos ...ledger.Utxo) {
	for {
		curState := e.state.Load()
		newUtxos := curState.Utxos.Clone()
		for _, tmpUtxo := range utxos {
			newUtxos[tmpUtxo.Id] = tmpUtxo.Output
		}
		newState := rules.State{Utxos: newUtxos}
		if e.state.CompareAndSwap(curState, &newState) {
			return
		}
	}
}

// Snapshot produces an independent Emulator whose initial state is a
// point-in-time copy of the current UTxO set and context. Mutations on
// either instance are invisible to the other.
func (e *Emulator) Snapshot() *Emulator {
	snap := &Emulator{
		engine: e.engine,
		logger: e.logger,
	}
	curState := e.state.Load()
	curCtx := e.ledCtx.Load()
	newState := rules.State{Utxos: curState.Utxos.Clone()}
	var newCtx rules.Context
	if err := copier.CopyWithOption(
		&newCtx,
		curCtx,
		copier.Option{DeepCopy: true},
	); err != nil {
		// Context fields are plain values; fall back to a direct copy
		newCtx = *curCtx
	}
	snap.state.Store(&newState)
	snap.ledCtx.Store(&newCtx)
	return snap
}

// classifyRuleError adapts rule engine violations to the SubmitError
// taxonomy. The emulator doesn't interpret why a rule failed beyond this
// mapping.
func classifyRuleError(err error) provider.SubmitError {
	var badInputs rules.BadInputsUtxoError
	if errors.As(err, &badInputs) {
		return provider.UtxoNotAvailableError{Inputs: badInputs.Inputs}
	}
	var badCollateral rules.BadCollateralInputsError
	if errors.As(err, &badCollateral) {
		return provider.UtxoNotAvailableError{Inputs: badCollateral.Inputs}
	}
	var badRefInputs rules.BadReferenceInputsError
	if errors.As(err, &badRefInputs) {
		return provider.UtxoNotAvailableError{Inputs: badRefInputs.Inputs}
	}
	var expired rules.ExpiredUtxoError
	if errors.As(err, &expired) {
		return provider.TransactionExpiredError{Message: expired.Error()}
	}
	var outsideInterval rules.OutsideValidityIntervalUtxoError
	if errors.As(err, &outsideInterval) {
		return provider.TransactionExpiredError{
			Message: outsideInterval.Error(),
		}
	}
	var notConserved rules.ValueNotConservedUtxoError
	if errors.As(err, &notConserved) {
		return provider.ValueNotConservedError{
			Consumed: notConserved.Consumed,
			Produced: notConserved.Produced,
		}
	}
	var nativeScript rules.NativeScriptFailureError
	if errors.As(err, &nativeScript) {
		return provider.ScriptFailureError{Message: nativeScript.Message}
	}
	var plutusScript rules.PlutusScriptFailureError
	if errors.As(err, &plutusScript) {
		return provider.ScriptFailureError{
			Message: plutusScript.Message,
			Logs:    plutusScript.Logs,
		}
	}
	return provider.ValidationError{Message: err.Error()}
}
