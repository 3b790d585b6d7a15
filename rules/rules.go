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

// Package rules implements the ledger validation and mutation rule engine
// consumed by the emulator. The engine is an injected strategy: callers may
// use the default phase-1 rule set or supply a custom subset at construction
// time.
package rules

import (
	"crypto/ed25519"

	"github.com/blinklabs-io/chainquery/cbor"
	"github.com/blinklabs-io/chainquery/ledger"
)

// Context is the environment a transaction is validated in
type Context struct {
	NetworkId  uint
	Slot       uint64
	Params     ledger.ProtocolParameters
	SlotConfig ledger.SlotConfig
}

// State is an immutable-by-convention snapshot of the live UTxO set.
// Engines never mutate a State they are given; they return a new one.
type State struct {
	Utxos ledger.UtxoMap
}

// UtxoById resolves an input reference against the snapshot
func (s State) UtxoById(input ledger.TransactionInput) (ledger.Utxo, error) {
	output, ok := s.Utxos[input]
	if !ok {
		return ledger.Utxo{}, BadInputsUtxoError{
			Inputs: []ledger.TransactionInput{input},
		}
	}
	return ledger.Utxo{Id: input, Output: output}, nil
}

// Engine validates a transaction against a state and, on success, returns
// the successor state. Validation failures are returned as the typed rule
// violation errors in this package; the input state is never mutated.
type Engine interface {
	Apply(
		ctx Context,
		state State,
		tx *ledger.Transaction,
	) (State, error)
}

// RuleFunc validates a transaction against a single ledger rule
type RuleFunc func(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error

// VerifyTransaction runs the provided validation rules in order and returns
// the first violation encountered
func VerifyTransaction(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
	validationRules []RuleFunc,
) error {
	for _, rule := range validationRules {
		if err := rule(tx, slot, state, pp); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRules is the phase-1 validation rule set applied by NewEngine when
// no custom rules are given
var DefaultRules = []RuleFunc{
	UtxoValidateInputSetEmptyUtxo,
	UtxoValidateBadInputsUtxo,
	UtxoValidateOutsideValidityIntervalUtxo,
	UtxoValidateTimeToLive,
	UtxoValidateFeeTooSmallUtxo,
	UtxoValidateValueNotConservedUtxo,
	UtxoValidateOutputTooSmallUtxo,
	UtxoValidateMaxTxSizeUtxo,
	UtxoValidateRequiredVKeyWitnesses,
	UtxoValidateWitnessSignatures,
}

type engine struct {
	rules []RuleFunc
}

// NewEngine creates an Engine running the given rules; with no rules given
// it applies DefaultRules
func NewEngine(validationRules ...RuleFunc) Engine {
	if len(validationRules) == 0 {
		validationRules = DefaultRules
	}
	return &engine{rules: validationRules}
}

func (e *engine) Apply(
	ctx Context,
	state State,
	tx *ledger.Transaction,
) (State, error) {
	if err := VerifyTransaction(tx, ctx.Slot, state, ctx.Params, e.rules); err != nil {
		return State{}, err
	}
	produced, err := tx.Produced()
	if err != nil {
		return State{}, err
	}
	newUtxos := state.Utxos.Clone()
	for _, tmpInput := range tx.Consumed() {
		delete(newUtxos, tmpInput)
	}
	for _, tmpUtxo := range produced {
		newUtxos[tmpUtxo.Id] = tmpUtxo.Output
	}
	return State{Utxos: newUtxos}, nil
}

// UtxoValidateInputSetEmptyUtxo ensures that the input set is not empty
func UtxoValidateInputSetEmptyUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	if len(tx.Inputs()) > 0 {
		return nil
	}
	return InputSetEmptyUtxoError{}
}

// UtxoValidateBadInputsUtxo ensures that all inputs are present in the ledger state (have not been spent)
func UtxoValidateBadInputsUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	var badInputs []ledger.TransactionInput
	for _, tmpInput := range tx.Inputs() {
		if _, ok := state.Utxos[tmpInput]; !ok {
			badInputs = append(badInputs, tmpInput)
		}
	}
	if len(badInputs) == 0 {
		return nil
	}
	return BadInputsUtxoError{
		Inputs: badInputs,
	}
}

// UtxoValidateOutsideValidityIntervalUtxo ensures the current slot is not
// before the transaction's validity interval start
func UtxoValidateOutsideValidityIntervalUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	validityStart := tx.ValidityIntervalStart()
	if validityStart == 0 || slot >= validityStart {
		return nil
	}
	return OutsideValidityIntervalUtxoError{
		ValidityIntervalStart: validityStart,
		Slot:                  slot,
	}
}

// UtxoValidateTimeToLive ensures that the current tip slot is not after the specified TTL value
func UtxoValidateTimeToLive(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	ttl := tx.TTL()
	if ttl == 0 || ttl >= slot {
		return nil
	}
	return ExpiredUtxoError{
		Ttl:  ttl,
		Slot: slot,
	}
}

// MinFeeTx calculates the minimum required fee for a transaction based on
// protocol parameters. Fee is calculated using the transaction body CBOR size
// with the fee field set to zero.
func MinFeeTx(
	tx *ledger.Transaction,
	pp ledger.ProtocolParameters,
) (uint64, error) {
	// Encode a local copy of the body with TxFee set to 0 to calculate size without fee
	body := tx.Body
	body.TxFee = 0
	txBytes, err := cbor.Encode(&body)
	if err != nil {
		return 0, err
	}
	return pp.MinFee(len(txBytes)), nil
}

// UtxoValidateFeeTooSmallUtxo ensures that the fee is at least the calculated minimum
func UtxoValidateFeeTooSmallUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	minFee, err := MinFeeTx(tx, pp)
	if err != nil {
		return err
	}
	if tx.Fee() >= minFee {
		return nil
	}
	return FeeTooSmallUtxoError{
		Provided: tx.Fee(),
		Min:      minFee,
	}
}

// UtxoValidateValueNotConservedUtxo ensures that the consumed lovelace equals
// the produced lovelace. Minting affects only native assets, never lovelace.
func UtxoValidateValueNotConservedUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	// consumed = value from input(s)
	var consumedValue uint64
	for _, tmpInput := range tx.Inputs() {
		tmpUtxo, err := state.UtxoById(tmpInput)
		// Ignore errors fetching the UTxO and exclude it from calculations
		if err != nil {
			continue
		}
		consumedValue += tmpUtxo.Output.Amount()
	}
	// produced = value from output(s) + fee
	producedValue := tx.Fee()
	for _, tmpOutput := range tx.Outputs() {
		producedValue += tmpOutput.Amount()
	}
	if consumedValue == producedValue {
		return nil
	}
	return ValueNotConservedUtxoError{
		Consumed: consumedValue,
		Produced: producedValue,
	}
}

// UtxoValidateOutputTooSmallUtxo ensures that outputs have at least the minimum value
func UtxoValidateOutputTooSmallUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	minCoin := pp.MinUtxoValue
	if minCoin == 0 {
		return nil
	}
	var badOutputs []ledger.TransactionOutput
	for _, tmpOutput := range tx.Outputs() {
		if tmpOutput.Amount() < minCoin {
			badOutputs = append(badOutputs, tmpOutput)
		}
	}
	if len(badOutputs) == 0 {
		return nil
	}
	return OutputTooSmallUtxoError{
		Outputs: badOutputs,
	}
}

// UtxoValidateMaxTxSizeUtxo ensures that a transaction does not exceed the max size
func UtxoValidateMaxTxSizeUtxo(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	if pp.MaxTxSize == 0 {
		return nil
	}
	txBytes, err := tx.Cbor()
	if err != nil {
		return err
	}
	if uint(len(txBytes)) <= pp.MaxTxSize {
		return nil
	}
	return MaxTxSizeUtxoError{
		TxSize:    uint(len(txBytes)),
		MaxTxSize: pp.MaxTxSize,
	}
}

// UtxoValidateRequiredVKeyWitnesses ensures required signers are accompanied by vkey witnesses
func UtxoValidateRequiredVKeyWitnesses(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	required := tx.RequiredSigners()
	if len(required) == 0 {
		return nil
	}
	witnesses := tx.Witnesses().Vkey()
	if len(witnesses) == 0 {
		return MissingVKeyWitnessesError{}
	}
	// Build a set of hashes from the provided vkey witnesses for quick lookup
	vkeyHashes := make(map[ledger.Blake2b224]struct{})
	for _, vw := range witnesses {
		vkeyHashes[ledger.Blake2b224Hash(vw.Vkey)] = struct{}{}
	}
	for _, req := range required {
		if _, ok := vkeyHashes[req]; !ok {
			return MissingRequiredVKeyWitnessForSignerError{Signer: req}
		}
	}
	return nil
}

// UtxoValidateWitnessSignatures verifies each vkey witness signature over the
// transaction body hash
func UtxoValidateWitnessSignatures(
	tx *ledger.Transaction,
	slot uint64,
	state State,
	pp ledger.ProtocolParameters,
) error {
	txHash, err := tx.Hash()
	if err != nil {
		return err
	}
	for _, vw := range tx.Witnesses().Vkey() {
		if len(vw.Vkey) != ed25519.PublicKeySize ||
			len(vw.Signature) != ed25519.SignatureSize {
			return InvalidSignatureError{Vkey: vw.Vkey}
		}
		if !ed25519.Verify(
			ed25519.PublicKey(vw.Vkey),
			txHash.Bytes(),
			vw.Signature,
		) {
			return InvalidSignatureError{Vkey: vw.Vkey}
		}
	}
	return nil
}
