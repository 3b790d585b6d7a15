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

package rules

import (
	"fmt"
	"strings"

	"github.com/blinklabs-io/chainquery/ledger"
)

type InputSetEmptyUtxoError struct{}

func (InputSetEmptyUtxoError) Error() string {
	return "input set empty"
}

type BadInputsUtxoError struct {
	Inputs []ledger.TransactionInput
}

func (e BadInputsUtxoError) Error() string {
	tmpInputs := make([]string, len(e.Inputs))
	for idx, tmpInput := range e.Inputs {
		tmpInputs[idx] = tmpInput.String()
	}
	return "bad input(s): " + strings.Join(tmpInputs, ", ")
}

type BadCollateralInputsError struct {
	Inputs []ledger.TransactionInput
}

func (e BadCollateralInputsError) Error() string {
	tmpInputs := make([]string, len(e.Inputs))
	for idx, tmpInput := range e.Inputs {
		tmpInputs[idx] = tmpInput.String()
	}
	return "bad collateral input(s): " + strings.Join(tmpInputs, ", ")
}

type BadReferenceInputsError struct {
	Inputs []ledger.TransactionInput
}

func (e BadReferenceInputsError) Error() string {
	tmpInputs := make([]string, len(e.Inputs))
	for idx, tmpInput := range e.Inputs {
		tmpInputs[idx] = tmpInput.String()
	}
	return "bad reference input(s): " + strings.Join(tmpInputs, ", ")
}

type ExpiredUtxoError struct {
	Ttl  uint64
	Slot uint64
}

func (e ExpiredUtxoError) Error() string {
	return fmt.Sprintf(
		"expired UTxO: TTL %d, slot %d",
		e.Ttl,
		e.Slot,
	)
}

type OutsideValidityIntervalUtxoError struct {
	ValidityIntervalStart uint64
	Slot                  uint64
}

func (e OutsideValidityIntervalUtxoError) Error() string {
	return fmt.Sprintf(
		"outside validity interval: start %d, slot %d",
		e.ValidityIntervalStart,
		e.Slot,
	)
}

type FeeTooSmallUtxoError struct {
	Provided uint64
	Min      uint64
}

func (e FeeTooSmallUtxoError) Error() string {
	return fmt.Sprintf(
		"fee too small: provided %d, minimum %d",
		e.Provided,
		e.Min,
	)
}

type ValueNotConservedUtxoError struct {
	Consumed uint64
	Produced uint64
}

func (e ValueNotConservedUtxoError) Error() string {
	return fmt.Sprintf(
		"value not conserved: consumed %d, produced %d",
		e.Consumed,
		e.Produced,
	)
}

type OutputTooSmallUtxoError struct {
	Outputs []ledger.TransactionOutput
}

func (e OutputTooSmallUtxoError) Error() string {
	tmpOutputs := make([]string, len(e.Outputs))
	for idx, tmpOutput := range e.Outputs {
		tmpOutputs[idx] = tmpOutput.String()
	}
	return "output too small: " + strings.Join(tmpOutputs, ", ")
}

type MaxTxSizeUtxoError struct {
	TxSize    uint
	MaxTxSize uint
}

func (e MaxTxSizeUtxoError) Error() string {
	return fmt.Sprintf(
		"transaction size too large: size %d, max %d",
		e.TxSize,
		e.MaxTxSize,
	)
}

type MissingVKeyWitnessesError struct{}

func (MissingVKeyWitnessesError) Error() string {
	return "missing required vkey witnesses"
}

type MissingRequiredVKeyWitnessForSignerError struct {
	Signer ledger.Blake2b224
}

func (e MissingRequiredVKeyWitnessForSignerError) Error() string {
	return fmt.Sprintf(
		"missing required vkey witness for required signer %x",
		e.Signer,
	)
}

type InvalidSignatureError struct {
	Vkey []byte
}

func (e InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid vkey witness signature for key %x", e.Vkey)
}

type NativeScriptFailureError struct {
	Message string
}

func (e NativeScriptFailureError) Error() string {
	if e.Message == "" {
		return "native script failure"
	}
	return "native script failure: " + e.Message
}

type PlutusScriptFailureError struct {
	Message string
	Logs    []string
}

func (e PlutusScriptFailureError) Error() string {
	if e.Message == "" {
		return "Plutus script failure"
	}
	return "Plutus script failure: " + e.Message
}
