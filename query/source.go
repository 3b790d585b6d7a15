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

// Package query implements a composable expression language for describing
// UTxO lookups: sources say where to search, filters refine the candidates,
// and queries add pagination. The value trees are immutable; evaluation is
// provided here for in-memory UTxO sets and by provider backends for remote
// state.
package query

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/chainquery/ledger"
)

// UtxoSource describes where to search for UTxOs. The variant set is closed;
// evaluators use exhaustive type switches.
type UtxoSource interface {
	isUtxoSource()
	String() string
}

// FromAddress searches the UTxOs locked by an address
type FromAddress struct {
	Address ledger.Address
}

func (FromAddress) isUtxoSource() {}

func (s FromAddress) String() string {
	return "FromAddress(" + s.Address.String() + ")"
}

// FromAsset searches globally for UTxOs carrying the given asset
type FromAsset struct {
	PolicyId  ledger.Blake2b224
	AssetName []byte
}

func (FromAsset) isUtxoSource() {}

func (s FromAsset) String() string {
	return fmt.Sprintf(
		"FromAsset(%s.%s)",
		s.PolicyId.String(),
		hex.EncodeToString(s.AssetName),
	)
}

// FromInputs resolves an explicit set of input references
type FromInputs struct {
	Inputs []ledger.TransactionInput
}

func (FromInputs) isUtxoSource() {}

func (s FromInputs) String() string {
	tmpInputs := make([]string, len(s.Inputs))
	for idx, tmpInput := range s.Inputs {
		tmpInputs[idx] = tmpInput.String()
	}
	return "FromInputs(" + strings.Join(tmpInputs, ", ") + ")"
}

// FromTransaction searches the unspent outputs of a specific transaction
type FromTransaction struct {
	TxId ledger.Blake2b256
}

func (FromTransaction) isUtxoSource() {}

func (s FromTransaction) String() string {
	return "FromTransaction(" + s.TxId.String() + ")"
}

// SourceAnd is the intersection (by input reference) of two sources
type SourceAnd struct {
	A UtxoSource
	B UtxoSource
}

func (SourceAnd) isUtxoSource() {}

func (s SourceAnd) String() string {
	return "And(" + s.A.String() + ", " + s.B.String() + ")"
}

// SourceOr is the union (by input reference) of two sources
type SourceOr struct {
	A UtxoSource
	B UtxoSource
}

func (SourceOr) isUtxoSource() {}

func (s SourceOr) String() string {
	return "Or(" + s.A.String() + ", " + s.B.String() + ")"
}
