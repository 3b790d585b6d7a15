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

package query

import (
	"bytes"

	"github.com/blinklabs-io/chainquery/ledger"
)

// UtxoFilter is a predicate applied to each candidate UTxO after source
// evaluation. Filters never require data that wasn't already fetched.
type UtxoFilter interface {
	isUtxoFilter()
}

// HasAsset matches UTxOs carrying a non-zero quantity of the given asset
type HasAsset struct {
	PolicyId  ledger.Blake2b224
	AssetName []byte
}

func (HasAsset) isUtxoFilter() {}

// HasDatum matches UTxOs whose inline datum equals the given datum CBOR.
// A UTxO without an inline datum never matches.
type HasDatum struct {
	Datum []byte
}

func (HasDatum) isUtxoFilter() {}

// HasDatumHash matches UTxOs whose datum hash (declared or computed from an
// inline datum) equals the given hash
type HasDatumHash struct {
	Hash ledger.Blake2b256
}

func (HasDatumHash) isUtxoFilter() {}

// MinLovelace matches UTxOs holding at least the given lovelace amount
type MinLovelace struct {
	Amount uint64
}

func (MinLovelace) isUtxoFilter() {}

// InInputs matches UTxOs whose input reference is in the given set
type InInputs struct {
	Inputs []ledger.TransactionInput
}

func (InInputs) isUtxoFilter() {}

// FilterAnd matches when both sub-filters match
type FilterAnd struct {
	A UtxoFilter
	B UtxoFilter
}

func (FilterAnd) isUtxoFilter() {}

// FilterOr matches when either sub-filter matches
type FilterOr struct {
	A UtxoFilter
	B UtxoFilter
}

func (FilterOr) isUtxoFilter() {}

// FilterNot matches when the sub-filter does not
type FilterNot struct {
	F UtxoFilter
}

func (FilterNot) isUtxoFilter() {}

// EvalFilter evaluates a filter tree against a single UTxO
func EvalFilter(filter UtxoFilter, utxo ledger.Utxo) bool {
	switch f := filter.(type) {
	case HasAsset:
		assets := utxo.Output.Assets()
		if assets == nil {
			return false
		}
		return assets.Asset(f.PolicyId, f.AssetName) > 0
	case HasDatum:
		datum := utxo.Output.Datum()
		if datum == nil {
			return false
		}
		return bytes.Equal(datum, f.Datum)
	case HasDatumHash:
		datumHash := utxo.Output.DatumHash()
		if datumHash == nil {
			return false
		}
		return *datumHash == f.Hash
	case MinLovelace:
		return utxo.Output.Amount() >= f.Amount
	case InInputs:
		for _, tmpInput := range f.Inputs {
			if tmpInput == utxo.Id {
				return true
			}
		}
		return false
	case FilterAnd:
		return EvalFilter(f.A, utxo) && EvalFilter(f.B, utxo)
	case FilterOr:
		return EvalFilter(f.A, utxo) || EvalFilter(f.B, utxo)
	case FilterNot:
		return !EvalFilter(f.F, utxo)
	}
	return false
}

// ExtractHasAsset searches a filter tree for a HasAsset term reachable through
// And combinators only, returning the first match and the remaining filter
// with that term removed. Backends use this to fold an asset constraint into
// the source lookup. Returns ok=false when no extractable term exists.
func ExtractHasAsset(filter UtxoFilter) (HasAsset, UtxoFilter, bool) {
	switch f := filter.(type) {
	case HasAsset:
		return f, nil, true
	case FilterAnd:
		if asset, rest, ok := ExtractHasAsset(f.A); ok {
			if rest == nil {
				return asset, f.B, true
			}
			return asset, FilterAnd{A: rest, B: f.B}, true
		}
		if asset, rest, ok := ExtractHasAsset(f.B); ok {
			if rest == nil {
				return asset, f.A, true
			}
			return asset, FilterAnd{A: f.A, B: rest}, true
		}
	}
	return HasAsset{}, nil, false
}
