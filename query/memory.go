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
	"github.com/blinklabs-io/chainquery/ledger"
)

// Evaluate runs a query against an in-memory UTxO set. Candidates are
// presented to pagination in canonical input-reference order, so repeated
// evaluation against an unchanged set is deterministic.
func Evaluate(q UtxoQuery, utxos ledger.UtxoMap) ([]ledger.Utxo, error) {
	switch tq := q.(type) {
	case Simple:
		matched, err := EvalSource(tq.Source, utxos)
		if err != nil {
			return nil, err
		}
		candidates := matched.Utxos()
		if tq.Filter != nil {
			filtered := make([]ledger.Utxo, 0, len(candidates))
			for _, utxo := range candidates {
				if EvalFilter(tq.Filter, utxo) {
					filtered = append(filtered, utxo)
				}
			}
			candidates = filtered
		}
		return ApplyPagination(candidates, tq.params), nil
	case Or:
		params := tq.params
		aResult, err := Evaluate(Propagate(tq.A, params), utxos)
		if err != nil {
			return nil, err
		}
		bResult, err := Evaluate(Propagate(tq.B, params), utxos)
		if err != nil {
			return nil, err
		}
		return ApplyPagination(MergeUtxos(aResult, bResult), params), nil
	}
	return nil, ErrQueryWithoutSource
}

// EvalSource evaluates a source tree against an in-memory UTxO set,
// returning the matching subset keyed by input reference
func EvalSource(
	source UtxoSource,
	utxos ledger.UtxoMap,
) (ledger.UtxoMap, error) {
	switch s := source.(type) {
	case FromAddress:
		ret := ledger.UtxoMap{}
		for id, output := range utxos {
			if output.Address() == s.Address {
				ret[id] = output
			}
		}
		return ret, nil
	case FromAsset:
		ret := ledger.UtxoMap{}
		for id, output := range utxos {
			assets := output.Assets()
			if assets == nil {
				continue
			}
			if assets.Asset(s.PolicyId, s.AssetName) > 0 {
				ret[id] = output
			}
		}
		if len(ret) == 0 {
			return nil, NotFoundError{Source: s}
		}
		return ret, nil
	case FromInputs:
		// All-or-nothing: any unresolved input fails the full set
		ret := ledger.UtxoMap{}
		for _, tmpInput := range s.Inputs {
			output, ok := utxos[tmpInput]
			if !ok {
				return nil, NotFoundError{Source: s}
			}
			ret[tmpInput] = output
		}
		return ret, nil
	case FromTransaction:
		ret := ledger.UtxoMap{}
		for id, output := range utxos {
			if id.TxId == s.TxId {
				ret[id] = output
			}
		}
		if len(ret) == 0 {
			return nil, NotFoundError{Source: s}
		}
		return ret, nil
	case SourceAnd:
		aSet, err := EvalSource(s.A, utxos)
		if err != nil {
			return nil, err
		}
		bSet, err := EvalSource(s.B, utxos)
		if err != nil {
			return nil, err
		}
		ret := ledger.UtxoMap{}
		for id, output := range aSet {
			if _, ok := bSet[id]; ok {
				ret[id] = output
			}
		}
		return ret, nil
	case SourceOr:
		aSet, err := EvalSource(s.A, utxos)
		if err != nil {
			return nil, err
		}
		bSet, err := EvalSource(s.B, utxos)
		if err != nil {
			return nil, err
		}
		ret := ledger.UtxoMap{}
		for id, output := range aSet {
			ret[id] = output
		}
		for id, output := range bSet {
			ret[id] = output
		}
		return ret, nil
	}
	return nil, ErrQueryWithoutSource
}

// MergeUtxos unions two UTxO lists, keeping the first occurrence of each
// input reference and preserving order (all of a, then unseen entries of b)
func MergeUtxos(a []ledger.Utxo, b []ledger.Utxo) []ledger.Utxo {
	seen := make(map[ledger.TransactionInput]struct{}, len(a)+len(b))
	ret := make([]ledger.Utxo, 0, len(a)+len(b))
	for _, utxo := range a {
		if _, ok := seen[utxo.Id]; ok {
			continue
		}
		seen[utxo.Id] = struct{}{}
		ret = append(ret, utxo)
	}
	for _, utxo := range b {
		if _, ok := seen[utxo.Id]; ok {
			continue
		}
		seen[utxo.Id] = struct{}{}
		ret = append(ret, utxo)
	}
	return ret
}
