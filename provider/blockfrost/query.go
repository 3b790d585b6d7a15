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

package blockfrost

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/query"
	"golang.org/x/sync/errgroup"
)

// FindUtxos evaluates a query against the remote UTxO set. Candidates are
// presented to pagination in API response order; unlike the in-memory
// evaluator, ordering is whatever the provider returns.
func (b *Blockfrost) FindUtxos(
	ctx context.Context,
	q query.UtxoQuery,
) ([]ledger.Utxo, error) {
	switch tq := q.(type) {
	case query.Simple:
		return b.evalSimple(ctx, tq)
	case query.Or:
		params := tq.Params()
		var aResult, bResult []ledger.Utxo
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			ret, err := b.FindUtxos(egCtx, query.Propagate(tq.A, params))
			aResult = ret
			return err
		})
		eg.Go(func() error {
			ret, err := b.FindUtxos(egCtx, query.Propagate(tq.B, params))
			bResult = ret
			return err
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return query.ApplyPagination(
			query.MergeUtxos(aResult, bResult),
			params,
		), nil
	}
	return nil, query.ErrQueryWithoutSource
}

func (b *Blockfrost) evalSimple(
	ctx context.Context,
	q query.Simple,
) ([]ledger.Utxo, error) {
	filter := q.Filter
	var candidates []ledger.Utxo
	var err error
	// For a by-address source with an asset constraint reachable through And
	// combinators, fold the constraint into the lookup: the combined endpoint
	// returns only UTxOs carrying the asset
	if addrSource, ok := q.Source.(query.FromAddress); ok && filter != nil {
		if asset, rest, ok := query.ExtractHasAsset(filter); ok {
			candidates, err = b.fetchAddressUtxos(
				ctx,
				addrSource.Address,
				ledger.AssetUnit(asset.PolicyId, asset.AssetName),
			)
			filter = rest
		} else {
			candidates, err = b.evalSource(ctx, q.Source)
		}
	} else {
		candidates, err = b.evalSource(ctx, q.Source)
	}
	if err != nil {
		return nil, err
	}
	if filter != nil {
		filtered := make([]ledger.Utxo, 0, len(candidates))
		for _, utxo := range candidates {
			if query.EvalFilter(filter, utxo) {
				filtered = append(filtered, utxo)
			}
		}
		candidates = filtered
	}
	return query.ApplyPagination(candidates, q.Params()), nil
}

func (b *Blockfrost) evalSource(
	ctx context.Context,
	source query.UtxoSource,
) ([]ledger.Utxo, error) {
	switch s := source.(type) {
	case query.FromAddress:
		return b.fetchAddressUtxos(ctx, s.Address, "")
	case query.FromAsset:
		// A global by-asset search has no address to anchor the lookup;
		// narrow the query with an address source instead
		return nil, query.NotSupportedError{
			Source: s,
			Reason: "global asset search not available via this API",
		}
	case query.FromTransaction:
		utxos, err := b.fetchTxUtxos(ctx, s.TxId)
		if err != nil {
			return nil, err
		}
		if len(utxos) == 0 {
			return nil, query.NotFoundError{Source: s}
		}
		return utxos, nil
	case query.FromInputs:
		return b.fetchInputs(ctx, s)
	case query.SourceAnd:
		aSet, bSet, err := b.evalBranches(ctx, s.A, s.B)
		if err != nil {
			return nil, err
		}
		inB := make(map[ledger.TransactionInput]struct{}, len(bSet))
		for _, utxo := range bSet {
			inB[utxo.Id] = struct{}{}
		}
		ret := make([]ledger.Utxo, 0, len(aSet))
		for _, utxo := range aSet {
			if _, ok := inB[utxo.Id]; ok {
				ret = append(ret, utxo)
			}
		}
		return ret, nil
	case query.SourceOr:
		aSet, bSet, err := b.evalBranches(ctx, s.A, s.B)
		if err != nil {
			return nil, err
		}
		return query.MergeUtxos(aSet, bSet), nil
	}
	return nil, query.ErrQueryWithoutSource
}

// evalBranches evaluates two sources concurrently
func (b *Blockfrost) evalBranches(
	ctx context.Context,
	a query.UtxoSource,
	bSource query.UtxoSource,
) ([]ledger.Utxo, []ledger.Utxo, error) {
	var aSet, bSet []ledger.Utxo
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ret, err := b.evalSource(egCtx, a)
		aSet = ret
		return err
	})
	eg.Go(func() error {
		ret, err := b.evalSource(egCtx, bSource)
		bSet = ret
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return aSet, bSet, nil
}

// fetchAddressUtxos pages through an address UTxO listing. An empty assetUnit
// lists all UTxOs at the address; otherwise only those carrying the asset. A
// 404 means the address has never been seen on chain, which is an empty
// result rather than an error.
func (b *Blockfrost) fetchAddressUtxos(
	ctx context.Context,
	address ledger.Address,
	assetUnit string,
) ([]ledger.Utxo, error) {
	path := "/addresses/" + address.String() + "/utxos"
	if assetUnit != "" {
		path += "/" + assetUnit
	}
	var ret []ledger.Utxo
	for page := 1; ; page++ {
		var apiUtxos []apiAddressUtxo
		resp, err := b.get(
			ctx,
			path,
			map[string]string{
				"count": strconv.Itoa(pageSize),
				"page":  strconv.Itoa(page),
			},
			&apiUtxos,
		)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() == http.StatusNotFound {
			// Unused address. Past the last page Blockfrost returns an empty
			// list rather than 404, but keep anything already accumulated so
			// the loop stays self-consistent either way.
			return ret, nil
		}
		if !resp.IsSuccess() {
			return nil, classifyQueryResponse(resp)
		}
		for _, apiUtxo := range apiUtxos {
			utxo, err := apiUtxo.convert()
			if err != nil {
				return nil, query.NetworkError{
					Message: "malformed UTxO in response",
					Cause:   err,
				}
			}
			ret = append(ret, utxo)
		}
		if len(apiUtxos) < pageSize {
			break
		}
	}
	return ret, nil
}

// fetchTxUtxos returns the unspent outputs of a transaction. Consumed and
// collateral outputs are excluded.
func (b *Blockfrost) fetchTxUtxos(
	ctx context.Context,
	txId ledger.Blake2b256,
) ([]ledger.Utxo, error) {
	var apiResult apiTxUtxos
	resp, err := b.get(
		ctx,
		"/txs/"+txId.String()+"/utxos",
		nil,
		&apiResult,
	)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, query.NotFoundError{
			Source: query.FromTransaction{TxId: txId},
		}
	}
	if !resp.IsSuccess() {
		return nil, classifyQueryResponse(resp)
	}
	ret := make([]ledger.Utxo, 0, len(apiResult.Outputs))
	for _, apiOutput := range apiResult.Outputs {
		if !apiOutput.spendable() {
			continue
		}
		utxo, err := apiOutput.convert(txId)
		if err != nil {
			return nil, query.NetworkError{
				Message: "malformed UTxO in response",
				Cause:   err,
			}
		}
		ret = append(ret, utxo)
	}
	return ret, nil
}

// fetchInputs resolves explicit input references. The source transactions are
// fetched concurrently; any input that fails to resolve fails the whole set.
func (b *Blockfrost) fetchInputs(
	ctx context.Context,
	source query.FromInputs,
) ([]ledger.Utxo, error) {
	// Group by transaction so each tx is fetched once
	byTx := make(map[ledger.Blake2b256][]ledger.TransactionInput)
	for _, tmpInput := range source.Inputs {
		byTx[tmpInput.TxId] = append(byTx[tmpInput.TxId], tmpInput)
	}
	resolved := make(map[ledger.TransactionInput]ledger.Utxo)
	var resolvedMutex sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for txId := range byTx {
		eg.Go(func() error {
			utxos, err := b.fetchTxUtxos(egCtx, txId)
			if err != nil {
				// Missing transaction means missing inputs
				var notFound query.NotFoundError
				if errors.As(err, &notFound) {
					return query.NotFoundError{Source: source}
				}
				return err
			}
			resolvedMutex.Lock()
			for _, utxo := range utxos {
				resolved[utxo.Id] = utxo
			}
			resolvedMutex.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// All-or-nothing: a spent or unknown input fails the full set
	ret := make([]ledger.Utxo, 0, len(source.Inputs))
	for _, tmpInput := range source.Inputs {
		utxo, ok := resolved[tmpInput]
		if !ok {
			return nil, query.NotFoundError{Source: source}
		}
		ret = append(ret, utxo)
	}
	return ret, nil
}
