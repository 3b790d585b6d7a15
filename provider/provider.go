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

// Package provider defines the uniform interface implemented by blockchain
// backends: submitting transactions, querying UTxO sets, and fetching
// protocol context. Failures are classified into the SubmitError and
// query error taxonomies rather than raised as transport errors.
package provider

import (
	"context"

	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/query"
)

// Provider is the uniform interface over blockchain backends
type Provider interface {
	// SubmitTx submits a transaction. Failures are SubmitError values.
	SubmitTx(
		ctx context.Context,
		tx *ledger.Transaction,
	) (ledger.Blake2b256, error)
	// SubmitTxBytes submits an already-encoded transaction
	SubmitTxBytes(ctx context.Context, txCbor []byte) (ledger.Blake2b256, error)
	// FindUtxos evaluates a UTxO query. Failures are query error values.
	FindUtxos(ctx context.Context, q query.UtxoQuery) ([]ledger.Utxo, error)
	// LatestParams fetches the current protocol parameters
	LatestParams(ctx context.Context) (ledger.ProtocolParameters, error)
	// CurrentSlot returns the provider's view of the current slot
	CurrentSlot(ctx context.Context) (uint64, error)
}

// UtxosAtOption refines a by-address UTxO lookup
type UtxosAtOption func(*utxosAtConfig)

type utxosAtConfig struct {
	filter   query.UtxoFilter
	minTotal *int64
}

// WithDatum restricts results to UTxOs carrying the exact inline datum
func WithDatum(datumCbor []byte) UtxosAtOption {
	return func(c *utxosAtConfig) {
		c.addFilter(query.HasDatum{Datum: datumCbor})
	}
}

// WithDatumHash restricts results to UTxOs with the given datum hash
func WithDatumHash(hash ledger.Blake2b256) UtxosAtOption {
	return func(c *utxosAtConfig) {
		c.addFilter(query.HasDatumHash{Hash: hash})
	}
}

// WithAsset restricts results to UTxOs carrying the given asset
func WithAsset(policyId ledger.Blake2b224, assetName []byte) UtxosAtOption {
	return func(c *utxosAtConfig) {
		c.addFilter(query.HasAsset{PolicyId: policyId, AssetName: assetName})
	}
}

// WithMinAmount stops collection once the accumulated lovelace reaches the
// threshold
func WithMinAmount(minTotal int64) UtxosAtOption {
	return func(c *utxosAtConfig) {
		c.minTotal = &minTotal
	}
}

func (c *utxosAtConfig) addFilter(f query.UtxoFilter) {
	if c.filter == nil {
		c.filter = f
	} else {
		c.filter = query.FilterAnd{A: c.filter, B: f}
	}
}

// UtxosAt returns the UTxOs at an address, optionally refined.
//
// Deprecated: build a query.UtxoQuery and use Provider.FindUtxos. This helper
// remains semantically equivalent to the query form.
func UtxosAt(
	ctx context.Context,
	p Provider,
	addr ledger.Address,
	opts ...UtxosAtOption,
) ([]ledger.Utxo, error) {
	cfg := &utxosAtConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	q, err := query.New(query.FromAddress{Address: addr})
	if err != nil {
		return nil, err
	}
	var tmpQuery query.UtxoQuery = q
	if cfg.filter != nil {
		tmpQuery = tmpQuery.And(cfg.filter)
	}
	if cfg.minTotal != nil {
		tmpQuery = tmpQuery.WithMinTotal(*cfg.minTotal)
	}
	return p.FindUtxos(ctx, tmpQuery)
}

// UtxosByInputs resolves an explicit set of input references. If any input
// cannot be resolved the whole lookup fails with query.NotFoundError.
//
// Deprecated: build a query.UtxoQuery and use Provider.FindUtxos. This helper
// remains semantically equivalent to the query form.
func UtxosByInputs(
	ctx context.Context,
	p Provider,
	inputs []ledger.TransactionInput,
) ([]ledger.Utxo, error) {
	q, err := query.New(query.FromInputs{Inputs: inputs})
	if err != nil {
		return nil, err
	}
	return p.FindUtxos(ctx, q)
}
