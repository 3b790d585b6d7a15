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
	"errors"

	"github.com/blinklabs-io/chainquery/ledger"
)

// ErrQueryWithoutSource is returned when constructing a query from a bare
// filter: a query must always name a source to search.
var ErrQueryWithoutSource = errors.New("query must have a UTxO source")

// Params are the pagination and early-termination parameters shared by a
// query and, for Or queries, by both branches
type Params struct {
	// Limit caps the result size when set
	Limit *int
	// Offset drops the first entries in evaluator iteration order
	Offset int
	// MinTotal stops accumulation once the collected lovelace reaches the
	// threshold. A value of zero or below short-circuits the query to an
	// empty successful result ("no requirement").
	MinTotal *int64
}

// combineLimit merges a new limit into the params, taking the minimum of any
// prior and new limit
func (p Params) combineLimit(limit int) Params {
	if p.Limit == nil || limit < *p.Limit {
		p.Limit = &limit
	}
	return p
}

// combineMinTotal merges a new minimum-total threshold, taking the minimum
func (p Params) combineMinTotal(minTotal int64) Params {
	if p.MinTotal == nil || minTotal < *p.MinTotal {
		p.MinTotal = &minTotal
	}
	return p
}

// UtxoQuery is either a Simple query (one source plus an optional filter
// tree) or an Or combination of two sub-queries sharing pagination params.
// Queries are immutable; the combinator methods return modified copies.
type UtxoQuery interface {
	isUtxoQuery()
	// Params returns the pagination params applied to the query results
	Params() Params
	// And adds a filter. On an Or query the filter distributes into both
	// branches, preserving OR-then-filter semantics.
	And(UtxoFilter) UtxoQuery
	// WithLimit caps the result size; combined with any prior limit by
	// taking the minimum
	WithLimit(int) UtxoQuery
	// WithOffset skips entries in evaluator iteration order
	WithOffset(int) UtxoQuery
	// WithMinTotal sets the early-termination lovelace threshold; combined
	// with any prior threshold by taking the minimum
	WithMinTotal(int64) UtxoQuery
}

// Simple is a single-source query
type Simple struct {
	Source UtxoSource
	Filter UtxoFilter
	params Params
}

// New builds a query from a source. A nil source is rejected: filters alone
// cannot be evaluated.
func New(source UtxoSource) (Simple, error) {
	if source == nil {
		return Simple{}, ErrQueryWithoutSource
	}
	return Simple{Source: source}, nil
}

// MustNew builds a query from a source and panics when the source is nil.
// It's intended for statically constructed queries.
func MustNew(source UtxoSource) Simple {
	q, err := New(source)
	if err != nil {
		panic(err)
	}
	return q
}

func (Simple) isUtxoQuery() {}

func (q Simple) Params() Params {
	return q.params
}

func (q Simple) And(filter UtxoFilter) UtxoQuery {
	if filter == nil {
		return q
	}
	if q.Filter == nil {
		q.Filter = filter
	} else {
		q.Filter = FilterAnd{A: q.Filter, B: filter}
	}
	return q
}

func (q Simple) WithLimit(limit int) UtxoQuery {
	q.params = q.params.combineLimit(limit)
	return q
}

func (q Simple) WithOffset(offset int) UtxoQuery {
	q.params.Offset = offset
	return q
}

func (q Simple) WithMinTotal(minTotal int64) UtxoQuery {
	q.params = q.params.combineMinTotal(minTotal)
	return q
}

// Or combines two sub-queries; the result is the union of both branches,
// re-paginated with the shared params
type Or struct {
	A      UtxoQuery
	B      UtxoQuery
	params Params
}

// NewOr combines two queries into an Or query
func NewOr(a UtxoQuery, b UtxoQuery) (Or, error) {
	if a == nil || b == nil {
		return Or{}, ErrQueryWithoutSource
	}
	return Or{A: a, B: b}, nil
}

func (Or) isUtxoQuery() {}

func (q Or) Params() Params {
	return q.params
}

func (q Or) And(filter UtxoFilter) UtxoQuery {
	if filter == nil {
		return q
	}
	// Distribute into both branches: (A || B) && f == (A && f) || (B && f).
	// This preserves OR-then-filter semantics at the cost of re-evaluating
	// the filter per branch.
	q.A = q.A.And(filter)
	q.B = q.B.And(filter)
	return q
}

func (q Or) WithLimit(limit int) UtxoQuery {
	q.params = q.params.combineLimit(limit)
	return q
}

func (q Or) WithOffset(offset int) UtxoQuery {
	q.params.Offset = offset
	return q
}

func (q Or) WithMinTotal(minTotal int64) UtxoQuery {
	q.params = q.params.combineMinTotal(minTotal)
	return q
}

// Propagate pushes the shared pagination params of an Or query down into a
// sub-query before evaluation. This is an early-termination optimization for
// Or combinations; the combined result is re-paginated at the top regardless,
// so a branch must never return fewer entries than top-level pagination can
// consume: an outer offset widens the propagated limit by the offset and
// disables the value-threshold push-down entirely, since entries the offset
// drops would otherwise count toward a branch's threshold.
func Propagate(sub UtxoQuery, params Params) UtxoQuery {
	if params.Limit != nil {
		limit := *params.Limit
		if params.Offset > 0 {
			limit += params.Offset
		}
		sub = sub.WithLimit(limit)
	}
	if params.MinTotal != nil && params.Offset == 0 {
		sub = sub.WithMinTotal(*params.MinTotal)
	}
	return sub
}

// ApplyPagination applies offset, minimum-total accumulation, and limit to
// candidates in their given order. The in-memory evaluator presents
// candidates in canonical input-reference order; remote backends preserve
// server response order, so pagination is only reproducible across backends
// when the caller controls the order.
func ApplyPagination(utxos []ledger.Utxo, params Params) []ledger.Utxo {
	// MinTotal of zero or below means "no requirement": short-circuit to an
	// empty successful result
	if params.MinTotal != nil && *params.MinTotal <= 0 {
		return []ledger.Utxo{}
	}
	if params.Offset > 0 {
		if params.Offset >= len(utxos) {
			return []ledger.Utxo{}
		}
		utxos = utxos[params.Offset:]
	}
	if params.MinTotal != nil {
		var total int64
		collected := make([]ledger.Utxo, 0, len(utxos))
		for _, utxo := range utxos {
			collected = append(collected, utxo)
			total += int64(utxo.Output.Amount()) //nolint:gosec
			if total >= *params.MinTotal {
				break
			}
		}
		utxos = collected
	}
	if params.Limit != nil && len(utxos) > *params.Limit {
		if *params.Limit <= 0 {
			return []ledger.Utxo{}
		}
		utxos = utxos[:*params.Limit]
	}
	// Copy so callers can't alias the candidate backing array
	ret := make([]ledger.Utxo, len(utxos))
	copy(ret, utxos)
	return ret
}
