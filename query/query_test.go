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
	"testing"

	"github.com/blinklabs-io/chainquery/internal/test"
	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresSource(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrQueryWithoutSource) {
		t.Errorf("expected ErrQueryWithoutSource, got %v", err)
	}
	_, err = NewOr(nil, MustNew(FromAddress{Address: test.Address(1)}))
	if !errors.Is(err, ErrQueryWithoutSource) {
		t.Errorf("expected ErrQueryWithoutSource, got %v", err)
	}
}

func TestQueryImmutable(t *testing.T) {
	base := MustNew(FromAddress{Address: test.Address(1)})
	withFilter := base.And(MinLovelace{Amount: 5})
	withLimit := withFilter.WithLimit(3)
	// The original is unchanged by derived queries
	assert.Nil(t, base.Filter)
	assert.Nil(t, base.Params().Limit)
	require.NotNil(t, withLimit.Params().Limit)
	assert.Equal(t, 3, *withLimit.Params().Limit)
	assert.Nil(t, withFilter.Params().Limit)
}

func TestCombineLimitTakesMinimum(t *testing.T) {
	q := MustNew(FromAddress{Address: test.Address(1)}).
		WithLimit(10).
		WithLimit(3).
		WithLimit(7)
	require.NotNil(t, q.Params().Limit)
	assert.Equal(t, 3, *q.Params().Limit)
}

func TestCombineMinTotalTakesMinimum(t *testing.T) {
	q := MustNew(FromAddress{Address: test.Address(1)}).
		WithMinTotal(500).
		WithMinTotal(100)
	require.NotNil(t, q.Params().MinTotal)
	assert.Equal(t, int64(100), *q.Params().MinTotal)
}

func TestOrAndDistributes(t *testing.T) {
	a := MustNew(FromAddress{Address: test.Address(1)})
	b := MustNew(FromAddress{Address: test.Address(2)})
	orQuery, err := NewOr(a, b)
	require.NoError(t, err)
	filtered := orQuery.And(MinLovelace{Amount: 10})
	result, ok := filtered.(Or)
	require.True(t, ok)
	// The filter lands on both branches
	aBranch, ok := result.A.(Simple)
	require.True(t, ok)
	assert.Equal(t, MinLovelace{Amount: 10}, aBranch.Filter)
	bBranch, ok := result.B.(Simple)
	require.True(t, ok)
	assert.Equal(t, MinLovelace{Amount: 10}, bBranch.Filter)
}

func TestExtractHasAsset(t *testing.T) {
	policyId := ledger.Blake2b224Hash([]byte("policy"))
	assetFilter := HasAsset{PolicyId: policyId, AssetName: []byte("tok")}
	minFilter := MinLovelace{Amount: 5}

	// Bare HasAsset extracts with no remainder
	extracted, rest, ok := ExtractHasAsset(assetFilter)
	require.True(t, ok)
	assert.Equal(t, assetFilter, extracted)
	assert.Nil(t, rest)

	// HasAsset under And extracts with the other side as remainder
	extracted, rest, ok = ExtractHasAsset(FilterAnd{A: minFilter, B: assetFilter})
	require.True(t, ok)
	assert.Equal(t, assetFilter, extracted)
	assert.Equal(t, UtxoFilter(minFilter), rest)

	// HasAsset under Or is not extractable
	_, _, ok = ExtractHasAsset(FilterOr{A: assetFilter, B: minFilter})
	assert.False(t, ok)
}

func TestApplyPagination(t *testing.T) {
	utxos := []ledger.Utxo{
		test.Utxo(0x01, 0, 0x01, 1000000),
		test.Utxo(0x02, 0, 0x01, 2000000),
		test.Utxo(0x03, 0, 0x01, 3000000),
		test.Utxo(0x04, 0, 0x01, 4000000),
	}
	limit2 := 2
	limit0 := 0
	minTotal := int64(2500000)
	minTotalZero := int64(0)
	testDefs := []struct {
		name     string
		params   Params
		expected int
	}{
		{"no params", Params{}, 4},
		{"limit", Params{Limit: &limit2}, 2},
		{"zero limit", Params{Limit: &limit0}, 0},
		{"offset", Params{Offset: 3}, 1},
		{"offset past end", Params{Offset: 10}, 0},
		{"min total", Params{MinTotal: &minTotal}, 2},
		{"zero min total", Params{MinTotal: &minTotalZero}, 0},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			result := ApplyPagination(utxos, testDef.params)
			assert.Len(t, result, testDef.expected)
		})
	}
}

func TestApplyPaginationMinTotalAccumulates(t *testing.T) {
	// in1 holds 10 ADA, in2 holds 5 ADA; a 8 ADA threshold is satisfied by
	// the first UTxO alone
	utxos := []ledger.Utxo{
		test.Utxo(0x01, 0, 0x01, 10000000),
		test.Utxo(0x02, 0, 0x01, 5000000),
	}
	minTotal := int64(8000000)
	result := ApplyPagination(utxos, Params{MinTotal: &minTotal})
	require.Len(t, result, 1)
	assert.Equal(t, test.Input(0x01, 0), result[0].Id)

	// An unsatisfiable threshold returns everything collected (best effort)
	minTotal = int64(100000000)
	result = ApplyPagination(utxos, Params{MinTotal: &minTotal})
	assert.Len(t, result, 2)
}

func TestApplyPaginationOrder(t *testing.T) {
	// offset, then min-total accumulation, then limit
	utxos := []ledger.Utxo{
		test.Utxo(0x01, 0, 0x01, 1000000),
		test.Utxo(0x02, 0, 0x01, 1000000),
		test.Utxo(0x03, 0, 0x01, 1000000),
	}
	limit := 1
	minTotal := int64(2000000)
	result := ApplyPagination(
		utxos,
		Params{Offset: 1, Limit: &limit, MinTotal: &minTotal},
	)
	require.Len(t, result, 1)
	assert.Equal(t, test.Input(0x02, 0), result[0].Id)
}
