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
	"strings"
	"testing"

	"github.com/blinklabs-io/chainquery/internal/test"
	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/provider"
	"github.com/blinklabs-io/chainquery/query"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Blockfrost {
	t.Helper()
	b, err := New(
		WithProjectId("preview-test-project"),
		WithNetwork(ledger.NetworkPreview),
	)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(b.client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return b
}

func addressUtxoFixture(
	txHash string,
	idx uint32,
	address string,
	lovelace string,
	extraUnits map[string]string,
) map[string]any {
	amount := []map[string]string{
		{"unit": "lovelace", "quantity": lovelace},
	}
	for unit, quantity := range extraUnits {
		amount = append(
			amount,
			map[string]string{"unit": unit, "quantity": quantity},
		)
	}
	return map[string]any{
		"tx_hash":      txHash,
		"output_index": idx,
		"address":      address,
		"amount":       amount,
	}
}

func TestFindUtxosFromAddress(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x01)
	txHash := strings.Repeat("ab", 32)
	policyHex := strings.Repeat("cd", 28)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos",
		httpmock.NewJsonResponderOrPanic(200, []map[string]any{
			addressUtxoFixture(txHash, 0, addr.String(), "5000000", nil),
			addressUtxoFixture(
				txHash,
				1,
				addr.String(),
				"2000000",
				map[string]string{policyHex + "746f6b656e": "7"},
			),
		}),
	)
	result, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: addr}),
	)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, uint64(5000000), result[0].Output.Amount())
	assert.Equal(t, addr, result[0].Output.Address())
	require.NotNil(t, result[1].Output.Assets())
	policyId, err := ledger.NewBlake2b224FromHex(policyHex)
	require.NoError(t, err)
	assert.Equal(
		t,
		ledger.MultiAssetTypeOutput(7),
		result[1].Output.Assets().Asset(policyId, []byte("token")),
	)
}

func TestFindUtxosUnusedAddress(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x02)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos",
		httpmock.NewJsonResponderOrPanic(404, map[string]any{
			"status_code": 404,
			"error":       "Not Found",
			"message":     "The requested component has not been found.",
		}),
	)
	// A never-seen address is an empty success
	result, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: addr}),
	)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFindUtxosPaging(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x04)
	txHash := strings.Repeat("ee", 32)
	// A full first page forces a second fetch; a 404 there must keep the
	// entries already accumulated
	firstPage := make([]map[string]any, 0, pageSize)
	for idx := range pageSize {
		firstPage = append(
			firstPage,
			addressUtxoFixture(txHash, uint32(idx), addr.String(), "1000000", nil), // #nosec G115
		)
	}
	httpmock.RegisterResponderWithQuery(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos",
		map[string]string{"count": "100", "page": "1"},
		httpmock.NewJsonResponderOrPanic(200, firstPage),
	)
	httpmock.RegisterResponderWithQuery(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos",
		map[string]string{"count": "100", "page": "2"},
		httpmock.NewJsonResponderOrPanic(404, map[string]any{
			"status_code": 404,
			"error":       "Not Found",
			"message":     "The requested component has not been found.",
		}),
	)
	result, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: addr}),
	)
	require.NoError(t, err)
	assert.Len(t, result, pageSize)
}

func TestFindUtxosAssetEndpoint(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x01)
	txHash := strings.Repeat("ef", 32)
	policyId := ledger.Blake2b224Hash([]byte("policy"))
	unit := ledger.AssetUnit(policyId, []byte("token"))
	// Only the combined address+asset endpoint is registered: hitting the
	// plain address endpoint would fail the test
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos/"+unit,
		httpmock.NewJsonResponderOrPanic(200, []map[string]any{
			addressUtxoFixture(
				txHash,
				0,
				addr.String(),
				"3000000",
				map[string]string{unit: "1"},
			),
		}),
	)
	result, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: addr}).
			And(query.HasAsset{PolicyId: policyId, AssetName: []byte("token")}),
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint64(3000000), result[0].Output.Amount())
}

func TestFindUtxosFromAsset(t *testing.T) {
	b := newTestProvider(t)
	_, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAsset{
			PolicyId: ledger.Blake2b224Hash([]byte("policy")),
		}),
	)
	var notSupported query.NotSupportedError
	require.ErrorAs(t, err, &notSupported)
}

func TestFindUtxosFromInputs(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x01)
	txHash := strings.Repeat("12", 32)
	txId, err := ledger.NewBlake2b256FromHex(txHash)
	require.NoError(t, err)
	consumedBy := strings.Repeat("34", 32)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/txs/"+txHash+"/utxos",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"hash": txHash,
			"outputs": []map[string]any{
				{
					"address":      addr.String(),
					"output_index": 0,
					"amount": []map[string]string{
						{"unit": "lovelace", "quantity": "1000000"},
					},
				},
				{
					"address":      addr.String(),
					"output_index": 1,
					"amount": []map[string]string{
						{"unit": "lovelace", "quantity": "2000000"},
					},
					"consumed_by_tx": consumedBy,
				},
			},
		}),
	)
	// The unspent output resolves
	result, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromInputs{
			Inputs: []ledger.TransactionInput{
				{TxId: txId, OutputIndex: 0},
			},
		}),
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint64(1000000), result[0].Output.Amount())

	// Requesting the already-consumed output fails the whole set
	_, err = b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromInputs{
			Inputs: []ledger.TransactionInput{
				{TxId: txId, OutputIndex: 0},
				{TxId: txId, OutputIndex: 1},
			},
		}),
	)
	var notFound query.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestFindUtxosRateLimited(t *testing.T) {
	b := newTestProvider(t)
	addr := test.Address(0x03)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addr.String()+"/utxos",
		httpmock.NewJsonResponderOrPanic(429, map[string]any{
			"status_code": 429,
			"error":       "Project Over Limit",
			"message":     "Usage is over limit.",
		}),
	)
	_, err := b.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: addr}),
	)
	var rateLimited query.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
}

func TestSubmitTxBytes(t *testing.T) {
	b := newTestProvider(t)
	txHash := strings.Repeat("56", 32)
	httpmock.RegisterResponder(
		"POST",
		previewBaseUrl+"/tx/submit",
		httpmock.NewJsonResponderOrPanic(200, txHash),
	)
	result, err := b.SubmitTxBytes(context.Background(), []byte{0x84})
	require.NoError(t, err)
	assert.Equal(t, txHash, result.String())
}

func TestSubmitTxBytesRejected(t *testing.T) {
	b := newTestProvider(t)
	badInput := strings.Repeat("78", 32)
	httpmock.RegisterResponder(
		"POST",
		previewBaseUrl+"/tx/submit",
		httpmock.NewJsonResponderOrPanic(400, map[string]any{
			"status_code": 400,
			"error":       "Bad Request",
			"message":     `transaction submit error: BadInputsUTxO ` + badInput + `#0`,
		}),
	)
	_, err := b.SubmitTxBytes(context.Background(), []byte{0x84})
	var notAvailable provider.UtxoNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	require.Len(t, notAvailable.Inputs, 1)
	assert.Equal(t, uint32(0), notAvailable.Inputs[0].OutputIndex)
}

func TestLatestParams(t *testing.T) {
	b := newTestProvider(t)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/epochs/latest/parameters",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"min_fee_a":           44,
			"min_fee_b":           155381,
			"max_tx_size":         16384,
			"max_val_size":        "5000",
			"key_deposit":         "2000000",
			"pool_deposit":        "500000000",
			"min_utxo":            "4310",
			"coins_per_utxo_size": "4310",
		}),
	)
	params, err := b.LatestParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(44), params.MinFeeA)
	assert.Equal(t, uint(155381), params.MinFeeB)
	assert.Equal(t, uint(16384), params.MaxTxSize)
	assert.Equal(t, uint(5000), params.MaxValSize)
	assert.Equal(t, uint64(2000000), params.KeyDeposit)
	assert.Equal(t, uint64(4310), params.CoinsPerUtxoByte)
}

func TestCurrentSlot(t *testing.T) {
	b := newTestProvider(t)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/blocks/latest",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"hash": strings.Repeat("9a", 32),
			"slot": 12345678,
		}),
	)
	slot, err := b.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12345678), slot)
}

func TestOrQueryMergesBranches(t *testing.T) {
	b := newTestProvider(t)
	addrA := test.Address(0x01)
	addrB := test.Address(0x02)
	txHash := strings.Repeat("bc", 32)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addrA.String()+"/utxos",
		httpmock.NewJsonResponderOrPanic(200, []map[string]any{
			addressUtxoFixture(txHash, 0, addrA.String(), "1000000", nil),
		}),
	)
	httpmock.RegisterResponder(
		"GET",
		previewBaseUrl+"/addresses/"+addrB.String()+"/utxos",
		httpmock.NewJsonResponderOrPanic(200, []map[string]any{
			addressUtxoFixture(txHash, 1, addrB.String(), "2000000", nil),
		}),
	)
	orQuery, err := query.NewOr(
		query.MustNew(query.FromAddress{Address: addrA}),
		query.MustNew(query.FromAddress{Address: addrB}),
	)
	require.NoError(t, err)
	result, err := b.FindUtxos(context.Background(), orQuery)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// An offset consumes merged entries, so the branch-level limit must not
	// starve it of the entry it lands on
	result, err = b.FindUtxos(
		context.Background(),
		orQuery.WithOffset(1).WithLimit(1),
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint32(1), result[0].Id.OutputIndex)
}
