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

package emulator

import (
	"context"
	"sync"
	"testing"

	"github.com/blinklabs-io/chainquery/internal/test"
	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/provider"
	"github.com/blinklabs-io/chainquery/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func spendTx(
	input ledger.TransactionInput,
	inputAmount uint64,
	fee uint64,
	destSeed byte,
) *ledger.Transaction {
	return &ledger.Transaction{
		Body: ledger.TransactionBody{
			TxInputs: []ledger.TransactionInput{input},
			TxOutputs: []ledger.TransactionOutput{
				{
					OutputAddress: test.Address(destSeed),
					OutputAmount:  ledger.Value{Amount: inputAmount - fee},
				},
			},
			TxFee: fee,
		},
		IsValid: true,
	}
}

func TestSubmitTx(t *testing.T) {
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)))
	tx := spendTx(seeded.Id, 10000000, 200000, 0x02)
	txHash, err := e.SubmitTx(context.Background(), tx)
	require.NoError(t, err)
	expectedHash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, expectedHash, txHash)

	// The spent input is gone and the new output is findable
	result, err := e.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: test.Address(0x02)}),
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint64(9800000), result[0].Output.Amount())

	result, err = e.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: test.Address(0x01)}),
	)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSubmitTxValidationFailure(t *testing.T) {
	e := New()
	tx := spendTx(test.Input(0x01, 0), 10000000, 200000, 0x02)
	_, err := e.SubmitTx(context.Background(), tx)
	var notAvailable provider.UtxoNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	require.Len(t, notAvailable.Inputs, 1)
	assert.Equal(t, test.Input(0x01, 0), notAvailable.Inputs[0])
	assert.False(t, notAvailable.Retryable())
}

func TestSubmitTxExpired(t *testing.T) {
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)), WithSlot(200))
	tx := spendTx(seeded.Id, 10000000, 200000, 0x02)
	tx.Body.Ttl = 100
	_, err := e.SubmitTx(context.Background(), tx)
	var expired provider.TransactionExpiredError
	require.ErrorAs(t, err, &expired)
}

func TestSubmitTxValueNotConserved(t *testing.T) {
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)))
	tx := spendTx(seeded.Id, 10000000, 200000, 0x02)
	tx.Body.TxOutputs[0].OutputAmount.Amount = 20000000
	_, err := e.SubmitTx(context.Background(), tx)
	var notConserved provider.ValueNotConservedError
	require.ErrorAs(t, err, &notConserved)
	assert.Equal(t, uint64(10000000), notConserved.Consumed)
	assert.Equal(t, uint64(20200000), notConserved.Produced)
}

func TestConcurrentDoubleSpend(t *testing.T) {
	defer goleak.VerifyNone(t)
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)))
	// Two transactions spending the same input to different destinations;
	// exactly one may win regardless of interleaving
	txA := spendTx(seeded.Id, 10000000, 200000, 0x02)
	txB := spendTx(seeded.Id, 10000000, 200000, 0x03)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for idx, tx := range []*ledger.Transaction{txA, txB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[idx] = e.SubmitTx(context.Background(), tx)
		}()
	}
	wg.Wait()
	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var notAvailable provider.UtxoNotAvailableError
		require.ErrorAs(t, err, &notAvailable)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestSetSlotAndCurrentSlot(t *testing.T) {
	e := New(WithSlot(100))
	slot, err := e.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), slot)
	e.SetSlot(500)
	slot, err = e.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(500), slot)
}

func TestLatestParams(t *testing.T) {
	params := ledger.ProtocolParameters{MinFeeA: 44, MinFeeB: 155381}
	e := New(WithParams(params))
	got, err := e.LatestParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, params, got)
}

func TestAddUtxos(t *testing.T) {
	e := New()
	e.AddUtxos(test.Utxo(0x01, 0, 0x01, 5000000))
	result, err := e.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: test.Address(0x01)}),
	)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestSnapshotIndependence(t *testing.T) {
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)), WithSlot(10))
	snap := e.Snapshot()

	// Spending on the original is invisible to the snapshot
	tx := spendTx(seeded.Id, 10000000, 200000, 0x02)
	_, err := e.SubmitTx(context.Background(), tx)
	require.NoError(t, err)
	result, err := snap.FindUtxos(
		context.Background(),
		query.MustNew(query.FromAddress{Address: test.Address(0x01)}),
	)
	require.NoError(t, err)
	assert.Len(t, result, 1)

	// The same spend still works against the snapshot's state
	_, err = snap.SubmitTx(context.Background(), tx)
	require.NoError(t, err)

	// Slot changes don't propagate either way
	snap.SetSlot(999)
	slot, err := e.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), slot)
}

func TestSubmitTxBytes(t *testing.T) {
	seeded := test.Utxo(0x01, 0, 0x01, 10000000)
	e := New(WithUtxos(test.UtxoMap(seeded)))
	tx := spendTx(seeded.Id, 10000000, 200000, 0x02)
	txCbor, err := tx.Cbor()
	require.NoError(t, err)
	txHash, err := e.SubmitTxBytes(context.Background(), txCbor)
	require.NoError(t, err)
	expectedHash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, expectedHash, txHash)

	// Garbage bytes are a validation failure, not a panic
	_, err = e.SubmitTxBytes(context.Background(), []byte{0xff, 0x00})
	var validation provider.ValidationError
	require.ErrorAs(t, err, &validation)
}
