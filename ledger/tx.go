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

package ledger

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/blinklabs-io/chainquery/cbor"
	"github.com/blinklabs-io/plutigo/data"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

// TransactionInput identifies an output of a previous transaction. It is
// comparable and used as the unique key in UTxO sets.
type TransactionInput struct {
	cbor.StructAsArray
	TxId        Blake2b256
	OutputIndex uint32
}

func NewTransactionInput(hashHex string, idx int) TransactionInput {
	tmpHash, err := hex.DecodeString(hashHex)
	if err != nil {
		panic(fmt.Sprintf("failed to decode transaction hash: %s", err))
	}
	if idx < 0 || idx > math.MaxUint32 {
		panic("index out of range")
	}
	return TransactionInput{
		TxId:        NewBlake2b256(tmpHash),
		OutputIndex: uint32(idx),
	}
}

func (i TransactionInput) Id() Blake2b256 {
	return i.TxId
}

func (i TransactionInput) Index() uint32 {
	return i.OutputIndex
}

func (i TransactionInput) Utxorpc() *utxorpc.TxInput {
	return &utxorpc.TxInput{
		TxHash:      i.TxId.Bytes(),
		OutputIndex: i.OutputIndex,
	}
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

func (i TransactionInput) MarshalJSON() ([]byte, error) {
	return []byte("\"" + i.String() + "\""), nil
}

// CompareTransactionInputs provides the canonical ordering of input
// references: transaction id bytes, then output index. This is the iteration
// order used for pagination in the in-memory query evaluator.
func CompareTransactionInputs(a, b TransactionInput) int {
	if c := bytes.Compare(a.TxId.Bytes(), b.TxId.Bytes()); c != 0 {
		return c
	}
	switch {
	case a.OutputIndex < b.OutputIndex:
		return -1
	case a.OutputIndex > b.OutputIndex:
		return 1
	}
	return 0
}

// Value is a lovelace amount with an optional multi-asset bundle. On the wire
// it encodes as a bare coin value when no assets are present and as
// [coin, assets] otherwise.
type Value struct {
	Amount uint64
	Assets *MultiAsset[MultiAssetTypeOutput]
}

func (v Value) MarshalCBOR() ([]byte, error) {
	if v.Assets == nil || len(v.Assets.Policies()) == 0 {
		return cbor.Encode(v.Amount)
	}
	tmpData := struct {
		cbor.StructAsArray
		Amount uint64
		Assets *MultiAsset[MultiAssetTypeOutput]
	}{
		Amount: v.Amount,
		Assets: v.Assets,
	}
	return cbor.Encode(&tmpData)
}

func (v *Value) UnmarshalCBOR(cborData []byte) error {
	// Try plain coin value first
	var tmpAmount uint64
	if _, err := cbor.Decode(cborData, &tmpAmount); err == nil {
		v.Amount = tmpAmount
		v.Assets = nil
		return nil
	}
	var tmpData struct {
		cbor.StructAsArray
		Amount uint64
		Assets *MultiAsset[MultiAssetTypeOutput]
	}
	if _, err := cbor.Decode(cborData, &tmpData); err != nil {
		return err
	}
	v.Amount = tmpData.Amount
	v.Assets = tmpData.Assets
	return nil
}

// DatumOption carries either a datum hash or a full inline datum, mirroring
// the post-Babbage output format
type DatumOption struct {
	Hash *Blake2b256
	// Raw CBOR of the inline datum
	Datum []byte
}

const (
	datumOptionTypeHash   = 0
	datumOptionTypeInline = 1
)

func (d DatumOption) MarshalCBOR() ([]byte, error) {
	if d.Hash != nil {
		tmpData := struct {
			cbor.StructAsArray
			Type uint64
			Hash Blake2b256
		}{
			Type: datumOptionTypeHash,
			Hash: *d.Hash,
		}
		return cbor.Encode(&tmpData)
	}
	tmpData := struct {
		cbor.StructAsArray
		Type  uint64
		Datum cbor.Tag
	}{
		Type: datumOptionTypeInline,
		Datum: cbor.Tag{
			Number:  cbor.CborTagCbor,
			Content: d.Datum,
		},
	}
	return cbor.Encode(&tmpData)
}

func (d *DatumOption) UnmarshalCBOR(cborData []byte) error {
	var tmpData struct {
		cbor.StructAsArray
		Type uint64
		Raw  cbor.RawMessage
	}
	if _, err := cbor.Decode(cborData, &tmpData); err != nil {
		return err
	}
	switch tmpData.Type {
	case datumOptionTypeHash:
		var tmpHash Blake2b256
		if _, err := cbor.Decode(tmpData.Raw, &tmpHash); err != nil {
			return err
		}
		d.Hash = &tmpHash
		d.Datum = nil
	case datumOptionTypeInline:
		var tmpTag cbor.RawTag
		if _, err := cbor.Decode(tmpData.Raw, &tmpTag); err != nil {
			return err
		}
		if tmpTag.Number != cbor.CborTagCbor {
			return fmt.Errorf("unexpected inline datum tag: %d", tmpTag.Number)
		}
		var tmpDatum []byte
		if _, err := cbor.Decode(tmpTag.Content, &tmpDatum); err != nil {
			return err
		}
		d.Hash = nil
		d.Datum = tmpDatum
	default:
		return fmt.Errorf("unknown datum option type: %d", tmpData.Type)
	}
	return nil
}

// TransactionOutput is a post-Babbage-style transaction output
type TransactionOutput struct {
	OutputAddress Address      `cbor:"0,keyasint"`
	OutputAmount  Value        `cbor:"1,keyasint"`
	DatumOption   *DatumOption `cbor:"2,keyasint,omitempty"`
	// Raw CBOR of a reference script
	OutputScriptRef []byte `cbor:"3,keyasint,omitempty"`
}

func (o TransactionOutput) Address() Address {
	return o.OutputAddress
}

func (o TransactionOutput) Amount() uint64 {
	return o.OutputAmount.Amount
}

func (o TransactionOutput) Assets() *MultiAsset[MultiAssetTypeOutput] {
	return o.OutputAmount.Assets
}

// Datum returns the raw CBOR of the inline datum, or nil if the output carries
// none
func (o TransactionOutput) Datum() []byte {
	if o.DatumOption == nil {
		return nil
	}
	return o.DatumOption.Datum
}

// DatumHash returns the declared datum hash. For an inline datum the hash is
// computed from the datum bytes.
func (o TransactionOutput) DatumHash() *Blake2b256 {
	if o.DatumOption == nil {
		return nil
	}
	if o.DatumOption.Hash != nil {
		return o.DatumOption.Hash
	}
	tmpHash := Blake2b256Hash(o.DatumOption.Datum)
	return &tmpHash
}

// PlutusDatum decodes the inline datum into PlutusData
func (o TransactionOutput) PlutusDatum() (data.PlutusData, error) {
	tmpDatum := o.Datum()
	if tmpDatum == nil {
		return nil, errors.New("output has no inline datum")
	}
	return data.Decode(tmpDatum)
}

func (o TransactionOutput) ScriptRef() []byte {
	return o.OutputScriptRef
}

func (o TransactionOutput) String() string {
	return fmt.Sprintf(
		"%s+%d%s",
		o.OutputAddress.String(),
		o.Amount(),
		o.OutputAmount.Assets.String(),
	)
}

func (o TransactionOutput) Utxorpc() *utxorpc.TxOutput {
	return &utxorpc.TxOutput{
		Address: o.OutputAddress.Bytes(),
		Coin:    o.Amount(),
	}
}

// Utxo is an unspent transaction output: the input reference that identifies
// it and the output it locks
type Utxo struct {
	Id     TransactionInput
	Output TransactionOutput
}

func (u Utxo) Utxorpc() *utxorpc.TxOutput {
	return u.Output.Utxorpc()
}

// UtxoMap is a UTxO set keyed by input reference
type UtxoMap map[TransactionInput]TransactionOutput

// Utxos returns the entries sorted by input reference (canonical order)
func (m UtxoMap) Utxos() []Utxo {
	ret := make([]Utxo, 0, len(m))
	for id, output := range m {
		ret = append(ret, Utxo{Id: id, Output: output})
	}
	slices.SortFunc(
		ret,
		func(a, b Utxo) int { return CompareTransactionInputs(a.Id, b.Id) },
	)
	return ret
}

// Clone returns an independent shallow-value copy of the UTxO map. Entries are
// value types, so the copy shares no mutable state with the original.
func (m UtxoMap) Clone() UtxoMap {
	ret := make(UtxoMap, len(m))
	for id, output := range m {
		ret[id] = output
	}
	return ret
}

// VkeyWitness is a verification key plus a signature over the transaction body hash
type VkeyWitness struct {
	cbor.StructAsArray
	Vkey      []byte
	Signature []byte
}

type TransactionWitnessSet struct {
	VkeyWitnesses []VkeyWitness `cbor:"0,keyasint,omitempty"`
}

func (w TransactionWitnessSet) Vkey() []VkeyWitness {
	return w.VkeyWitnesses
}

// TransactionBody is a simplified Conway-style transaction body
type TransactionBody struct {
	TxInputs                []TransactionInput              `cbor:"0,keyasint"`
	TxOutputs               []TransactionOutput             `cbor:"1,keyasint"`
	TxFee                   uint64                          `cbor:"2,keyasint"`
	Ttl                     uint64                          `cbor:"3,keyasint,omitempty"`
	TxValidityIntervalStart uint64                          `cbor:"8,keyasint,omitempty"`
	TxMint                  *MultiAsset[MultiAssetTypeMint] `cbor:"9,keyasint,omitempty"`
	TxRequiredSigners       []Blake2b224                    `cbor:"14,keyasint,omitempty"`
}

func (b *TransactionBody) Inputs() []TransactionInput {
	return b.TxInputs
}

func (b *TransactionBody) Outputs() []TransactionOutput {
	return b.TxOutputs
}

func (b *TransactionBody) Fee() uint64 {
	return b.TxFee
}

func (b *TransactionBody) TTL() uint64 {
	return b.Ttl
}

func (b *TransactionBody) ValidityIntervalStart() uint64 {
	return b.TxValidityIntervalStart
}

func (b *TransactionBody) Mint() *MultiAsset[MultiAssetTypeMint] {
	return b.TxMint
}

func (b *TransactionBody) RequiredSigners() []Blake2b224 {
	return b.TxRequiredSigners
}

// Hash computes the Blake2b-256 hash of the CBOR-encoded body
func (b *TransactionBody) Hash() (Blake2b256, error) {
	cborData, err := cbor.Encode(b)
	if err != nil {
		return Blake2b256{}, err
	}
	return Blake2b256Hash(cborData), nil
}

// Transaction is a simplified transaction: body, witnesses, and the phase-2
// validity flag
type Transaction struct {
	cbor.StructAsArray
	Body          TransactionBody
	WitnessSet    TransactionWitnessSet
	IsValid       bool
	AuxiliaryData *cbor.RawMessage
}

func (t *Transaction) Inputs() []TransactionInput {
	return t.Body.Inputs()
}

func (t *Transaction) Outputs() []TransactionOutput {
	return t.Body.Outputs()
}

func (t *Transaction) Fee() uint64 {
	return t.Body.Fee()
}

func (t *Transaction) TTL() uint64 {
	return t.Body.TTL()
}

func (t *Transaction) ValidityIntervalStart() uint64 {
	return t.Body.ValidityIntervalStart()
}

func (t *Transaction) Mint() *MultiAsset[MultiAssetTypeMint] {
	return t.Body.Mint()
}

func (t *Transaction) RequiredSigners() []Blake2b224 {
	return t.Body.RequiredSigners()
}

func (t *Transaction) Witnesses() TransactionWitnessSet {
	return t.WitnessSet
}

func (t *Transaction) Hash() (Blake2b256, error) {
	return t.Body.Hash()
}

// Cbor returns the CBOR encoding of the full transaction
func (t *Transaction) Cbor() ([]byte, error) {
	return cbor.Encode(t)
}

// Consumed returns the input references spent by this transaction
func (t *Transaction) Consumed() []TransactionInput {
	return t.Inputs()
}

// Produced returns the UTxOs created by this transaction
func (t *Transaction) Produced() ([]Utxo, error) {
	txHash, err := t.Hash()
	if err != nil {
		return nil, err
	}
	ret := make([]Utxo, 0, len(t.Outputs()))
	for idx, output := range t.Outputs() {
		ret = append(
			ret,
			Utxo{
				Id: TransactionInput{
					TxId:        txHash,
					OutputIndex: uint32(idx), // #nosec G115
				},
				Output: output,
			},
		)
	}
	return ret, nil
}

// NewTransactionFromCbor decodes a transaction from CBOR
func NewTransactionFromCbor(cborData []byte) (*Transaction, error) {
	var tmpTx Transaction
	if _, err := cbor.Decode(cborData, &tmpTx); err != nil {
		return nil, err
	}
	return &tmpTx, nil
}
