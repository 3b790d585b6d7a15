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
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/chainquery/ledger"
)

// apiAmount is one entry of a Blockfrost value list. Quantities are decimal
// strings; the unit is either "lovelace" or policy id + asset name hex.
type apiAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// apiAddressUtxo is one entry of an address UTxO listing
type apiAddressUtxo struct {
	TxHash      string      `json:"tx_hash"`
	OutputIndex uint32      `json:"output_index"`
	Address     string      `json:"address"`
	Amount      []apiAmount `json:"amount"`
	DataHash    string      `json:"data_hash"`
	InlineDatum string      `json:"inline_datum"`
}

func (u apiAddressUtxo) convert() (ledger.Utxo, error) {
	txId, err := ledger.NewBlake2b256FromHex(u.TxHash)
	if err != nil {
		return ledger.Utxo{}, fmt.Errorf("invalid tx hash: %w", err)
	}
	output, err := convertOutput(
		u.Address,
		u.Amount,
		u.DataHash,
		u.InlineDatum,
	)
	if err != nil {
		return ledger.Utxo{}, err
	}
	return ledger.Utxo{
		Id: ledger.TransactionInput{
			TxId:        txId,
			OutputIndex: u.OutputIndex,
		},
		Output: output,
	}, nil
}

// apiTxUtxos is the response of a transaction UTxO lookup. Inputs are ignored
// here; only the produced outputs matter for queries.
type apiTxUtxos struct {
	Hash    string        `json:"hash"`
	Outputs []apiTxOutput `json:"outputs"`
}

type apiTxOutput struct {
	Address      string      `json:"address"`
	Amount       []apiAmount `json:"amount"`
	OutputIndex  uint32      `json:"output_index"`
	DataHash     string      `json:"data_hash"`
	InlineDatum  string      `json:"inline_datum"`
	Collateral   bool        `json:"collateral"`
	ConsumedByTx *string     `json:"consumed_by_tx"`
}

// spendable reports whether the output is still part of the UTxO set
func (o apiTxOutput) spendable() bool {
	return !o.Collateral &&
		(o.ConsumedByTx == nil || *o.ConsumedByTx == "")
}

func (o apiTxOutput) convert(
	txId ledger.Blake2b256,
) (ledger.Utxo, error) {
	output, err := convertOutput(
		o.Address,
		o.Amount,
		o.DataHash,
		o.InlineDatum,
	)
	if err != nil {
		return ledger.Utxo{}, err
	}
	return ledger.Utxo{
		Id: ledger.TransactionInput{
			TxId:        txId,
			OutputIndex: o.OutputIndex,
		},
		Output: output,
	}, nil
}

func convertOutput(
	address string,
	amounts []apiAmount,
	dataHash string,
	inlineDatum string,
) (ledger.TransactionOutput, error) {
	addr, err := ledger.NewAddress(address)
	if err != nil {
		return ledger.TransactionOutput{}, err
	}
	value, err := convertValue(amounts)
	if err != nil {
		return ledger.TransactionOutput{}, err
	}
	ret := ledger.TransactionOutput{
		OutputAddress: addr,
		OutputAmount:  value,
	}
	// An inline datum takes precedence: Blockfrost reports its hash in
	// data_hash as well
	if inlineDatum != "" {
		datum, err := hex.DecodeString(inlineDatum)
		if err != nil {
			return ledger.TransactionOutput{}, fmt.Errorf(
				"invalid inline datum: %w",
				err,
			)
		}
		ret.DatumOption = &ledger.DatumOption{Datum: datum}
	} else if dataHash != "" {
		tmpHash, err := ledger.NewBlake2b256FromHex(dataHash)
		if err != nil {
			return ledger.TransactionOutput{}, fmt.Errorf(
				"invalid datum hash: %w",
				err,
			)
		}
		ret.DatumOption = &ledger.DatumOption{Hash: &tmpHash}
	}
	return ret, nil
}

func convertValue(amounts []apiAmount) (ledger.Value, error) {
	var ret ledger.Value
	for _, amount := range amounts {
		quantity, err := strconv.ParseUint(amount.Quantity, 10, 64)
		if err != nil {
			return ledger.Value{}, fmt.Errorf(
				"invalid quantity %q for unit %s: %w",
				amount.Quantity,
				amount.Unit,
				err,
			)
		}
		if amount.Unit == ledger.LovelaceUnit {
			ret.Amount = quantity
			continue
		}
		policyId, assetName, err := ledger.ParseAssetUnit(amount.Unit)
		if err != nil {
			return ledger.Value{}, err
		}
		if ret.Assets == nil {
			tmpAssets := ledger.NewMultiAsset[ledger.MultiAssetTypeOutput](nil)
			ret.Assets = &tmpAssets
		}
		ret.Assets.Set(policyId, assetName, quantity)
	}
	return ret, nil
}

// apiProtocolParams is the subset of epoch parameters carried in the ledger
// model. Blockfrost returns large amounts as decimal strings.
type apiProtocolParams struct {
	MinFeeA          uint   `json:"min_fee_a"`
	MinFeeB          uint   `json:"min_fee_b"`
	MaxTxSize        uint   `json:"max_tx_size"`
	MaxValSize       string `json:"max_val_size"`
	KeyDeposit       string `json:"key_deposit"`
	PoolDeposit      string `json:"pool_deposit"`
	MinUtxo          string `json:"min_utxo"`
	CoinsPerUtxoSize string `json:"coins_per_utxo_size"`
}

func (p apiProtocolParams) convert() (ledger.ProtocolParameters, error) {
	maxValSize, err := parseUintString(p.MaxValSize)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	keyDeposit, err := parseUintString(p.KeyDeposit)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	poolDeposit, err := parseUintString(p.PoolDeposit)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	minUtxoValue, err := parseUintString(p.MinUtxo)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	coinsPerUtxoByte, err := parseUintString(p.CoinsPerUtxoSize)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	return ledger.ProtocolParameters{
		MinFeeA:          p.MinFeeA,
		MinFeeB:          p.MinFeeB,
		MaxTxSize:        p.MaxTxSize,
		MaxValSize:       uint(maxValSize),
		KeyDeposit:       keyDeposit,
		PoolDeposit:      poolDeposit,
		MinUtxoValue:     minUtxoValue,
		CoinsPerUtxoByte: coinsPerUtxoByte,
	}, nil
}

// parseUintString parses a Blockfrost decimal-string amount, treating an
// absent value as zero
func parseUintString(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	ret, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return ret, nil
}
