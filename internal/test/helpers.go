package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/chainquery/ledger"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Address builds a deterministic testnet enterprise address from a seed byte
func Address(seed byte) ledger.Address {
	payload := make([]byte, 29)
	payload[0] = 0x60 // enterprise payment address, testnet
	for i := 1; i < len(payload); i++ {
		payload[i] = seed
	}
	addr, err := ledger.NewAddressFromBytes(payload)
	if err != nil {
		panic(fmt.Sprintf("error building test address: %s", err))
	}
	return addr
}

// Input builds a deterministic input reference from a seed byte
func Input(seed byte, idx int) ledger.TransactionInput {
	return ledger.NewTransactionInput(
		strings.Repeat(fmt.Sprintf("%02x", seed), 32),
		idx,
	)
}

// Utxo builds a UTxO locking the given lovelace amount at a seeded address
func Utxo(inputSeed byte, idx int, addrSeed byte, amount uint64) ledger.Utxo {
	return ledger.Utxo{
		Id: Input(inputSeed, idx),
		Output: ledger.TransactionOutput{
			OutputAddress: Address(addrSeed),
			OutputAmount:  ledger.Value{Amount: amount},
		},
	}
}

// UtxoMap builds a UTxO set from individual UTxOs
func UtxoMap(utxos ...ledger.Utxo) ledger.UtxoMap {
	ret := make(ledger.UtxoMap, len(utxos))
	for _, utxo := range utxos {
		ret[utxo.Id] = utxo.Output
	}
	return ret
}
