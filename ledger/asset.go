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
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/blinklabs-io/chainquery/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// LovelaceUnit is the unit string used by provider APIs for ADA amounts
const LovelaceUnit = "lovelace"

type (
	MultiAssetTypeOutput = uint64
	MultiAssetTypeMint   = int64
)

// MultiAsset represents a collection of policies, assets, and quantities. It's used for
// TX outputs (uint64) and TX asset minting (int64 to allow for negative values for burning)
type MultiAsset[T int64 | uint64] struct {
	data map[Blake2b224]map[cbor.ByteString]T
}

// NewMultiAsset creates a MultiAsset with the specified data
func NewMultiAsset[T int64 | uint64](
	data map[Blake2b224]map[cbor.ByteString]T,
) MultiAsset[T] {
	if data == nil {
		data = make(map[Blake2b224]map[cbor.ByteString]T)
	}
	return MultiAsset[T]{data: data}
}

func (m *MultiAsset[T]) UnmarshalCBOR(data []byte) error {
	_, err := cbor.Decode(data, &(m.data))
	return err
}

func (m *MultiAsset[T]) MarshalCBOR() ([]byte, error) {
	// The CBOR library is configured with deterministic sorting, so direct
	// encoding of the map produces stable output
	return cbor.Encode(m.data)
}

func (m *MultiAsset[T]) Policies() []Blake2b224 {
	ret := make([]Blake2b224, 0, len(m.data))
	for policyId := range m.data {
		ret = append(ret, policyId)
	}
	return ret
}

func (m *MultiAsset[T]) Assets(policyId Blake2b224) [][]byte {
	assets, ok := m.data[policyId]
	if !ok {
		return nil
	}
	ret := make([][]byte, 0, len(assets))
	for assetName := range assets {
		ret = append(ret, assetName.Bytes())
	}
	return ret
}

func (m *MultiAsset[T]) Asset(policyId Blake2b224, assetName []byte) T {
	policy, ok := m.data[policyId]
	if !ok {
		var zero T
		return zero
	}
	return policy[cbor.NewByteString(assetName)]
}

// Set stores the quantity for the given policy and asset name
func (m *MultiAsset[T]) Set(policyId Blake2b224, assetName []byte, amount T) {
	if m.data == nil {
		m.data = make(map[Blake2b224]map[cbor.ByteString]T)
	}
	if _, ok := m.data[policyId]; !ok {
		m.data[policyId] = make(map[cbor.ByteString]T)
	}
	m.data[policyId][cbor.NewByteString(assetName)] = amount
}

func (m *MultiAsset[T]) Add(assets *MultiAsset[T]) {
	if assets == nil {
		return
	}
	for policy, policyAssets := range assets.data {
		for asset, amount := range policyAssets {
			existing := m.Asset(policy, asset.Bytes())
			m.Set(policy, asset.Bytes(), existing+amount)
		}
	}
}

func (m *MultiAsset[T]) Compare(assets *MultiAsset[T]) bool {
	// Normalize data for easier comparison
	tmpData := m.normalize()
	otherData := assets.normalize()
	if len(otherData) != len(tmpData) {
		return false
	}
	for policy, policyAssets := range otherData {
		if len(policyAssets) != len(tmpData[policy]) {
			return false
		}
		for asset, amount := range policyAssets {
			if amount != m.Asset(policy, asset.Bytes()) {
				return false
			}
		}
	}
	return true
}

func (m *MultiAsset[T]) normalize() map[Blake2b224]map[cbor.ByteString]T {
	ret := map[Blake2b224]map[cbor.ByteString]T{}
	if m == nil || m.data == nil {
		return ret
	}
	for policy, policyAssets := range m.data {
		for asset, amount := range policyAssets {
			if amount != 0 {
				if _, ok := ret[policy]; !ok {
					ret[policy] = make(map[cbor.ByteString]T)
				}
				ret[policy][asset] = amount
			}
		}
	}
	return ret
}

// String returns a stable, human-friendly representation of the MultiAsset.
// Output format: [<policyId>.<assetNameHex>=<amount>, ...] sorted by policyId, then asset name
func (m *MultiAsset[T]) String() string {
	if m == nil {
		return "[]"
	}
	norm := m.normalize()
	if len(norm) == 0 {
		return "[]"
	}

	policies := slices.Collect(maps.Keys(norm))
	slices.SortFunc(
		policies,
		func(a, b Blake2b224) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
	)

	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, pid := range policies {
		assets := norm[pid]
		names := slices.Collect(maps.Keys(assets))
		slices.SortFunc(
			names,
			func(a, b cbor.ByteString) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
		)

		for _, name := range names {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(pid.String())
			b.WriteByte('.')
			b.WriteString(hex.EncodeToString(name.Bytes()))
			b.WriteByte('=')
			fmt.Fprintf(&b, "%d", assets[name])
		}
	}
	b.WriteByte(']')
	return b.String()
}

type AssetFingerprint struct {
	policyId  []byte
	assetName []byte
}

func NewAssetFingerprint(policyId []byte, assetName []byte) AssetFingerprint {
	return AssetFingerprint{
		policyId:  policyId,
		assetName: assetName,
	}
}

func (a AssetFingerprint) Hash() Blake2b160 {
	tmpHash, err := blake2b.New(Blake2b160Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(a.policyId)
	tmpHash.Write(a.assetName)
	return NewBlake2b160(tmpHash.Sum(nil))
}

func (a AssetFingerprint) String() string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(a.Hash().Bytes(), 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode("asset", convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

// AssetUnit builds the concatenated policy id + asset name hex string used by
// provider APIs to identify a native asset
func AssetUnit(policyId Blake2b224, assetName []byte) string {
	return policyId.String() + hex.EncodeToString(assetName)
}

// ParseAssetUnit splits a provider API unit string into policy id and asset
// name. The unit "lovelace" is not a valid asset unit.
func ParseAssetUnit(unit string) (Blake2b224, []byte, error) {
	if len(unit) < Blake2b224Size*2 || unit == LovelaceUnit {
		return Blake2b224{}, nil, fmt.Errorf("invalid asset unit: %s", unit)
	}
	policyId, err := NewBlake2b224FromHex(unit[:Blake2b224Size*2])
	if err != nil {
		return Blake2b224{}, nil, fmt.Errorf("invalid asset unit: %s", unit)
	}
	assetName, err := hex.DecodeString(unit[Blake2b224Size*2:])
	if err != nil {
		return Blake2b224{}, nil, fmt.Errorf("invalid asset unit: %s", unit)
	}
	return policyId, assetName, nil
}
