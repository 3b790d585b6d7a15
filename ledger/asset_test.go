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
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFingerprint(t *testing.T) {
	// CIP-14 test vector
	policyId, err := hex.DecodeString(
		"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373",
	)
	require.NoError(t, err)
	fingerprint := NewAssetFingerprint(policyId, nil)
	assert.Equal(
		t,
		"asset1rjklcrnsdzqp65wjgrg55sy9723kw09mlgvlc6",
		fingerprint.String(),
	)
}

func TestAssetUnitRoundTrip(t *testing.T) {
	policyId, err := NewBlake2b224FromHex(
		"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373",
	)
	require.NoError(t, err)
	assetName := []byte("testtoken")
	unit := AssetUnit(policyId, assetName)
	assert.Equal(
		t,
		"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373"+
			hex.EncodeToString(assetName),
		unit,
	)
	parsedPolicy, parsedName, err := ParseAssetUnit(unit)
	require.NoError(t, err)
	assert.Equal(t, policyId, parsedPolicy)
	assert.Equal(t, assetName, parsedName)
}

func TestParseAssetUnitInvalid(t *testing.T) {
	for _, unit := range []string{"", LovelaceUnit, "abcd", "zz"} {
		if _, _, err := ParseAssetUnit(unit); err == nil {
			t.Errorf("expected error parsing unit %q", unit)
		}
	}
}

func TestMultiAssetSetAndAdd(t *testing.T) {
	policyA := Blake2b224Hash([]byte("policy-a"))
	policyB := Blake2b224Hash([]byte("policy-b"))
	assets := NewMultiAsset[MultiAssetTypeOutput](nil)
	assets.Set(policyA, []byte("one"), 5)
	assets.Set(policyB, []byte("two"), 7)
	assert.Equal(t, MultiAssetTypeOutput(5), assets.Asset(policyA, []byte("one")))
	assert.Equal(t, MultiAssetTypeOutput(0), assets.Asset(policyA, []byte("two")))

	other := NewMultiAsset[MultiAssetTypeOutput](nil)
	other.Set(policyA, []byte("one"), 3)
	assets.Add(&other)
	assert.Equal(t, MultiAssetTypeOutput(8), assets.Asset(policyA, []byte("one")))
	assert.Equal(t, MultiAssetTypeOutput(7), assets.Asset(policyB, []byte("two")))
}

func TestMultiAssetCompare(t *testing.T) {
	policyId := Blake2b224Hash([]byte("policy"))
	a := NewMultiAsset[MultiAssetTypeOutput](nil)
	a.Set(policyId, []byte("tok"), 10)
	b := NewMultiAsset[MultiAssetTypeOutput](nil)
	b.Set(policyId, []byte("tok"), 10)
	if !a.Compare(&b) {
		t.Error("expected equal multi-assets to compare equal")
	}
	b.Set(policyId, []byte("tok"), 11)
	if a.Compare(&b) {
		t.Error("expected differing multi-assets to compare unequal")
	}
}
