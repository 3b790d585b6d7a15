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
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromBytesRoundTrip(t *testing.T) {
	payload := make([]byte, 29)
	payload[0] = 0x60 // enterprise, testnet
	for i := 1; i < len(payload); i++ {
		payload[i] = 0x42
	}
	addr, err := NewAddressFromBytes(payload)
	require.NoError(t, err)
	if !strings.HasPrefix(addr.String(), "addr_test1") {
		t.Errorf("unexpected address prefix: %s", addr.String())
	}
	assert.Equal(t, payload, addr.Bytes())
	assert.Equal(t, uint(AddressNetworkTestnet), addr.NetworkId())

	// Parsing the encoded form yields an equal value
	reparsed, err := NewAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, reparsed)
}

func TestAddressPrefixes(t *testing.T) {
	testDefs := []struct {
		header         byte
		expectedPrefix string
	}{
		{0x60, "addr_test1"},
		{0x61, "addr1"},
		{0xe0, "stake_test1"},
		{0xe1, "stake1"},
	}
	for _, testDef := range testDefs {
		payload := make([]byte, 29)
		payload[0] = testDef.header
		addr, err := NewAddressFromBytes(payload)
		require.NoError(t, err)
		if !strings.HasPrefix(addr.String(), testDef.expectedPrefix) {
			t.Errorf(
				"header %#02x: got %s, expected prefix %s",
				testDef.header,
				addr.String(),
				testDef.expectedPrefix,
			)
		}
	}
}

func TestAddressInvalid(t *testing.T) {
	_, err := NewAddress("not-an-address")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	_, err = NewAddressFromBytes(nil)
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestAddressJsonRoundTrip(t *testing.T) {
	addr := testAddress(t, 0x99)
	jsonData, err := json.Marshal(addr)
	require.NoError(t, err)
	var decoded Address
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, addr, decoded)
}
