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
	"fmt"

	"github.com/blinklabs-io/chainquery/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address network ID values
const (
	AddressNetworkTestnet = 0
	AddressNetworkMainnet = 1
)

var ErrInvalidAddress = errors.New("invalid address")

// Address is a bech32 Shelley address. The zero value is invalid; use
// NewAddress to construct one. Address values are comparable and can be used
// as map keys.
type Address struct {
	value string
}

// NewAddress parses a bech32-encoded address
func NewAddress(addr string) (Address, error) {
	_, _, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return Address{value: addr}, nil
}

// MustNewAddress parses a bech32-encoded address and panics on failure. It's
// intended for static addresses in tests and examples.
func MustNewAddress(addr string) Address {
	a, err := NewAddress(addr)
	if err != nil {
		panic(fmt.Sprintf("invalid address %q: %s", addr, err))
	}
	return a
}

func (a Address) String() string {
	return a.value
}

// Bytes returns the raw address payload decoded from bech32
func (a Address) Bytes() []byte {
	_, data, err := bech32.DecodeNoLimit(a.value)
	if err != nil {
		// Construction via NewAddress makes this unreachable
		return nil
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil
	}
	return decoded
}

// NetworkId returns the network ID from the address header byte
func (a Address) NetworkId() uint {
	payload := a.Bytes()
	if len(payload) == 0 {
		return 0
	}
	return uint(payload[0] & 0x0f)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := NewAddress(tmp)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(a.Bytes())
}

func (a *Address) UnmarshalCBOR(cborData []byte) error {
	var tmpData []byte
	if _, err := cbor.Decode(cborData, &tmpData); err != nil {
		return err
	}
	addr, err := NewAddressFromBytes(tmpData)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// NewAddressFromBytes builds an Address from a raw address payload, choosing
// the bech32 prefix from the header byte
func NewAddressFromBytes(payload []byte) (Address, error) {
	if len(payload) == 0 {
		return Address{}, ErrInvalidAddress
	}
	header := payload[0]
	prefix := "addr"
	// Header types 14 and 15 are stake (reward) addresses
	if header>>4 == 14 || header>>4 == 15 {
		prefix = "stake"
	}
	if header&0x0f == AddressNetworkTestnet {
		prefix += "_test"
	}
	convData, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return Address{value: encoded}, nil
}
