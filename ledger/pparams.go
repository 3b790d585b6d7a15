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

import "time"

// ProtocolParameters is the subset of the Cardano protocol parameters used by
// fee and minimum-value calculations
type ProtocolParameters struct {
	MinFeeA          uint
	MinFeeB          uint
	MaxTxSize        uint
	MaxValSize       uint
	KeyDeposit       uint64
	PoolDeposit      uint64
	MinUtxoValue     uint64
	CoinsPerUtxoByte uint64
}

// MinFee computes the minimum fee for a transaction of the given
// CBOR-encoded size
func (p ProtocolParameters) MinFee(txSize int) uint64 {
	return uint64(p.MinFeeA*uint(txSize) + p.MinFeeB) //nolint:gosec
}

// SlotConfig translates between slot numbers and wall-clock time
type SlotConfig struct {
	// ZeroTime is the wall-clock time of slot ZeroSlot in milliseconds since
	// the Unix epoch
	ZeroTime int64
	ZeroSlot uint64
	// SlotLength is the slot duration in milliseconds
	SlotLength int64
}

func (s SlotConfig) SlotToTime(slot uint64) time.Time {
	msAfterZero := int64(slot-s.ZeroSlot) * s.SlotLength //nolint:gosec
	return time.UnixMilli(s.ZeroTime + msAfterZero)
}

func (s SlotConfig) TimeToSlot(t time.Time) uint64 {
	msAfterZero := t.UnixMilli() - s.ZeroTime
	if msAfterZero < 0 || s.SlotLength <= 0 {
		return s.ZeroSlot
	}
	return s.ZeroSlot + uint64(msAfterZero/s.SlotLength) //nolint:gosec
}

// Slot configurations for well-known networks
var (
	SlotConfigMainnet = SlotConfig{
		ZeroTime:   1596059091000,
		ZeroSlot:   4492800,
		SlotLength: 1000,
	}
	SlotConfigPreprod = SlotConfig{
		ZeroTime:   1655769600000,
		ZeroSlot:   86400,
		SlotLength: 1000,
	}
	SlotConfigPreview = SlotConfig{
		ZeroTime:   1666656000000,
		ZeroSlot:   0,
		SlotLength: 1000,
	}
)
