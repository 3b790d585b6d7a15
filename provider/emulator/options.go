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
	"log/slog"

	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/rules"
)

// EmulatorOptionFunc is a function used to configure an Emulator
type EmulatorOptionFunc func(*Emulator)

// WithEngine specifies the rule engine used to validate and apply
// transactions
func WithEngine(engine rules.Engine) EmulatorOptionFunc {
	return func(e *Emulator) {
		e.engine = engine
	}
}

// WithLogger specifies the slog.Logger to use
func WithLogger(logger *slog.Logger) EmulatorOptionFunc {
	return func(e *Emulator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUtxos specifies the initial UTxO set
func WithUtxos(utxos ledger.UtxoMap) EmulatorOptionFunc {
	return func(e *Emulator) {
		state := rules.State{Utxos: utxos.Clone()}
		e.state.Store(&state)
	}
}

// WithNetwork specifies the network, setting both the network ID used for
// address checks and the slot configuration used for time conversion
func WithNetwork(network ledger.Network) EmulatorOptionFunc {
	return func(e *Emulator) {
		ctx := *e.ledCtx.Load()
		ctx.NetworkId = network.Id
		ctx.SlotConfig = network.SlotConfig
		e.ledCtx.Store(&ctx)
	}
}

// WithParams specifies the initial protocol parameters
func WithParams(params ledger.ProtocolParameters) EmulatorOptionFunc {
	return func(e *Emulator) {
		ctx := *e.ledCtx.Load()
		ctx.Params = params
		e.ledCtx.Store(&ctx)
	}
}

// WithSlot specifies the initial slot
func WithSlot(slot uint64) EmulatorOptionFunc {
	return func(e *Emulator) {
		ctx := *e.ledCtx.Load()
		ctx.Slot = slot
		e.ledCtx.Store(&ctx)
	}
}
