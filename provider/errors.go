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

package provider

import (
	"fmt"
	"strings"

	"github.com/blinklabs-io/chainquery/ledger"
)

// SubmitError classifies transaction submission failures into two
// categories: network/operational failures, which callers may retry, and
// node/ledger-validation failures, which indicate the transaction itself
// must change and are never retried automatically.
type SubmitError interface {
	error
	// Retryable reports whether the failure is network/operational rather
	// than a validation verdict
	Retryable() bool
}

// Network/operational errors

// ConnectionError indicates a transport-level failure reaching the provider
type ConnectionError struct {
	Cause error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Cause)
}

func (e ConnectionError) Unwrap() error {
	return e.Cause
}

func (ConnectionError) Retryable() bool { return true }

// AuthenticationError indicates rejected credentials
type AuthenticationError struct {
	Message string
}

func (e AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

func (AuthenticationError) Retryable() bool { return false }

// RateLimitedError indicates the provider's usage limit was hit
type RateLimitedError struct {
	Message string
}

func (e RateLimitedError) Error() string {
	return "rate limited: " + e.Message
}

func (RateLimitedError) Retryable() bool { return true }

// BannedError indicates the provider has banned the client for flooding
type BannedError struct{}

func (BannedError) Error() string {
	return "client has been banned for flooding"
}

func (BannedError) Retryable() bool { return false }

// MempoolFullError indicates the node's mempool is full
type MempoolFullError struct{}

func (MempoolFullError) Error() string {
	return "mempool is full"
}

func (MempoolFullError) Retryable() bool { return true }

// InternalServerError indicates a provider-side failure
type InternalServerError struct {
	Message string
}

func (e InternalServerError) Error() string {
	return "internal server error: " + e.Message
}

func (InternalServerError) Retryable() bool { return true }

// Node/ledger validation errors

// UtxoNotAvailableError indicates inputs that are spent, missing, or
// otherwise unavailable. The offending inputs are best-effort: when the
// error is reconstructed from provider text they may be incomplete.
type UtxoNotAvailableError struct {
	Inputs []ledger.TransactionInput
}

func (e UtxoNotAvailableError) Error() string {
	if len(e.Inputs) == 0 {
		return "UTxO not available"
	}
	tmpInputs := make([]string, len(e.Inputs))
	for idx, tmpInput := range e.Inputs {
		tmpInputs[idx] = tmpInput.String()
	}
	return "UTxO not available: " + strings.Join(tmpInputs, ", ")
}

func (UtxoNotAvailableError) Retryable() bool { return false }

// TransactionExpiredError indicates the transaction's validity interval does
// not contain the current slot
type TransactionExpiredError struct {
	Message string
}

func (e TransactionExpiredError) Error() string {
	if e.Message == "" {
		return "transaction expired"
	}
	return "transaction expired: " + e.Message
}

func (TransactionExpiredError) Retryable() bool { return false }

// ValueNotConservedError indicates consumed value does not equal produced
// value
type ValueNotConservedError struct {
	Consumed uint64
	Produced uint64
	Message  string
}

func (e ValueNotConservedError) Error() string {
	if e.Consumed != 0 || e.Produced != 0 {
		return fmt.Sprintf(
			"value not conserved: consumed %d, produced %d",
			e.Consumed,
			e.Produced,
		)
	}
	if e.Message == "" {
		return "value not conserved"
	}
	return "value not conserved: " + e.Message
}

func (ValueNotConservedError) Retryable() bool { return false }

// ScriptFailureError indicates a native or Plutus script rejected the
// transaction. Logs are present when the failing evaluator produced them.
type ScriptFailureError struct {
	Message string
	Logs    []string
}

func (e ScriptFailureError) Error() string {
	if e.Message == "" {
		return "script failure"
	}
	return "script failure: " + e.Message
}

func (ScriptFailureError) Retryable() bool { return false }

// ValidationError is a ledger validation failure that couldn't be classified
// more specifically. Code carries an extracted error code token when one was
// found in the provider's response.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Message)
	}
	return "validation failed: " + e.Message
}

func (ValidationError) Retryable() bool { return false }
