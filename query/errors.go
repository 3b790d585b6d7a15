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

package query

import "fmt"

// NotFoundError indicates an explicit lookup that failed to resolve. An
// address source with no UTxOs is an empty success, never a NotFoundError;
// this error is reserved for by-input-reference lookups that fail to resolve
// and asset/transaction sources with no matches.
type NotFoundError struct {
	Source UtxoSource
}

func (e NotFoundError) Error() string {
	return "no UTxOs found for " + e.Source.String()
}

// NotSupportedError indicates a source that the evaluating backend cannot
// fetch (e.g. a global asset search against a remote provider)
type NotSupportedError struct {
	Source UtxoSource
	Reason string
}

func (e NotSupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf(
			"source %s not supported: %s",
			e.Source.String(),
			e.Reason,
		)
	}
	return "source " + e.Source.String() + " not supported"
}

// NetworkError indicates a transport-level failure or an unexpected provider
// response
type NetworkError struct {
	Message string
	Cause   error
}

func (e NetworkError) Error() string {
	return "network error: " + e.Message
}

func (e NetworkError) Unwrap() error {
	return e.Cause
}

// RateLimitedError indicates the provider rejected the request due to rate
// limiting
type RateLimitedError struct {
	Message string
}

func (e RateLimitedError) Error() string {
	return "rate limited: " + e.Message
}

// AuthenticationError indicates the provider rejected the request credentials
type AuthenticationError struct {
	Message string
}

func (e AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}
