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
	"log/slog"
	"net/http"

	"github.com/blinklabs-io/chainquery/ledger"
)

// BlockfrostOptionFunc is a function used to configure a Blockfrost provider
type BlockfrostOptionFunc func(*Blockfrost)

// WithProjectId specifies the Blockfrost project ID sent as the project_id
// header
func WithProjectId(projectId string) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		b.projectId = projectId
	}
}

// WithNetwork specifies the network, selecting the matching Blockfrost
// endpoint unless the base URL is overridden
func WithNetwork(network ledger.Network) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		b.network = network
	}
}

// WithBaseUrl overrides the API base URL, e.g. for a self-hosted instance
func WithBaseUrl(baseUrl string) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		b.baseUrl = baseUrl
	}
}

// WithLogger specifies the slog.Logger to use
func WithLogger(logger *slog.Logger) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMaxConcurrency bounds the number of in-flight API requests
func WithMaxConcurrency(maxConcurrency int) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		b.maxConcurrency = maxConcurrency
	}
}

// WithHttpClient specifies the http.Client used for API requests
func WithHttpClient(httpClient *http.Client) BlockfrostOptionFunc {
	return func(b *Blockfrost) {
		b.httpClient = httpClient
	}
}
