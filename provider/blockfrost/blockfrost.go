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

// Package blockfrost implements the provider interface against the
// Blockfrost HTTP API. All requests pass through a concurrency limiter so a
// burst of parallel queries never exceeds the account's allowed concurrency.
package blockfrost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blinklabs-io/chainquery/ledger"
	"github.com/blinklabs-io/chainquery/limiter"
	"github.com/blinklabs-io/chainquery/provider"
	"github.com/blinklabs-io/chainquery/query"
	"github.com/go-resty/resty/v2"
)

const (
	mainnetBaseUrl = "https://cardano-mainnet.blockfrost.io/api/v0"
	preprodBaseUrl = "https://cardano-preprod.blockfrost.io/api/v0"
	previewBaseUrl = "https://cardano-preview.blockfrost.io/api/v0"

	// Blockfrost's maximum page size for list endpoints
	pageSize = 100

	defaultMaxConcurrency = 10
)

// Blockfrost talks to the Blockfrost API for a single network
type Blockfrost struct {
	client         *resty.Client
	logger         *slog.Logger
	limiter        *limiter.Limiter
	network        ledger.Network
	projectId      string
	baseUrl        string
	maxConcurrency int
	httpClient     *http.Client
}

// New creates a Blockfrost provider. A project ID is required unless the
// base URL is overridden to point at a local instance.
func New(opts ...BlockfrostOptionFunc) (*Blockfrost, error) {
	b := &Blockfrost{
		logger:         slog.New(slog.DiscardHandler),
		network:        ledger.NetworkMainnet,
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.baseUrl == "" {
		baseUrl, err := networkBaseUrl(b.network)
		if err != nil {
			return nil, err
		}
		b.baseUrl = baseUrl
	}
	tmpLimiter, err := limiter.New(b.maxConcurrency)
	if err != nil {
		return nil, err
	}
	b.limiter = tmpLimiter
	if b.httpClient != nil {
		b.client = resty.NewWithClient(b.httpClient)
	} else {
		b.client = resty.New()
	}
	b.client.SetBaseURL(b.baseUrl)
	if b.projectId != "" {
		b.client.SetHeader("project_id", b.projectId)
	}
	return b, nil
}

func networkBaseUrl(network ledger.Network) (string, error) {
	switch network.Name {
	case ledger.NetworkMainnet.Name:
		return mainnetBaseUrl, nil
	case ledger.NetworkPreprod.Name:
		return preprodBaseUrl, nil
	case ledger.NetworkPreview.Name:
		return previewBaseUrl, nil
	}
	return "", fmt.Errorf("no Blockfrost endpoint for network: %s", network.Name)
}

// get performs a GET through the concurrency limiter. Transport failures are
// wrapped as query.NetworkError; HTTP status handling is left to the caller.
func (b *Blockfrost) get(
	ctx context.Context,
	path string,
	queryParams map[string]string,
	out any,
) (*resty.Response, error) {
	future := limiter.Submit(b.limiter, func() (*resty.Response, error) {
		req := b.client.R().SetContext(ctx)
		if queryParams != nil {
			req.SetQueryParams(queryParams)
		}
		if out != nil {
			req.SetResult(out)
		}
		return req.Get(path)
	})
	resp, err := future.Wait(ctx)
	if err != nil {
		return nil, query.NetworkError{
			Message: "request failed: " + path,
			Cause:   err,
		}
	}
	b.logger.Debug(
		"blockfrost request",
		"path", path,
		"status", resp.StatusCode(),
	)
	return resp, nil
}

// classifyQueryResponse maps an unexpected HTTP status on a query endpoint to
// the query error taxonomy
func classifyQueryResponse(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return query.RateLimitedError{Message: resp.String()}
	case http.StatusForbidden:
		return query.AuthenticationError{Message: resp.String()}
	}
	return query.NetworkError{
		Message: fmt.Sprintf(
			"unexpected status %d: %s",
			resp.StatusCode(),
			resp.String(),
		),
	}
}

// SubmitTx encodes and submits a transaction
func (b *Blockfrost) SubmitTx(
	ctx context.Context,
	tx *ledger.Transaction,
) (ledger.Blake2b256, error) {
	txCbor, err := tx.Cbor()
	if err != nil {
		return ledger.Blake2b256{}, provider.ValidationError{
			Message: err.Error(),
		}
	}
	return b.SubmitTxBytes(ctx, txCbor)
}

// SubmitTxBytes submits a CBOR-encoded transaction. Failures are classified
// into the SubmitError taxonomy from the HTTP status and response text.
func (b *Blockfrost) SubmitTxBytes(
	ctx context.Context,
	txCbor []byte,
) (ledger.Blake2b256, error) {
	future := limiter.Submit(b.limiter, func() (*resty.Response, error) {
		return b.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/cbor").
			SetBody(txCbor).
			Post("/tx/submit")
	})
	resp, err := future.Wait(ctx)
	if err != nil {
		return ledger.Blake2b256{}, provider.ConnectionError{Cause: err}
	}
	if !resp.IsSuccess() {
		return ledger.Blake2b256{}, provider.ClassifySubmitFailure(
			resp.StatusCode(),
			submitFailureMessage(resp.Body()),
		)
	}
	// The response body is the JSON-quoted tx hash
	var txHashHex string
	if err := json.Unmarshal(resp.Body(), &txHashHex); err != nil {
		return ledger.Blake2b256{}, provider.ConnectionError{Cause: err}
	}
	txHash, err := ledger.NewBlake2b256FromHex(txHashHex)
	if err != nil {
		return ledger.Blake2b256{}, provider.ConnectionError{Cause: err}
	}
	b.logger.Debug("transaction submitted", "tx_hash", txHash.String())
	return txHash, nil
}

// submitFailureMessage extracts the message from a Blockfrost error body,
// falling back to the raw body when it isn't the expected JSON shape
func submitFailureMessage(body []byte) string {
	var apiErr struct {
		StatusCode int    `json:"status_code"`
		Error      string `json:"error"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil &&
		apiErr.Message != "" {
		return apiErr.Message
	}
	return string(body)
}

// LatestParams fetches the protocol parameters of the latest epoch
func (b *Blockfrost) LatestParams(
	ctx context.Context,
) (ledger.ProtocolParameters, error) {
	var apiParams apiProtocolParams
	resp, err := b.get(ctx, "/epochs/latest/parameters", nil, &apiParams)
	if err != nil {
		return ledger.ProtocolParameters{}, err
	}
	if !resp.IsSuccess() {
		return ledger.ProtocolParameters{}, classifyQueryResponse(resp)
	}
	return apiParams.convert()
}

// CurrentSlot returns the absolute slot of the latest block
func (b *Blockfrost) CurrentSlot(ctx context.Context) (uint64, error) {
	var apiBlock struct {
		Slot uint64 `json:"slot"`
	}
	resp, err := b.get(ctx, "/blocks/latest", nil, &apiBlock)
	if err != nil {
		return 0, err
	}
	if !resp.IsSuccess() {
		return 0, classifyQueryResponse(resp)
	}
	return apiBlock.Slot, nil
}
