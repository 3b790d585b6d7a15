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
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/blinklabs-io/chainquery/ledger"
)

// Input references in node error text, either as "txid#index" or as the
// haskell-node constructor form "TxIn (TxId ... "txid" ...) (TxIx index)"
var (
	inputRefRegexp = regexp.MustCompile(
		`\b([0-9a-fA-F]{64})\s*#\s*(\d+)`,
	)
	inputRefTxInRegexp = regexp.MustCompile(
		`TxId[^"]*"([0-9a-fA-F]{64})".*?TxIx\s*=?\s*(\d+)`,
	)
	errorCodeRegexp = regexp.MustCompile(
		`\b([A-Z][A-Za-z]*(?:UTxO|Utxo|Error|Failure))\b`,
	)
)

// ClassifySubmitFailure maps an HTTP status code plus the provider's error
// text to a SubmitError. The status code drives the coarse bucket; for
// unrecognized 4xx responses the text is matched (case-insensitive) against
// known ledger-rule vocabulary. Text-based classification is best-effort and
// may misclassify on provider-specific wording; treat it as a convenience
// layer, not a guarantee.
func ClassifySubmitFailure(statusCode int, message string) SubmitError {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return RateLimitedError{Message: message}
	case http.StatusForbidden:
		return AuthenticationError{Message: message}
	case http.StatusTeapot:
		return BannedError{}
	case http.StatusTooEarly:
		return MempoolFullError{}
	}
	if statusCode >= http.StatusInternalServerError {
		return InternalServerError{Message: message}
	}
	return classifyValidationFailure(message)
}

func classifyValidationFailure(message string) SubmitError {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "badinputs") ||
		strings.Contains(lower, "bad input"):
		return UtxoNotAvailableError{
			Inputs: ExtractInputRefs(message),
		}
	case strings.Contains(lower, "outsidevalidityinterval") ||
		strings.Contains(lower, "validity interval") ||
		strings.Contains(lower, "expired"):
		return TransactionExpiredError{Message: message}
	case strings.Contains(lower, "valuenotconserved") ||
		strings.Contains(lower, "value not conserved"):
		return ValueNotConservedError{Message: message}
	case strings.Contains(lower, "script") &&
		(strings.Contains(lower, "fail") || strings.Contains(lower, "error")):
		return ScriptFailureError{Message: message}
	}
	return ValidationError{
		Code:    extractErrorCode(message),
		Message: message,
	}
}

// ExtractInputRefs recovers input references from unstructured node error
// text. Extraction is best-effort: unparseable references are skipped.
func ExtractInputRefs(message string) []ledger.TransactionInput {
	var ret []ledger.TransactionInput
	for _, re := range []*regexp.Regexp{inputRefRegexp, inputRefTxInRegexp} {
		for _, match := range re.FindAllStringSubmatch(message, -1) {
			txId, err := ledger.NewBlake2b256FromHex(
				strings.ToLower(match[1]),
			)
			if err != nil {
				continue
			}
			idx, err := strconv.ParseUint(match[2], 10, 32)
			if err != nil || idx > math.MaxUint32 {
				continue
			}
			ref := ledger.TransactionInput{
				TxId:        txId,
				OutputIndex: uint32(idx),
			}
			var seen bool
			for _, existing := range ret {
				if existing == ref {
					seen = true
					break
				}
			}
			if !seen {
				ret = append(ret, ref)
			}
		}
	}
	return ret
}

func extractErrorCode(message string) string {
	match := errorCodeRegexp.FindStringSubmatch(message)
	if match == nil {
		return ""
	}
	return match[1]
}
