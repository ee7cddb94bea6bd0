// Package payments holds the provider-facing pieces of the payment flow: the
// webhook signature verifier, event payload parsing, and the transactions API
// client used by reconciliation.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxSignatureAge bounds how old a webhook timestamp may be before the
// event is treated as a replay.
const DefaultMaxSignatureAge = 5 * time.Minute

// VerifySignature authenticates a webhook delivery. The header has the form
// "ts=<unixSeconds>;h1=<hex>" with possibly several h1 values during key
// rotation. The signed payload is "<ts>:<rawBody>", HMAC-SHA256 under secret.
// It returns false on any malformed input and never panics; the raw body must
// be the exact request bytes, not a re-serialization.
func VerifySignature(rawBody []byte, header, secret string, maxAge time.Duration, now time.Time) bool {
	ts, candidates := parseSignatureHeader(header)
	if ts == "" || len(candidates) == 0 {
		return false
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxSignatureAge
	}
	if age := now.Sub(time.Unix(unix, 0)); age > maxAge || age < -maxAge {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		sig, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		// Length check first, then constant-time compare over the full value.
		if len(sig) != len(expected) {
			continue
		}
		if subtle.ConstantTimeCompare(sig, expected) == 1 {
			return true
		}
	}
	return false
}

func parseSignatureHeader(header string) (ts string, candidates []string) {
	for _, part := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "h1":
			if value != "" {
				candidates = append(candidates, value)
			}
		}
	}
	return ts, candidates
}
