package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test"

func sign(body []byte, ts int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d:%s", ts, body)
	return hex.EncodeToString(mac.Sum(nil))
}

func header(body []byte, ts int64, secret string) string {
	return "ts=" + strconv.FormatInt(ts, 10) + ";h1=" + sign(body, ts, secret)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event_type":"transaction.completed"}`)
	now := time.Now()
	ts := now.Unix()

	t.Run("Valid Signature", func(t *testing.T) {
		assert.True(t, VerifySignature(body, header(body, ts, testSecret), testSecret, 0, now))
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		assert.False(t, VerifySignature(body, header(body, ts, "other"), testSecret, 0, now))
	})

	t.Run("Tampered Body", func(t *testing.T) {
		assert.False(t, VerifySignature([]byte(`{"x":1}`), header(body, ts, testSecret), testSecret, 0, now))
	})

	t.Run("Multiple Candidates Key Rotation", func(t *testing.T) {
		h := "ts=" + strconv.FormatInt(ts, 10) +
			";h1=" + sign(body, ts, "retired-secret") +
			";h1=" + sign(body, ts, testSecret)
		assert.True(t, VerifySignature(body, h, testSecret, 0, now))
	})

	t.Run("Wrong Length Candidate", func(t *testing.T) {
		h := "ts=" + strconv.FormatInt(ts, 10) + ";h1=deadbeef"
		assert.False(t, VerifySignature(body, h, testSecret, 0, now))
	})

	t.Run("Non Hex Candidate", func(t *testing.T) {
		h := "ts=" + strconv.FormatInt(ts, 10) + ";h1=zzzz"
		assert.False(t, VerifySignature(body, h, testSecret, 0, now))
	})

	t.Run("Missing Timestamp", func(t *testing.T) {
		assert.False(t, VerifySignature(body, "h1="+sign(body, ts, testSecret), testSecret, 0, now))
	})

	t.Run("Missing Candidates", func(t *testing.T) {
		assert.False(t, VerifySignature(body, "ts="+strconv.FormatInt(ts, 10), testSecret, 0, now))
	})

	t.Run("Garbage Header Never Panics", func(t *testing.T) {
		for _, h := range []string{"", ";;;", "ts=", "ts=abc;h1=def", "=;=", "ts=1;h1="} {
			assert.NotPanics(t, func() {
				assert.False(t, VerifySignature(body, h, testSecret, 0, now))
			})
		}
	})

	t.Run("Stale Timestamp Rejected", func(t *testing.T) {
		old := ts - int64((10 * time.Minute).Seconds())
		assert.False(t, VerifySignature(body, header(body, old, testSecret), testSecret, 5*time.Minute, now))
	})

	t.Run("Future Timestamp Beyond Skew Rejected", func(t *testing.T) {
		future := ts + int64((10 * time.Minute).Seconds())
		assert.False(t, VerifySignature(body, header(body, future, testSecret), testSecret, 5*time.Minute, now))
	})

	t.Run("Timestamp Within Window Accepted", func(t *testing.T) {
		recent := ts - 60
		assert.True(t, VerifySignature(body, header(body, recent, testSecret), testSecret, 5*time.Minute, now))
	})
}
