package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/enuda-labs/summit-BE/internal/core/port"
)

var (
	// ErrInvalidSignature indicates the payload does not verify against
	// the webhook secret (or the timestamp is outside tolerance).
	ErrInvalidSignature = errors.New("stripe: webhook signature verification failed")
	// ErrMalformedPayload indicates a verified payload that cannot be parsed.
	ErrMalformedPayload = errors.New("stripe: malformed webhook payload")
)

const signatureVersion = "v1"

// signatureHeader is the parsed form of a Stripe-Signature header value:
// "t=<unix>,v1=<hex hmac>[,v1=<hex hmac>...]".
type signatureHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

func parseSignatureHeader(header string) (*signatureHeader, error) {
	parsed := &signatureHeader{}

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, ErrInvalidSignature
		}

		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, ErrInvalidSignature
			}
			parsed.timestamp = time.Unix(ts, 0)
		case signatureVersion:
			sig, err := hex.DecodeString(parts[1])
			if err != nil {
				continue // ignore unparseable signatures, Stripe may send several
			}
			parsed.signatures = append(parsed.signatures, sig)
		}
	}

	if parsed.timestamp.IsZero() || len(parsed.signatures) == 0 {
		return nil, ErrInvalidSignature
	}

	return parsed, nil
}

func computeSignature(timestamp time.Time, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// verifyAndParse checks the signed-payload HMAC before any JSON parsing:
// signature verification is the trust boundary, and untrusted bytes are
// never decoded.
func verifyAndParse(payload []byte, header, secret string, tolerance time.Duration, now time.Time) (*port.WebhookEvent, error) {
	parsed, err := parseSignatureHeader(header)
	if err != nil {
		return nil, err
	}

	expected := computeSignature(parsed.timestamp, payload, secret)
	matched := false
	for _, sig := range parsed.signatures {
		if hmac.Equal(sig, expected) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	if tolerance > 0 {
		age := now.Sub(parsed.timestamp)
		if age > tolerance || age < -tolerance {
			return nil, ErrInvalidSignature
		}
	}

	var event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.Type == "" {
		return nil, ErrMalformedPayload
	}

	return &port.WebhookEvent{
		ID:   event.ID,
		Type: event.Type,
		Data: event.Data.Object,
	}, nil
}

// SignPayload renders a Stripe-Signature header for the payload. Test
// doubles and fixtures use it to produce verifiable webhook deliveries.
func SignPayload(payload []byte, secret string, at time.Time) string {
	sig := computeSignature(at, payload, secret)
	return fmt.Sprintf("t=%d,%s=%s", at.Unix(), signatureVersion, hex.EncodeToString(sig))
}
