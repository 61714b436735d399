package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"
)

// Signer handles Binance USDT-M API request signing.
// Binance signs the query string itself: timestamp and recvWindow are
// appended as parameters, the HMAC-SHA256 digest (hex) rides along as the
// "signature" parameter, and the API key goes in the X-MBX-APIKEY header.
type Signer struct {
	apiKey       string
	secretKey    string
	recvWindowMS int
}

// NewSigner creates a new Signer instance
func NewSigner(apiKey, secretKey string, recvWindowMS int) *Signer {
	if recvWindowMS <= 0 {
		recvWindowMS = 5000
	}
	return &Signer{
		apiKey:       apiKey,
		secretKey:    secretKey,
		recvWindowMS: recvWindowMS,
	}
}

// Sign appends timestamp, recvWindow, and signature to the given
// parameters and returns the encoded query string ready to send.
func (s *Signer) Sign(params url.Values) string {
	return s.signAt(params, time.Now().UnixMilli())
}

// signAt is split out so tests can pin the timestamp.
func (s *Signer) signAt(params url.Values, unixMilli int64) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("recvWindow", fmt.Sprintf("%d", s.recvWindowMS))
	params.Set("timestamp", fmt.Sprintf("%d", unixMilli))

	payload := params.Encode()
	return payload + "&signature=" + computeHmacSha256(payload, s.secretKey)
}

// APIKey returns the key for the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return s.apiKey
}

func computeHmacSha256(message string, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
