// Package integrity signs verdicts so a client can hand them back later
// without the service re-computing them.
//
// A Signer holds a random key generated when it is constructed. The key is
// never persisted: signatures issued before a restart no longer verify.
package integrity

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/platform/logger"
	dErrors "sotadiploma/pkg/domain-errors"
)

const keySize = 32

// SignedVerdict travels with its verdict through the client.
type SignedVerdict struct {
	Verdict   eligibility.Verdict `json:"candidate"`
	Signature string              `json:"signature"`
}

// Signer computes and checks HMAC-SHA256 signatures over canonical verdicts.
type Signer struct {
	key    []byte
	logger *slog.Logger
}

// Option configures a Signer.
type Option func(*Signer)

func WithLogger(l *slog.Logger) Option {
	return func(s *Signer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKey replaces the random key. Tests use it to get stable signatures.
func WithKey(key []byte) Option {
	return func(s *Signer) {
		if len(key) > 0 {
			s.key = append([]byte(nil), key...)
		}
	}
}

// NewSigner creates a signer with a fresh random key.
func NewSigner(opts ...Option) (*Signer, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	s := &Signer{key: key, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign wraps v with its signature. If v has no canonical form the signature
// is empty, and Verify rejects it.
func (s *Signer) Sign(v eligibility.Verdict) SignedVerdict {
	return SignedVerdict{Verdict: v, Signature: s.signature(v)}
}

// SignAll signs each verdict in order.
func (s *Signer) SignAll(verdicts []eligibility.Verdict) []SignedVerdict {
	out := make([]SignedVerdict, 0, len(verdicts))
	for _, v := range verdicts {
		out = append(out, s.Sign(v))
	}
	return out
}

// Verify recomputes the signature of sv.Verdict and compares it in constant
// time. Any mismatch is a CodeIntegrity error.
func (s *Signer) Verify(sv SignedVerdict) error {
	if sv.Signature == "" {
		return dErrors.New(dErrors.CodeIntegrity, "candidate is not signed")
	}
	expected := s.signature(sv.Verdict)
	if expected == "" || !hmac.Equal([]byte(expected), []byte(sv.Signature)) {
		return dErrors.New(dErrors.CodeIntegrity, "integrity of signed candidate cannot be verified")
	}
	return nil
}

func (s *Signer) signature(v eligibility.Verdict) string {
	canonical, err := Canonicalize(v)
	if err != nil {
		s.logger.Warn("could not canonicalize verdict", "error", err)
		return ""
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(canonical)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
