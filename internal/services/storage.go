package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Signer resolves durable storage paths against the object store.
// Implemented by pkg/storage.
type Signer interface {
	PresignGet(ctx context.Context, path string, expiry time.Duration) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
}

const (
	signedURLTTL        = 15 * time.Minute
	signedURLMaxRetries = 2 // 3 attempts total
	signedURLBaseDelay  = 200 * time.Millisecond
	signedURLMaxDelay   = 2 * time.Second
)

// signMarker is the path segment a previously-issued signed URL carries
// between the API prefix and the durable object path.
const signMarker = "/sign/"

// URLSigner issues time-limited signed URLs for attachment storage paths,
// retrying transient storage failures with exponential backoff. A missing
// object is terminal and not retried.
type URLSigner struct {
	signer Signer
	ttl    time.Duration
}

// NewURLSigner creates a new URLSigner
func NewURLSigner(signer Signer) *URLSigner {
	return &URLSigner{signer: signer, ttl: signedURLTTL}
}

// SignedURL generates a fresh time-limited URL for path.
func (s *URLSigner) SignedURL(ctx context.Context, path string) (string, error) {
	var signed string
	operation := func() error {
		ok, err := s.signer.Exists(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			// The referenced file no longer exists; retrying cannot help.
			return backoff.Permanent(ErrNotFound)
		}
		signed, err = s.signer.PresignGet(ctx, path, s.ttl)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = signedURLBaseDelay
	b.Multiplier = 2
	b.MaxInterval = signedURLMaxDelay
	b.RandomizationFactor = 0

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, signedURLMaxRetries), ctx)); err != nil {
		return "", err
	}
	return signed, nil
}

// DurablePath normalizes an attachment locator. Locators written by older
// clients are previously-issued signed URLs; the durable object path is the
// URL-decoded remainder after the signature-marker segment, with the query
// string dropped. Locators that are already plain paths pass through.
func DurablePath(locator string) string {
	if !strings.Contains(locator, "://") {
		return locator
	}
	u, err := url.Parse(locator)
	if err != nil {
		return locator
	}
	idx := strings.Index(u.Path, signMarker)
	if idx < 0 {
		return strings.TrimPrefix(u.Path, "/")
	}
	path := u.Path[idx+len(signMarker):]
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	return path
}
