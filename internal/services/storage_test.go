package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLNotFoundIsTerminal(t *testing.T) {
	signer := &fakeSigner{missing: true}
	s := NewURLSigner(signer)

	_, err := s.SignedURL(context.Background(), "facilities/1/posts/x/file.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, signer.attempts, 1, "a missing object must not be retried")
}

func TestSignedURLRetriesTransientFailures(t *testing.T) {
	signer := &fakeSigner{failuresLeft: 2}
	s := NewURLSigner(signer)

	url, err := s.SignedURL(context.Background(), "facilities/1/posts/x/photo.png")
	require.NoError(t, err)
	assert.Contains(t, url, "facilities/1/posts/x/photo.png")
	require.Len(t, signer.attempts, 3)

	first := signer.attempts[1].Sub(signer.attempts[0])
	second := signer.attempts[2].Sub(signer.attempts[1])
	assert.Greater(t, second, first, "backoff delay must strictly increase")
}

func TestSignedURLGivesUpAfterMaxAttempts(t *testing.T) {
	signer := &fakeSigner{failuresLeft: 10}
	s := NewURLSigner(signer)

	_, err := s.SignedURL(context.Background(), "facilities/1/posts/x/clip.mp4")
	assert.Error(t, err)
	assert.Len(t, signer.attempts, 3)
}

func TestDurablePathExtraction(t *testing.T) {
	cases := []struct {
		name    string
		locator string
		want    string
	}{
		{
			name:    "plain path passes through",
			locator: "facilities/1/posts/abc/file.pdf",
			want:    "facilities/1/posts/abc/file.pdf",
		},
		{
			name:    "signed url with marker and query",
			locator: "https://storage.example/object/sign/facilities/1/posts/abc/file.pdf?token=expired",
			want:    "facilities/1/posts/abc/file.pdf",
		},
		{
			name:    "url-encoded segment is decoded",
			locator: "https://storage.example/object/sign/facilities/1/posts/abc/care%20plan.pdf?token=x",
			want:    "facilities/1/posts/abc/care plan.pdf",
		},
		{
			name:    "url without marker keeps its path",
			locator: "https://storage.example/facilities/1/posts/abc/file.pdf?token=x",
			want:    "facilities/1/posts/abc/file.pdf",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DurablePath(tc.locator))
		})
	}
}

func TestKindFromContentType(t *testing.T) {
	assert.Equal(t, "image", KindFromContentType("image/png", "a.png"))
	assert.Equal(t, "video", KindFromContentType("video/mp4", "a.mp4"))
	assert.Equal(t, "pdf", KindFromContentType("application/pdf", "report"))
	assert.Equal(t, "image", KindFromContentType("application/octet-stream", "photo.HEIC"))
	assert.Equal(t, "pdf", KindFromContentType("", "plan.pdf"))
	assert.Equal(t, "other", KindFromContentType("text/plain", "notes.txt"))
}
