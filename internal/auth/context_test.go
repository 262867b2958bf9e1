package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionID_RoundTrip(t *testing.T) {
	id := uuid.New()
	req := SetSessionID(httptest.NewRequest("GET", "/", nil), id)

	got, err := GetSessionID(req.Context())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetSessionID_Missing(t *testing.T) {
	_, err := GetSessionID(context.Background())
	assert.Error(t, err)
}

func TestBearerCredential(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"Basic abc":          "",
		"Bearer sk-123":      "sk-123",
		"bearer   sk-456  ":  "sk-456",
		"Bearer":             "",
	}
	for header, want := range cases {
		req := httptest.NewRequest("POST", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerCredential(req), "header %q", header)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****wxyz", Mask("sk-abcdefwxyz"))
}
