package shared

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureTokenIsStablePerSession(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")
	sess := &Session{ID: "sess-1"}

	first, err := manager.EnsureToken(t.Context(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := manager.EnsureToken(t.Context(), sess)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTokenFromRequestHeaderWinsOverForm(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")

	form := url.Values{CSRFFormField: {"form-token"}}
	req := httptest.NewRequest("POST", "/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CSRFHeader, "header-token")

	require.Equal(t, "header-token", manager.TokenFromRequest(req))

	req = httptest.NewRequest("POST", "/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, "form-token", manager.TokenFromRequest(req))
}

func TestVerifyToken(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")
	sess := &Session{ID: "sess-1"}

	token, err := manager.EnsureToken(t.Context(), sess)
	require.NoError(t, err)

	require.NoError(t, manager.VerifyToken(t.Context(), sess, token))
	require.ErrorIs(t, manager.VerifyToken(t.Context(), sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, manager.VerifyToken(t.Context(), sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, manager.VerifyToken(t.Context(), &Session{ID: "sess-2"}, token), ErrCSRFTokenMissing)
}
