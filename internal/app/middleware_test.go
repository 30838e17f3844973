package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/shared"
)

func testStack(t *testing.T) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "inkwell_session", "session-secret", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	stack := MiddlewareStack(MiddlewareConfig{
		Logger:         logger,
		SessionManager: sessions,
		CSRFManager:    shared.NewCSRFManager("csrf-secret"),
	})
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}
	return handler
}

func TestSafeMethodIssuesCSRFToken(t *testing.T) {
	handler := testStack(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, rr.Header().Get(shared.CSRFHeader))
	require.NotEmpty(t, rr.Result().Cookies())
}

func TestMutationRequiresCSRFToken(t *testing.T) {
	handler := testStack(t)

	// Bootstrap a session and token with a safe request.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))
	token := rr.Header().Get(shared.CSRFHeader)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, token)
	require.NotEmpty(t, cookies)

	post := httptest.NewRequest(http.MethodPost, "/posts", nil)
	for _, c := range cookies {
		post.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, post)
	require.Equal(t, http.StatusForbidden, rr.Code)

	post = httptest.NewRequest(http.MethodPost, "/posts", nil)
	for _, c := range cookies {
		post.AddCookie(c)
	}
	post.Header.Set(shared.CSRFHeader, token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, post)
	require.Equal(t, http.StatusOK, rr.Code)
}
