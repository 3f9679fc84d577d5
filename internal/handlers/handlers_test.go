package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/chat"
	"github.com/genmesh/meshstore/internal/keyval"
	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/store"
)

type testEnv struct {
	store *store.Store
	auth  *auth.Service
	chat  *chat.Service
	kv    *keyval.File
	echo  *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	kv, err := keyval.Open(filepath.Join(dir, "local-slots.json"))
	require.NoError(t, err)

	logger := logging.New("error")
	st, err := store.Open(kv, dir, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &testEnv{
		store: st,
		auth:  auth.NewService(st, kv, []byte("test-session-secret"), logger),
		chat:  chat.NewService(kv, logger),
		kv:    kv,
		echo:  echo.New(),
	}
}

func (env *testEnv) request(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
