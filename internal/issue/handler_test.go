package issue

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/authn"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue/entity"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/token"
)

func newTestMux(t *testing.T) (*http.ServeMux, string, *memStore) {
	t.Helper()
	tokens, err := token.NewService(token.Config{
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "tracker",
		Audience:   "tracker-clients",
		TTL:        time.Hour,
	})
	require.NoError(t, err)
	tok, err := tokens.Issue("u-1", "a@x.com", "Ann", time.Now().UTC())
	require.NoError(t, err)

	svc, store := newTestService()
	logger := zap.NewNop().Sugar()
	h := NewHandler(svc, logger)
	protect := authn.Middleware(tokens, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/issues/health", h.Health)
	mux.Handle("POST /api/issues", protect(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/issues/by-project/{projectId}", protect(http.HandlerFunc(h.ByProject)))
	mux.Handle("PATCH /api/issues/{id}/status/{status}", protect(http.HandlerFunc(h.ChangeStatus)))
	return mux, tok, store
}

func request(mux http.Handler, method, path, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	mux, _, _ := newTestMux(t)
	rec := request(mux, http.MethodGet, "/api/issues/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"controller":"Issues"}`, rec.Body.String())
}

func TestHandler_CreateAndBoard(t *testing.T) {
	mux, tok, _ := newTestMux(t)

	rec := request(mux, http.MethodPost, "/api/issues",
		`{"title":"Fix login","status":"InProgress","priority":"High","projectId":"p-1","dueDate":"2026-11-01T00:00:00Z"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created entity.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "u-1", created.ReporterID)
	assert.Equal(t, entity.PriorityHigh, created.Priority)

	rec = request(mux, http.MethodGet, "/api/issues/by-project/p-1", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var board map[string][]entity.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Len(t, board, 3)
	require.Len(t, board["InProgress"], 1)
	assert.Equal(t, created.ID, board["InProgress"][0].ID)
	assert.Empty(t, board["ToDo"])
	assert.Empty(t, board["Done"])
}

func TestHandler_CreateErrors(t *testing.T) {
	mux, tok, _ := newTestMux(t)
	cases := []struct {
		name, body string
		code       int
		msg        string
	}{
		{"bad status", `{"title":"t","status":"Blocked","projectId":"p-1"}`, http.StatusBadRequest, "Status must be ToDo, InProgress, or Done"},
		{"bad priority", `{"title":"t","priority":"Urgent","projectId":"p-1"}`, http.StatusBadRequest, "Priority must be Low, Medium, or High"},
		{"missing title", `{"projectId":"p-1"}`, http.StatusBadRequest, "title is required"},
		{"unknown project", `{"title":"t","projectId":"ghost"}`, http.StatusNotFound, "Project not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := request(mux, http.MethodPost, "/api/issues", tc.body, tok)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
		})
	}
}

func TestHandler_ChangeStatus(t *testing.T) {
	mux, tok, store := newTestMux(t)
	rec := request(mux, http.MethodPost, "/api/issues", `{"title":"t","projectId":"p-1"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var id string
	for k := range store.rows {
		id = k
	}

	rec = request(mux, http.MethodPatch, "/api/issues/"+id+"/status/Done", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Done"`)

	rec = request(mux, http.MethodPatch, "/api/issues/"+id+"/status/Nope", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid status value"}`, rec.Body.String())

	rec = request(mux, http.MethodPatch, "/api/issues/missing/status/Done", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ProtectedRoutesNeedToken(t *testing.T) {
	mux, _, _ := newTestMux(t)
	assert.Equal(t, http.StatusUnauthorized, request(mux, http.MethodPost, "/api/issues", `{}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(mux, http.MethodGet, "/api/issues/by-project/p-1", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(mux, http.MethodPatch, "/api/issues/x/status/Done", "", "").Code)
}
