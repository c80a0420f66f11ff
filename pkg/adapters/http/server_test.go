package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpAdapter "github.com/aretw0/picket/pkg/adapters/http"
	"github.com/aretw0/picket/pkg/adapters/memory"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/aretw0/picket/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() http.Handler {
	enc := encoder.New(session.NewManager(memory.NewStore()))
	return httpAdapter.NewHandler(enc)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func encodeBody() httpAdapter.EncodeBody {
	return httpAdapter.EncodeBody{
		ID: "rating",
		Options: []domain.Option{
			{Content: "1", SelectedContent: "one"},
			{Content: "2", SelectedContent: "two"},
		},
		Default:   []uint32{1},
		ClickMode: domain.SingleSelect,
	}
}

func TestEncodeWidget(t *testing.T) {
	handler := newHandler()

	w := postJSON(t, handler, "/sessions/s1/widgets", encodeBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpAdapter.EncodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rating", resp.Descriptor.ID)
	assert.Equal(t, []uint32{1}, resp.Value)
	assert.False(t, resp.Descriptor.SetValue)
}

func TestEncodeWidget_ConfigurationError(t *testing.T) {
	handler := newHandler()

	body := encodeBody()
	body.Default = []uint32{9}

	w := postJSON(t, handler, "/sessions/s1/widgets", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitUpdate_RoundTrip(t *testing.T) {
	handler := newHandler()

	w := postJSON(t, handler, "/sessions/s1/widgets", encodeBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, handler, "/sessions/s1/updates", domain.ValueUpdate{
		ID:    "rating",
		Value: []uint32{0},
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	// The next encode resolves the committed value.
	w = postJSON(t, handler, "/sessions/s1/widgets", encodeBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpAdapter.EncodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint32{0}, resp.Value)
}

func TestSubmitUpdate_UnknownWidget(t *testing.T) {
	handler := newHandler()

	w := postJSON(t, handler, "/sessions/s1/updates", domain.ValueUpdate{
		ID:    "ghost",
		Value: []uint32{0},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitUpdate_OutOfRange(t *testing.T) {
	handler := newHandler()

	w := postJSON(t, handler, "/sessions/s1/widgets", encodeBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, handler, "/sessions/s1/updates", domain.ValueUpdate{
		ID:    "rating",
		Value: []uint32{5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetValues(t *testing.T) {
	handler := newHandler()

	postJSON(t, handler, "/sessions/s1/widgets", encodeBody())
	postJSON(t, handler, "/sessions/s1/updates", domain.ValueUpdate{
		ID:    "rating",
		Value: []uint32{0},
	})

	req := httptest.NewRequest("GET", "/sessions/s1/values", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var values map[string][]uint32
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &values))
	assert.Equal(t, []uint32{0}, values["rating"])
}

func TestGetValue_PerWidget(t *testing.T) {
	handler := newHandler()

	postJSON(t, handler, "/sessions/s1/widgets", encodeBody())

	req := httptest.NewRequest("GET", "/sessions/s1/values/rating", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "no committed value before an update")

	postJSON(t, handler, "/sessions/s1/updates", domain.ValueUpdate{
		ID:    "rating",
		Value: []uint32{0},
	})

	req = httptest.NewRequest("GET", "/sessions/s1/values/rating", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var value domain.ValueUpdate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &value))
	assert.Equal(t, []uint32{0}, value.Value)
}

func TestEndSession(t *testing.T) {
	handler := newHandler()

	postJSON(t, handler, "/sessions/s1/widgets", encodeBody())

	req := httptest.NewRequest("DELETE", "/sessions/s1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", "/sessions/s1/values", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	handler := newHandler()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
