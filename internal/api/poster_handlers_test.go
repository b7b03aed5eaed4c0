package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault-server/internal/http/response"
	"github.com/cinevault/cinevault-server/internal/service"
)

func uploadRequest(t *testing.T, path, bearer, field string, content []byte) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, field, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func getRequest(path, bearer string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func TestPoster_UploadThenFetch(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")
	png := []byte("\x89PNG\r\n\x1a\nfake image")

	w := ts.do(uploadRequest(t, "/posters/add/tt0133093", bearer, "poster", png))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"error":false,"message":"Poster Uploaded Successfully"}`, w.Body.String())

	w = ts.do(getRequest("/posters/tt0133093", bearer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestPoster_Overwrite(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")

	require.Equal(t, http.StatusOK, ts.do(uploadRequest(t, "/posters/add/tt0133093", bearer, "poster", []byte("one"))).Code)
	require.Equal(t, http.StatusOK, ts.do(uploadRequest(t, "/posters/add/tt0133093", bearer, "poster", []byte("two"))).Code)

	w := ts.do(getRequest("/posters/tt0133093", bearer))
	assert.Equal(t, "two", w.Body.String())
}

func TestPoster_IsolatedPerUser(t *testing.T) {
	ts := setupTestServer(t, Options{PosterMissingStatus: http.StatusNotFound})
	neo := ts.login(t, "neo@example.com")
	trinity := ts.login(t, "trinity@example.com")

	require.Equal(t, http.StatusOK, ts.do(uploadRequest(t, "/posters/add/tt0133093", neo, "poster", []byte("neo"))).Code)

	w := ts.do(getRequest("/posters/tt0133093", trinity))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPoster_RequiresToken(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name   string
		bearer string
		want   string
	}{
		{"missing header", "", service.MsgTokenMissing},
		{"wrong scheme", "Basic dXNlcjpwYXNz", service.MsgTokenMissing},
		{"garbage token", "Bearer not-a-token", service.MsgTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(getRequest("/posters/tt0133093", tt.bearer))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, response.ErrorBody{Error: true, Message: tt.want}, decodeErrorBody(t, w.Body.Bytes()))

			w = ts.do(uploadRequest(t, "/posters/add/tt0133093", tt.bearer, "poster", []byte("x")))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestPoster_MissingDefaultsTo500(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")

	w := ts.do(getRequest("/posters/tt0133093", bearer))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeErrorBody(t, w.Body.Bytes())
	assert.True(t, body.Error)
	assert.Equal(t, service.MsgPosterNotFound, body.Message)
}

func TestPoster_MissingInProduction(t *testing.T) {
	ts := setupTestServer(t, Options{Production: true})
	bearer := ts.login(t, "neo@example.com")

	w := ts.do(getRequest("/posters/tt0133093", bearer))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.ErrorBody{Error: true, Message: response.MsgInternal}, decodeErrorBody(t, w.Body.Bytes()))
}

func TestPoster_QueryParamsRejected(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")

	w := ts.do(getRequest("/posters/tt0133093?size=large", bearer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgQueryNotPermitted, decodeErrorBody(t, w.Body.Bytes()).Message)

	w = ts.do(uploadRequest(t, "/posters/add/tt0133093?size=large", bearer, "poster", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgQueryNotPermitted, decodeErrorBody(t, w.Body.Bytes()).Message)
}

func TestPoster_TooLarge(t *testing.T) {
	ts := setupTestServer(t, Options{PosterMissingStatus: http.StatusNotFound})
	bearer := ts.login(t, "neo@example.com")

	// The test server accepts posters up to 1024 bytes.
	w := ts.do(uploadRequest(t, "/posters/add/tt0133093", bearer, "poster", bytes.Repeat([]byte("x"), 1025)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.True(t, decodeErrorBody(t, w.Body.Bytes()).Error)

	w = ts.do(getRequest("/posters/tt0133093", bearer))
	assert.Equal(t, http.StatusNotFound, w.Code, "rejected upload must not be stored")
}

func TestPoster_MissingField(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")

	w := ts.do(uploadRequest(t, "/posters/add/tt0133093", bearer, "image", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgPosterRequired, decodeErrorBody(t, w.Body.Bytes()).Message)

	req := httptest.NewRequest(http.MethodPost, "/posters/add/tt0133093", strings.NewReader("raw"))
	req.Header.Set("Authorization", bearer)
	w = ts.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgPosterRequired, decodeErrorBody(t, w.Body.Bytes()).Message)
}

func TestPoster_InvalidIMDbID(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "neo@example.com")

	w := ts.do(uploadRequest(t, "/posters/add/tt1_evil", bearer, "poster", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgInvalidIMDbID, decodeErrorBody(t, w.Body.Bytes()).Message)
}
