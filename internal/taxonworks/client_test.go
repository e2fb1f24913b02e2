// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonworks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/matrix-export/pkg/types"
)

const (
	testToken        = "user-secret"
	testProjectToken = "project-secret"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.Client(), types.APIConfig{
		HTTPConfig:  types.HTTPConfig{UserAgent: "matrix-export/test"},
		BaseURL:     ts.URL + "/api/v1/",
		Credentials: types.Credentials{Token: testToken, ProjectToken: testProjectToken},
	})
}

func jsonServer(t *testing.T, status int, body string, seen *[]*http.Request) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = append(*seen, r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetch_AppendsCredentials(t *testing.T) {
	var seen []*http.Request
	ts := jsonServer(t, http.StatusOK, `{"id": 7}`, &seen)
	c := newTestClient(ts)

	body, err := c.Fetch(context.Background(), "/otus/7", url.Values{"extend[]": {"a", "b"}})
	require.NoError(t, err)

	doc, ok := body.(types.Document)
	require.True(t, ok)
	assert.Equal(t, json.Number("7"), doc["id"])

	require.Len(t, seen, 1)
	r := seen[0]
	assert.Equal(t, "/api/v1/otus/7", r.URL.Path)
	assert.Equal(t, testToken, r.URL.Query().Get("token"))
	assert.Equal(t, testProjectToken, r.URL.Query().Get("project_token"))
	assert.Equal(t, []string{"a", "b"}, r.URL.Query()["extend[]"])
	assert.Equal(t, "matrix-export/test", r.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", r.Header.Get("Accept"))
}

func TestFetch_PathWithEmbeddedQuery(t *testing.T) {
	var seen []*http.Request
	ts := jsonServer(t, http.StatusOK, `{}`, &seen)
	c := newTestClient(ts)

	_, err := c.Fetch(context.Background(), "/otus/7?extend[]=x", nil)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "/api/v1/otus/7", seen[0].URL.Path)
	assert.Equal(t, "x", seen[0].URL.Query().Get("extend[]"))
	assert.Equal(t, testToken, seen[0].URL.Query().Get("token"))
}

func TestFetch_MalformedEmbeddedQuery(t *testing.T) {
	var seen []*http.Request
	ts := jsonServer(t, http.StatusOK, `{}`, &seen)
	c := newTestClient(ts)

	_, err := c.Fetch(context.Background(), "/otus/7?extend[]=%zz", nil)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.Status)
	assert.Equal(t, "/otus/7", fe.Path)
	assert.Empty(t, seen, "no request is sent")
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantParse  bool
	}{
		{"not found", http.StatusNotFound, `{"error":"missing"}`, http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, `oops`, http.StatusInternalServerError, false},
		{"unauthorized", http.StatusUnauthorized, ``, http.StatusUnauthorized, false},
		{"malformed body", http.StatusOK, `{not json`, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := jsonServer(t, tt.status, tt.body, nil)
			c := newTestClient(ts)

			_, err := c.Fetch(context.Background(), "/otus/1", nil)
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantStatus, fe.Status)
			assert.Equal(t, "/otus/1", fe.Path)
			assert.Equal(t, tt.wantParse, fe.Err != nil)
			assert.NotContains(t, err.Error(), testToken)
			assert.NotContains(t, err.Error(), testProjectToken)
		})
	}
}

func TestFetch_TransportErrorIsRedacted(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `{}`, nil)
	c := newTestClient(ts)
	ts.Close()

	_, err := c.Fetch(context.Background(), "/otus/1", nil)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.Status)
	assert.NotContains(t, err.Error(), testToken)
	assert.NotContains(t, err.Error(), testProjectToken)
}

func TestFetch_ContextCancelled(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `{}`, nil)
	c := newTestClient(ts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, "/otus/1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchDocumentAndList_Shapes(t *testing.T) {
	arr := jsonServer(t, http.StatusOK, `[{"id": 1}, 5, {"id": 2}]`, nil)
	obj := jsonServer(t, http.StatusOK, `{"id": 1}`, nil)

	docs, err := newTestClient(arr).FetchList(context.Background(), "/observations", nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2", docs[1].Text("id"))

	_, err = newTestClient(arr).FetchDocument(context.Background(), "/otus/1", nil)
	assert.ErrorIs(t, err, errUnexpectedShape)

	_, err = newTestClient(obj).FetchList(context.Background(), "/observations", nil)
	assert.ErrorIs(t, err, errUnexpectedShape)

	empty := jsonServer(t, http.StatusOK, `[]`, nil)
	docs, err = newTestClient(empty).FetchList(context.Background(), "/observations", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFetchError_Message(t *testing.T) {
	assert.Equal(t, "GET /otus/1: HTTP 404", (&FetchError{Status: 404, Path: "/otus/1"}).Error())
	assert.Equal(t, "GET /otus/1: boom", (&FetchError{Path: "/otus/1", Err: errors.New("boom")}).Error())
	assert.Equal(t, "GET /otus/1: HTTP 200: bad", (&FetchError{Status: 200, Path: "/otus/1", Err: errors.New("bad")}).Error())
}
