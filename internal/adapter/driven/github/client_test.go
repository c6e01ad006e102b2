package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/deployfix/internal/adapter/driven/github"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", "test-token")
	require.NoError(t, err)

	return client
}

// commitJSON is a helper struct for building GitHub API commit responses.
type commitJSON struct {
	SHA     string    `json:"sha"`
	HTMLURL string    `json:"html_url"`
	Author  *userJSON `json:"author,omitempty"`
	Commit  innerJSON `json:"commit"`
}

type userJSON struct {
	Login string `json:"login"`
}

type innerJSON struct {
	Message string         `json:"message"`
	Author  commitUserJSON `json:"author"`
}

type commitUserJSON struct {
	Name string `json:"name"`
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchCommit_BySHA(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/shop/commits/abc123", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(t, w, commitJSON{
			SHA:     "abc123",
			HTMLURL: "https://github.com/acme/shop/commit/abc123",
			Author:  &userJSON{Login: "alice"},
			Commit:  innerJSON{Message: "Use requests", Author: commitUserJSON{Name: "Alice A"}},
		})
	})
	client := newTestClient(t, mux)

	commit, err := client.FetchCommit(context.Background(), "acme/shop", "abc123")

	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, "Bearer test-token", auth)
	assert.Equal(t, "abc123", commit.SHA)
	assert.Equal(t, "Use requests", commit.Message)
	assert.Equal(t, "alice", commit.Author)
	assert.Equal(t, "https://github.com/acme/shop/commit/abc123", commit.URL)
}

func TestFetchCommit_FallsBackToCommitAuthorName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/shop/commits/abc123", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, commitJSON{
			SHA:    "abc123",
			Commit: innerJSON{Message: "fix", Author: commitUserJSON{Name: "Bob"}},
		})
	})
	client := newTestClient(t, mux)

	commit, err := client.FetchCommit(context.Background(), "acme/shop", "abc123")

	require.NoError(t, err)
	assert.Equal(t, "Bob", commit.Author)
}

func TestFetchCommit_EmptyRefIsRejected(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, mux)

	commit, err := client.FetchCommit(context.Background(), "acme/shop", "")

	require.Error(t, err)
	assert.Nil(t, commit)
	assert.Zero(t, calls)
}

func TestFetchCommit_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/shop/commits/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No commit found for SHA: missing"}`))
	})
	client := newTestClient(t, mux)

	_, err := client.FetchCommit(context.Background(), "acme/shop", "missing")

	assert.Error(t, err)
}

func TestFetchCommit_InvalidRepoName(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	_, err := client.FetchCommit(context.Background(), "not-a-repo", "abc")

	assert.Error(t, err)
}
