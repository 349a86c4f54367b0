package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<div class="result">
  <h2><a class="result__a" href="https://example.com/titanic">RMS Titanic - History</a></h2>
  <a class="result__snippet">The Titanic sank on 15 April 1912 after striking an iceberg.</a>
</div>
<div class="result">
  <h2><a class="result__a" href="https://example.com/survivors">Titanic survivors</a></h2>
  <a class="result__snippet">About 710 people survived the sinking.</a>
</div>
</body></html>`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	client := NewClient(WithEndpoint(srv.URL))
	results, err := client.Search(context.Background(), "titanic sinking date", 5)
	require.NoError(t, err)

	assert.Equal(t, "titanic sinking date", gotQuery)
	require.Len(t, results, 2)
	assert.Equal(t, "RMS Titanic - History", results[0].Title)
	assert.Equal(t, "https://example.com/titanic", results[0].URL)
	assert.Contains(t, results[0].Snippet, "iceberg")
}

func TestSearchLimitsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	client := NewClient(WithEndpoint(srv.URL))
	results, err := client.Search(context.Background(), "titanic", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient()
	_, err := client.Search(context.Background(), "   ", 5)
	require.Error(t, err)
}

func TestSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithEndpoint(srv.URL))
	_, err := client.Search(context.Background(), "titanic", 5)
	require.Error(t, err)
}
