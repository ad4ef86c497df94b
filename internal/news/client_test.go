package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aerovoice/aerovoice/internal/model"
)

const searchResponse = `{
	"articles": {
		"results": [
			{
				"title": "Indigo announces pilot hiring drive",
				"url": "https://example.com/indigo-hiring",
				"date": "2026-08-01",
				"body": "Indigo confirmed a hiring drive for 500 pilots.",
				"source": {"title": "Example News"}
			},
			{
				"title": "SpiceJet quarterly results",
				"url": "https://example.com/spicejet-results",
				"date": "2026-08-02",
				"body": "SpiceJet reported quarterly earnings.",
				"source": {"title": ""}
			}
		]
	}
}`

func newTestClient(baseURL string) *Client {
	return NewClient(model.NewsConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		MaxResults: 20,
	})
}

func TestSearch_DecodesArticles(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("missing api key in request")
		}
		if r.URL.Query().Get("articleBodyLen") != "-1" {
			t.Errorf("expected full-body request, got %q", r.URL.Query().Get("articleBodyLen"))
		}
		_, _ = w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	articles := c.Search(context.Background(), []string{"Hiring"}, []string{"Indigo"}, 10)

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Indigo announces pilot hiring drive" {
		t.Errorf("title = %q", articles[0].Title)
	}
	if articles[0].Source != "Example News" {
		t.Errorf("source = %q", articles[0].Source)
	}
	if articles[1].Source != "Unknown" {
		t.Errorf("empty source should become Unknown, got %q", articles[1].Source)
	}
	if articles[0].FullText == "" || articles[0].Description == "" {
		t.Error("body must populate both description and full text")
	}
	if !strings.Contains(gotQuery, `"$or"`) {
		t.Errorf("two terms should produce an $or query, got %s", gotQuery)
	}
}

func TestSearch_Unconfigured(t *testing.T) {
	requests := int32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer srv.Close()

	c := NewClient(model.NewsConfig{BaseURL: srv.URL})
	if c.Configured() {
		t.Error("client without key must report unconfigured")
	}
	if articles := c.Search(context.Background(), []string{"Hiring"}, nil, 10); articles != nil {
		t.Errorf("expected nil without key, got %d articles", len(articles))
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("unconfigured client must not call the API")
	}
}

func TestSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if articles := c.Search(context.Background(), []string{"Hiring"}, nil, 10); articles != nil {
		t.Errorf("expected nil on HTTP error, got %d articles", len(articles))
	}
}

func TestSearch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if articles := c.Search(context.Background(), []string{"Hiring"}, nil, 10); articles != nil {
		t.Errorf("expected nil on malformed response, got %d articles", len(articles))
	}
}

func TestQueryJSON(t *testing.T) {
	single := queryJSON([]string{"Indigo"})
	var parsed map[string]map[string]string
	if err := json.Unmarshal([]byte(single), &parsed); err != nil {
		t.Fatalf("invalid single-term query: %v", err)
	}
	if parsed["$query"]["keyword"] != "Indigo" {
		t.Errorf("single-term query = %s", single)
	}

	multi := queryJSON([]string{"Indigo", "Hiring"})
	if !strings.Contains(multi, `"$or"`) {
		t.Errorf("multi-term query must use $or: %s", multi)
	}

	empty := queryJSON([]string{"", "  "})
	if !strings.Contains(empty, "aviation") {
		t.Errorf("blank terms must fall back to aviation: %s", empty)
	}
}

func TestGather_WidensThinResults(t *testing.T) {
	calls := int32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			// Targeted search returns a single hit
			_, _ = w.Write([]byte(`{"articles": {"results": [
				{"title": "Targeted", "url": "https://example.com/a", "date": "2026-08-01", "body": "x", "source": {"title": "S"}}
			]}}`))
			return
		}
		// Broad recent fetch, overlapping URL to exercise deduplication
		_, _ = w.Write([]byte(`{"articles": {"results": [
			{"title": "Targeted", "url": "https://example.com/a", "date": "2026-08-01", "body": "x", "source": {"title": "S"}},
			{"title": "Broad", "url": "https://example.com/b", "date": "2026-08-02", "body": "y", "source": {"title": "S"}}
		]}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	articles := c.Gather(context.Background(), []string{"Hiring"}, []string{"Indigo"}, 10)

	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected targeted + broad calls, got %d", calls)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 deduped articles, got %d", len(articles))
	}
	if articles[0].URL == articles[1].URL {
		t.Error("duplicate URLs survived deduplication")
	}
}

func TestGather_SkipsWideningWhenEnough(t *testing.T) {
	calls := int32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"articles": {"results": [
			{"title": "A", "url": "https://example.com/a", "date": "2026-08-01", "body": "x", "source": {"title": "S"}},
			{"title": "B", "url": "https://example.com/b", "date": "2026-08-01", "body": "y", "source": {"title": "S"}}
		]}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	articles := c.Gather(context.Background(), []string{"Hiring"}, nil, 2)

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected a single targeted call, got %d", calls)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}
