// Package news talks to the NewsAPI.ai article search API and enriches the
// results with full article text where needed.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aerovoice/aerovoice/internal/model"
)

// Broad fallback keywords used when widening the candidate pool beyond the
// targeted search.
var aviationKeywords = []string{
	"airline", "aviation", "aircraft", "airport", "pilot",
	"flight", "airline industry", "airline news", "aviation news",
}

// Client searches aviation news. Every method returns an empty slice instead
// of an error when the API key is missing or the request fails; the
// correlation stage then degrades to an unverified block.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxResults int
}

// NewClient creates a news search client
func NewClient(config model.NewsConfig) *Client {
	timeout := 30 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://newsapi.ai/api/v1/article/getArticles"
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxResults: maxResults,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search runs a targeted article search for the given keywords and airline
// names
func (c *Client) Search(ctx context.Context, keywords, airlines []string, maxResults int) []model.Article {
	if c.apiKey == "" {
		log.Printf("news search skipped: API key not configured")
		return nil
	}

	terms := append([]string{}, keywords...)
	terms = append(terms, airlines...)

	return c.getArticles(ctx, terms, maxResults)
}

// Recent fetches recent aviation news on broad industry keywords, used to
// widen the candidate pool when targeted search returns too few hits
func (c *Client) Recent(ctx context.Context, maxResults int) []model.Article {
	if c.apiKey == "" {
		return nil
	}
	return c.getArticles(ctx, aviationKeywords, maxResults)
}

// queryJSON builds the NewsAPI.ai query parameter:
//
//	{"$query": {"keyword": "term"}}
//	{"$query": {"$or": [{"keyword": "a"}, {"keyword": "b"}]}}
func queryJSON(keywords []string) string {
	var valid []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			valid = append(valid, k)
		}
	}
	if len(valid) == 0 {
		valid = []string{"aviation"}
	}

	type keywordTerm struct {
		Keyword string `json:"keyword"`
	}

	var query map[string]any
	if len(valid) == 1 {
		query = map[string]any{"$query": keywordTerm{valid[0]}}
	} else {
		terms := make([]keywordTerm, len(valid))
		for i, k := range valid {
			terms[i] = keywordTerm{k}
		}
		query = map[string]any{"$query": map[string]any{"$or": terms}}
	}

	data, _ := json.Marshal(query)
	return string(data)
}

func (c *Client) getArticles(ctx context.Context, keywords []string, maxResults int) []model.Article {
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	params := url.Values{}
	params.Set("query", queryJSON(keywords))
	params.Set("resultType", "articles")
	params.Set("articlesSortBy", "date")
	params.Set("articlesCount", strconv.Itoa(maxResults))
	params.Set("articleBodyLen", "-1") // full article body
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("news search request failed: %v", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("news search failed: %v", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("news search HTTP error: %d", resp.StatusCode)
		return nil
	}

	var payload struct {
		Articles struct {
			Results []struct {
				Title  string `json:"title"`
				URL    string `json:"url"`
				Date   string `json:"date"`
				Body   string `json:"body"`
				Source struct {
					Title string `json:"title"`
				} `json:"source"`
			} `json:"results"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("news search decode failed: %v", err)
		return nil
	}

	articles := make([]model.Article, 0, len(payload.Articles.Results))
	for _, a := range payload.Articles.Results {
		source := a.Source.Title
		if source == "" {
			source = "Unknown"
		}
		description := a.Body
		if len(description) > 500 {
			description = description[:500]
		}
		articles = append(articles, model.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      source,
			PublishedAt: a.Date,
			Description: description,
			FullText:    a.Body,
		})
	}
	return articles
}

// Gather runs the full candidate-pool strategy: targeted search first, then
// a broad recent-news fetch when the targeted search comes back thin, deduped
// by URL.
func (c *Client) Gather(ctx context.Context, keywords, airlines []string, minTargeted int) []model.Article {
	articles := c.Search(ctx, keywords, airlines, c.maxResults)

	if len(articles) < minTargeted {
		log.Printf("targeted news search returned %d articles, fetching recent aviation news", len(articles))
		articles = append(articles, c.Recent(ctx, 100)...)
	}

	return model.DedupeArticles(articles)
}

// String implements fmt.Stringer for debug logging without exposing the key
func (c *Client) String() string {
	return fmt.Sprintf("news.Client{configured: %t, base: %s}", c.Configured(), c.baseURL)
}
