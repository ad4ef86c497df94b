package news

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/aerovoice/aerovoice/internal/model"
	"github.com/aerovoice/aerovoice/internal/worker"
)

const maxRedirects = 3

// Fetcher retrieves article pages and extracts their visible text. It honors
// robots.txt and per-domain rate limits.
type Fetcher struct {
	client    *http.Client
	robots    *RobotsChecker
	limiter   *worker.Limiter
	userAgent string
	maxBytes  int64
}

// NewFetcher creates an article page fetcher
func NewFetcher(config model.FetchConfig) *Fetcher {
	timeout := 10 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "Aerovoice/0.1"
	}

	maxBytes := config.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1.0
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (%d)", len(via))
			}
			return nil
		},
	}

	return &Fetcher{
		client:    client,
		robots:    NewRobotsChecker(userAgent, timeout),
		limiter:   worker.NewLimiter(rps, 2),
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// FetchText retrieves a page and returns its visible text content
func (f *Fetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	allowed, delay, err := f.robots.CanFetch(pageURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt: %s", pageURL)
	}
	if delay > 0 && delay < 30*time.Second {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err := f.limiter.Wait(ctx, pageURL); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return ExtractVisibleText(string(body)), nil
}

// Enrich fills in FullText for articles that have none, fetching their pages.
// Failures leave the article as-is; the candidate pool is best-effort.
func (f *Fetcher) Enrich(ctx context.Context, articles []model.Article) []model.Article {
	for i := range articles {
		if articles[i].FullText != "" || articles[i].URL == "" {
			continue
		}
		text, err := f.FetchText(ctx, articles[i].URL)
		if err != nil {
			log.Printf("article fetch failed for %s: %v", articles[i].URL, err)
			continue
		}
		articles[i].FullText = text
	}
	return articles
}

// ExtractVisibleText parses HTML and returns its rendered text, skipping
// script, style and other non-content elements.
func ExtractVisibleText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
