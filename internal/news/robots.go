package news

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker caches per-host robots.txt data and answers fetch-permission
// queries for article pages.
type RobotsChecker struct {
	mu        sync.RWMutex
	cache     map[string]*robotstxt.RobotsData
	client    *http.Client
	userAgent string
}

// NewRobotsChecker creates a robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RobotsChecker{
		cache:     make(map[string]*robotstxt.RobotsData),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// CanFetch reports whether the target URL may be fetched, and any crawl delay
// the site requests. Hosts whose robots.txt cannot be retrieved are treated
// as allowing everything.
func (r *RobotsChecker) CanFetch(target string) (bool, time.Duration, error) {
	u, err := url.Parse(target)
	if err != nil {
		return false, 0, fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return false, 0, fmt.Errorf("url has no host: %s", target)
	}

	data, err := r.robotsData(u.Scheme, u.Host)
	if err != nil {
		// Unreachable robots.txt does not block article fetching
		return true, 0, nil
	}

	group := data.FindGroup(r.userAgent)
	if group == nil {
		return true, 0, nil
	}
	return group.Test(u.Path), group.CrawlDelay, nil
}

// IsAllowed is a convenience wrapper that swallows the delay and errors
func (r *RobotsChecker) IsAllowed(target string) bool {
	allowed, _, err := r.CanFetch(target)
	return err == nil && allowed
}

func (r *RobotsChecker) robotsData(scheme, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	if scheme == "" {
		scheme = "https"
	}
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	req, err := http.NewRequest(http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}

	data, err = robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()
	return data, nil
}
