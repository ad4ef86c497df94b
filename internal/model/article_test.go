package model

import "testing"

func TestDedupeArticles(t *testing.T) {
	articles := []Article{
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b"},
		{Title: "A again", URL: "https://example.com/a"},
		{Title: "C", URL: "https://example.com/c"},
	}

	unique := DedupeArticles(articles)

	if len(unique) != 3 {
		t.Fatalf("expected 3 unique articles, got %d", len(unique))
	}
	// First occurrence wins, order preserved
	if unique[0].Title != "A" || unique[1].Title != "B" || unique[2].Title != "C" {
		t.Errorf("order not preserved: %+v", unique)
	}
}

func TestDedupeArticles_Empty(t *testing.T) {
	if unique := DedupeArticles(nil); len(unique) != 0 {
		t.Errorf("expected empty result, got %v", unique)
	}
}

func TestArticleRef(t *testing.T) {
	a := Article{
		Title:          "Indigo hiring",
		URL:            "https://example.com/a",
		Source:         "Example News",
		PublishedAt:    "2026-08-01",
		Description:    "dropped from the reference",
		FullText:       "also dropped",
		RelevanceScore: 0.82,
	}

	ref := a.Ref()
	if ref.Title != a.Title || ref.URL != a.URL || ref.Source != a.Source {
		t.Errorf("ref = %+v", ref)
	}
	if ref.RelevanceScore != 0.82 {
		t.Errorf("relevance = %f, want 0.82", ref.RelevanceScore)
	}
}
