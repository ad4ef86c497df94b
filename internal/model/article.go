package model

// Article is a normalized news article returned by the search collaborator
type Article struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	PublishedAt    string  `json:"publishedAt"`
	Description    string  `json:"description"`
	FullText       string  `json:"fullText,omitempty"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Reference is the compact citation form of an article
type Reference struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	PublishedAt    string  `json:"publishedAt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Ref converts an article to its citation form
func (a Article) Ref() Reference {
	return Reference{
		Title:          a.Title,
		URL:            a.URL,
		Source:         a.Source,
		PublishedAt:    a.PublishedAt,
		RelevanceScore: a.RelevanceScore,
	}
}

// DedupeArticles removes articles with duplicate URLs, preserving order
func DedupeArticles(articles []Article) []Article {
	seen := make(map[string]bool)
	var unique []Article
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}
	return unique
}
