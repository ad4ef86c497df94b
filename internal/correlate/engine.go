package correlate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/aerovoice/aerovoice/internal/cache"
	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
	"github.com/aerovoice/aerovoice/internal/worker"
)

const (
	transcriptEmbedLimit = 8000
	claimEmbedLimit      = 2000
	claimPromptLimit     = 3000
	articleBodyLimit     = 1000
	maxVerdictArticles   = 5
	maxSupportPerClaim   = 3
	maxMatchedArticles   = 10
	maxReferences        = 5
)

// Engine verifies transcript claims against news coverage. When claim
// extraction comes back empty it degrades to plain embedding similarity
// between the whole transcript and each article.
type Engine struct {
	oracle   llm.Oracle
	embedder *Embedder
	config   model.CorrelationConfig
}

// NewEngine creates a correlation engine. The cache store may be nil.
func NewEngine(oracle llm.Oracle, store cache.Cache, config model.CorrelationConfig) *Engine {
	return &Engine{
		oracle:   oracle,
		embedder: NewEmbedder(oracle, store),
		config:   config,
	}
}

// scoredArticle pairs an article with its similarity to the current claim or
// transcript
type scoredArticle struct {
	article    model.Article
	similarity float64
}

// VerifyTranscript checks the transcript's factual claims against the given
// articles and aggregates the per-claim verdicts into a correlation result.
// It never returns an error; every failure degrades to an unverified block.
func (e *Engine) VerifyTranscript(ctx context.Context, transcript string, articles []model.Article, airlines, themes []string) *model.CorrelationResult {
	if e.oracle == nil {
		return model.UnverifiedCorrelation("language model not configured")
	}
	if len(articles) == 0 {
		return model.UnverifiedCorrelation("")
	}

	claims, err := e.ExtractClaims(ctx, transcript, airlines, themes)
	if err != nil {
		log.Printf("claim extraction failed: %v", err)
		claims = nil
	}
	if len(claims) == 0 {
		log.Printf("no claims extracted, falling back to semantic similarity")
		return e.Correlate(ctx, transcript, articles, airlines, themes)
	}

	result := &model.CorrelationResult{
		VerifiedClaims:     []model.VerifiedClaim{},
		UnverifiedClaims:   []model.UnverifiedClaim{},
		ContradictedClaims: []model.ContradictedClaim{},
		TotalClaims:        len(claims),
	}

	var supporting []model.Article
	for _, claim := range claims {
		verdict := e.verifyClaim(ctx, claim, articles)

		switch verdict.status {
		case model.StatusVerified:
			result.VerifiedClaims = append(result.VerifiedClaims, model.VerifiedClaim{
				Claim:              claim.Text,
				Confidence:         verdict.confidence,
				SupportingArticles: verdict.articles,
			})
			supporting = append(supporting, verdict.articles...)
		case model.StatusContradicted:
			result.ContradictedClaims = append(result.ContradictedClaims, model.ContradictedClaim{
				Claim:                 claim.Text,
				Reason:                verdict.reason,
				ContradictingArticles: verdict.articles,
			})
		default:
			result.UnverifiedClaims = append(result.UnverifiedClaims, model.UnverifiedClaim{
				Claim:  claim.Text,
				Reason: "No matching news found",
			})
		}
	}

	result.VerifiedCount = len(result.VerifiedClaims)
	result.ContradictedCount = len(result.ContradictedClaims)
	result.AccuracyScore = accuracyScore(result.VerifiedCount, result.ContradictedCount, result.TotalClaims)
	result.CorrelationScore = result.AccuracyScore
	result.IsCorrect = result.AccuracyScore >= 0.7 && result.ContradictedCount == 0
	result.VerificationStatus = aggregateStatus(result.VerifiedCount, result.ContradictedCount, result.TotalClaims)

	unique := model.DedupeArticles(supporting)
	if len(unique) > maxMatchedArticles {
		unique = unique[:maxMatchedArticles]
	}
	result.MatchedArticles = unique

	refs := unique
	if len(refs) > maxReferences {
		refs = refs[:maxReferences]
	}
	result.SupportingRefs = make([]model.Reference, len(refs))
	for i, a := range refs {
		result.SupportingRefs[i] = a.Ref()
	}

	return result
}

// accuracyScore weighs verified claims up and contradicted claims down,
// clamped to [0, 1]
func accuracyScore(verified, contradicted, total int) float64 {
	if total == 0 {
		return 0
	}
	score := (float64(verified) - float64(contradicted)*0.5) / float64(total)
	return min(1.0, max(0.0, score))
}

func aggregateStatus(verified, contradicted, total int) model.VerificationStatus {
	switch {
	case contradicted > 0:
		return model.StatusContradicted
	case total > 0 && verified == total:
		return model.StatusVerified
	case verified > 0:
		return model.StatusPartial
	default:
		return model.StatusUnverified
	}
}

// ExtractClaims asks the oracle for the transcript's factual claims and keeps
// those at or above confidence 0.5
func (e *Engine) ExtractClaims(ctx context.Context, transcript string, airlines, themes []string) ([]model.Claim, error) {
	airlineList := "None"
	if len(airlines) > 0 {
		airlineList = strings.Join(airlines, ", ")
	}
	themeList := "None"
	if len(themes) > 0 {
		themeList = strings.Join(themes, ", ")
	}

	prompt := fmt.Sprintf(`Extract all factual claims, statements, or assertions from the following aviation conversation transcript.

Focus on:
- Specific events, announcements, or news
- Numbers, dates, or quantities
- Business decisions (hiring, expansion, financial)
- Operational changes
- Safety incidents
- Technical issues

Transcript:
%s

Detected Airlines: %s
Detected Themes: %s

Return a JSON object with a "claims" array, each claim with:
- "text": the claim statement
- "type": "event|announcement|number|decision|safety|other"
- "airline": airline name if mentioned
- "confidence": 0.0-1.0

Format: {"claims": [{"text": "...", "type": "...", "airline": "...", "confidence": 0.8}]}`,
		truncate(transcript, claimPromptLimit), airlineList, themeList)

	raw, err := e.oracle.Complete(ctx, llm.CompletionRequest{
		System:      "You are a fact-checking assistant. Extract factual claims from text. Return only valid JSON.",
		Prompt:      prompt,
		Temperature: 0.3,
		JSONObject:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("claim extraction: %w", err)
	}

	var parsed struct {
		Claims []model.Claim `json:"claims"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	var claims []model.Claim
	for _, c := range parsed.Claims {
		if c.Confidence >= 0.5 && strings.TrimSpace(c.Text) != "" {
			claims = append(claims, c)
		}
	}
	log.Printf("extracted %d claims from transcript", len(claims))
	return claims, nil
}

// claimVerdict is the outcome of checking one claim
type claimVerdict struct {
	status     model.VerificationStatus
	confidence float64
	reason     string
	articles   []model.Article
}

func (e *Engine) verifyClaim(ctx context.Context, claim model.Claim, articles []model.Article) claimVerdict {
	unverified := claimVerdict{status: model.StatusUnverified}
	if strings.TrimSpace(claim.Text) == "" {
		return unverified
	}

	claimVec := e.embedder.Embed(ctx, truncate(claim.Text, claimEmbedLimit))

	relevant := e.relevantArticles(ctx, claimVec, articles)
	if len(relevant) == 0 {
		return unverified
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].similarity > relevant[j].similarity
	})

	verdict, err := e.askVerdict(ctx, claim.Text, relevant)
	if err != nil {
		log.Printf("claim verification failed: %v", err)
		// High similarity stands in for an explicit verdict
		if relevant[0].similarity >= e.autoVerifyAbove() {
			return claimVerdict{
				status:     model.StatusVerified,
				confidence: 0.7,
				reason:     "High semantic similarity found",
				articles:   topArticles(relevant, maxSupportPerClaim),
			}
		}
		return unverified
	}
	return verdict
}

// relevantArticles embeds every article concurrently and keeps those whose
// similarity to the claim clears the threshold
func (e *Engine) relevantArticles(ctx context.Context, claimVec []float32, articles []model.Article) []scoredArticle {
	workers := e.config.EmbeddingWorkers
	if workers <= 0 {
		workers = 4
	}

	pool := worker.NewPool(workers)
	pool.Start()
	for i, a := range articles {
		text := a.Title + " " + truncate(a.FullText, claimEmbedLimit)
		pool.Submit(&embedJob{index: i, text: text, embedder: e.embedder})
	}
	results := pool.Wait()

	vectors := make([][]float32, len(articles))
	for _, r := range results {
		if er, ok := r.(*embedResult); ok {
			vectors[er.index] = er.vector
		}
	}

	threshold := e.config.ClaimThreshold
	if threshold <= 0 {
		threshold = 0.6
	}

	var relevant []scoredArticle
	for i, a := range articles {
		sim := Cosine(claimVec, vectors[i])
		if sim >= threshold {
			a.RelevanceScore = sim
			relevant = append(relevant, scoredArticle{article: a, similarity: sim})
		}
	}
	return relevant
}

// embedJob embeds one article body on the worker pool
type embedJob struct {
	index    int
	text     string
	embedder *Embedder
}

type embedResult struct {
	index  int
	vector []float32
}

func (r *embedResult) GetError() error { return nil }

func (j *embedJob) Execute(ctx context.Context) worker.Result {
	return &embedResult{index: j.index, vector: j.embedder.Embed(ctx, j.text)}
}

// askVerdict has the oracle judge the claim against the most similar articles
func (e *Engine) askVerdict(ctx context.Context, claimText string, relevant []scoredArticle) (claimVerdict, error) {
	top := relevant
	if len(top) > maxVerdictArticles {
		top = top[:maxVerdictArticles]
	}

	var sb strings.Builder
	for i, sa := range top {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Title: %s\nSource: %s\n%s",
			sa.article.Title, sa.article.Source, truncate(sa.article.FullText, articleBodyLimit))
	}

	prompt := fmt.Sprintf(`Verify if the following claim is supported or contradicted by the news articles below.

Claim: %s

News Articles:
%s

Respond with JSON:
{
    "status": "verified|contradicted|unclear",
    "confidence": 0.0-1.0,
    "reason": "brief explanation",
    "articleUrls": ["url1", "url2"]
}`, claimText, sb.String())

	raw, err := e.oracle.Complete(ctx, llm.CompletionRequest{
		System:      "You are a fact-checker. Verify claims against news sources. Return only valid JSON.",
		Prompt:      prompt,
		Temperature: 0.2,
		JSONObject:  true,
	})
	if err != nil {
		return claimVerdict{}, err
	}

	var parsed struct {
		Status      string   `json:"status"`
		Confidence  float64  `json:"confidence"`
		Reason      string   `json:"reason"`
		ArticleURLs []string `json:"articleUrls"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return claimVerdict{}, fmt.Errorf("parse verdict: %w", err)
	}

	var cited []model.Article
	for _, u := range parsed.ArticleURLs {
		for _, sa := range relevant {
			if sa.article.URL == u {
				cited = append(cited, sa.article)
			}
		}
	}
	if len(cited) == 0 {
		cited = topArticles(relevant, maxSupportPerClaim)
	}
	if len(cited) > maxSupportPerClaim {
		cited = cited[:maxSupportPerClaim]
	}

	status := model.VerificationStatus(parsed.Status)
	switch status {
	case model.StatusVerified, model.StatusContradicted:
	default:
		status = model.StatusUnclear
	}

	return claimVerdict{
		status:     status,
		confidence: parsed.Confidence,
		reason:     parsed.Reason,
		articles:   cited,
	}, nil
}

// Correlate scores the whole transcript against each article by embedding
// similarity, boosted when the article mentions detected airlines or themes
func (e *Engine) Correlate(ctx context.Context, transcript string, articles []model.Article, airlines, themes []string) *model.CorrelationResult {
	if len(articles) == 0 {
		return model.UnverifiedCorrelation("")
	}

	transcriptVec := e.embedder.Embed(ctx, truncate(transcript, transcriptEmbedLimit))

	threshold := e.config.ArticleThreshold
	if threshold <= 0 {
		threshold = 0.5
	}

	var matched []scoredArticle
	var maxScore float64
	for _, a := range articles {
		articleVec := e.embedder.Embed(ctx, truncate(a.Title+" "+a.Description, transcriptEmbedLimit))
		score := min(1.0, Cosine(transcriptVec, articleVec)+mentionBoost(a, airlines, themes))
		if score > maxScore {
			maxScore = score
		}
		if score >= threshold {
			a.RelevanceScore = score
			matched = append(matched, scoredArticle{article: a, similarity: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].similarity > matched[j].similarity
	})

	var status model.VerificationStatus
	switch {
	case maxScore >= 0.8:
		status = model.StatusVerified
	case maxScore >= threshold:
		status = model.StatusPartial
	default:
		status = model.StatusUnverified
	}

	top := topArticles(matched, maxReferences)
	refs := make([]model.Reference, len(top))
	for i, a := range top {
		refs[i] = a.Ref()
	}

	return &model.CorrelationResult{
		AccuracyScore:      maxScore,
		CorrelationScore:   maxScore,
		IsCorrect:          status == model.StatusVerified,
		VerificationStatus: status,
		VerifiedClaims:     []model.VerifiedClaim{},
		UnverifiedClaims:   []model.UnverifiedClaim{},
		ContradictedClaims: []model.ContradictedClaim{},
		MatchedArticles:    top,
		SupportingRefs:     refs,
	}
}

// mentionBoost rewards articles that name detected airlines or themes,
// capped at 0.3
func mentionBoost(a model.Article, airlines, themes []string) float64 {
	text := strings.ToLower(a.Title + " " + a.Description)

	var boost float64
	for _, airline := range airlines {
		if airline != "" && strings.Contains(text, strings.ToLower(airline)) {
			boost += 0.1
		}
	}
	for _, theme := range themes {
		if theme != "" && strings.Contains(text, strings.ToLower(theme)) {
			boost += 0.05
		}
	}
	return min(0.3, boost)
}

func (e *Engine) autoVerifyAbove() float64 {
	if e.config.AutoVerifyAbove > 0 {
		return e.config.AutoVerifyAbove
	}
	return 0.8
}

func topArticles(scored []scoredArticle, n int) []model.Article {
	if len(scored) > n {
		scored = scored[:n]
	}
	out := make([]model.Article, len(scored))
	for i, sa := range scored {
		out[i] = sa.article
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
