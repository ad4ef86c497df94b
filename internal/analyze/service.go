// Package analyze orchestrates the full transcript pipeline: entity
// detection, structured analysis, relationship mapping, and news
// verification.
package analyze

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aerovoice/aerovoice/internal/cache"
	"github.com/aerovoice/aerovoice/internal/correlate"
	"github.com/aerovoice/aerovoice/internal/detect"
	"github.com/aerovoice/aerovoice/internal/keywords"
	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
	"github.com/aerovoice/aerovoice/internal/news"
	"github.com/aerovoice/aerovoice/internal/relate"
)

const (
	maxAirlines       = 5
	maxThemes         = 3
	extractionWindow  = 1000
	transcriptWindow  = 500
	maxSearchTerms    = 5
	aiConfidence      = 0.85
	fallbackConfident = 0.6
)

// Options controls a single analysis request
type Options struct {
	AirlineFilter string
	ThemeFilter   string
	// NoCorrelation skips news verification even when it is configured
	NoCorrelation bool
}

// Service runs the analysis pipeline. All collaborators degrade gracefully:
// a missing oracle limits detection to keywords, a missing news key skips
// verification, and Analyze itself only fails on empty input.
type Service struct {
	config     *model.Config
	oracle     llm.Oracle
	matcher    *keywords.Matcher
	detector   *detect.AIDetector
	reconciler *detect.Reconciler
	relater    *relate.Builder
	newsClient *news.Client
	fetcher    *news.Fetcher
	engine     *correlate.Engine
}

// NewService wires the pipeline from configuration
func NewService(config *model.Config, oracle llm.Oracle) *Service {
	if config == nil {
		config = model.DefaultConfig()
	}

	var store cache.Cache = cache.NewMemoryCache(config.Cache.TTL, config.Cache.CleanupInterval)

	s := &Service{
		config:     config,
		oracle:     oracle,
		matcher:    keywords.NewMatcher(),
		reconciler: detect.NewReconciler(oracle, config.Detection),
		relater:    relate.NewBuilder(),
		newsClient: news.NewClient(config.News),
		engine:     correlate.NewEngine(oracle, store, config.Correlation),
	}
	if oracle != nil {
		s.detector = detect.NewAIDetector(oracle)
	}
	if config.News.FetchFullText {
		s.fetcher = news.NewFetcher(config.Fetch)
	}
	return s
}

// AnalyzeText satisfies the batch worker contract
func (s *Service) AnalyzeText(ctx context.Context, transcript string) (*model.AnalysisRecord, error) {
	return s.Analyze(ctx, transcript, Options{})
}

// Analyze runs the complete pipeline over one transcript
func (s *Service) Analyze(ctx context.Context, transcript string, opts Options) (*model.AnalysisRecord, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("empty transcript")
	}

	entities := s.detectAirlines(ctx, transcript)
	themes := s.matcher.DetectThemes(transcript)

	if opts.AirlineFilter != "" {
		entities = filterEntities(entities, opts.AirlineFilter)
	}
	if opts.ThemeFilter != "" {
		themes = filterThemes(themes, opts.ThemeFilter)
	}

	primary := s.reconciler.Primary(ctx, transcript, entities)

	record := s.buildRecord(ctx, transcript, entities, themes, primary)

	if !opts.NoCorrelation {
		record.Correlation = s.correlate(ctx, transcript, entities, themes)
	}

	return record, nil
}

// detectAirlines runs AI detection with the keyword scanner as backstop and
// merges the two result sets
func (s *Service) detectAirlines(ctx context.Context, transcript string) []model.DetectedEntity {
	keywordEntities := s.matcher.DetectAirlines(transcript)

	if s.detector == nil {
		return keywordEntities
	}

	aiEntities := s.detector.Detect(ctx, transcript)
	log.Printf("detection: %d from model, %d from keywords", len(aiEntities), len(keywordEntities))

	merged := s.reconciler.Merge(aiEntities, keywordEntities)
	if len(merged) == 0 {
		log.Printf("no airlines detected in transcript: %.80s", transcript)
	}
	return merged
}

// buildRecord produces the structured analysis, preferring the oracle and
// degrading to rule-based extraction when it fails
func (s *Service) buildRecord(ctx context.Context, transcript string, entities []model.DetectedEntity, themes []string, primary *model.DetectedEntity) *model.AnalysisRecord {
	record := &model.AnalysisRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}

	var completion string
	if s.oracle != nil {
		var err error
		completion, err = s.oracle.Complete(ctx, llm.CompletionRequest{
			System: "You are an expert aviation market intelligence analyst. Analyze aviation market intelligence and extract key insights, market signals, and keywords. Provide structured responses with SUMMARY, MARKET SIGNALS, and KEYWORDS sections as requested.",
			Prompt: buildAnalysisPrompt(transcript, entities, themes, primary),
		})
		if err != nil {
			log.Printf("analysis completion failed: %v", err)
			completion = ""
		}
	}

	if completion != "" {
		record.Summary = ExtractSummary(completion, transcript)
		record.Keywords = ExtractKeywords(completion, transcript)
		record.MarketSignals = ExtractMarketSignals(completion)
		record.Sentiment = ExtractSentiment(completion)
		record.PredictiveProbabilities = ExtractPredictions(completion)
		record.ConfidenceScore = aiConfidence

		if len(entities) == 0 {
			entities = s.remedialExtraction(ctx, completion, transcript)
		}
	} else {
		record.Summary = FallbackSummary(transcript)
		record.Keywords = ExtractKeywords("", transcript)
		record.MarketSignals = []model.MarketSignal{{
			Signal: "Content detected", Strength: model.StrengthModerate, Trend: model.TrendStable,
		}}
		record.Sentiment = model.NeutralSentiment()
		record.PredictiveProbabilities = []model.Prediction{}
		record.ConfidenceScore = fallbackConfident
		if len(themes) == 0 {
			themes = []string{"General"}
		}
	}

	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	record.Themes = themes
	if len(themes) > 0 {
		record.OriginalTheme = themes[0]
	}

	airlineThemes, themeAirlines := s.relater.Build(transcript, entities, themes)
	record.AirlineThemeMap = airlineThemes
	record.ThemeAirlineMap = themeAirlines

	record.AirlineSpecifications = buildSpecifications(entities, completion, primary, airlineThemes, themes)

	if primary != nil {
		record.PrimaryAirline = primary.Airline
	}
	record.AllAirlines = airlineNames(entities)

	return record
}

func buildAnalysisPrompt(transcript string, entities []model.DetectedEntity, themes []string, primary *model.DetectedEntity) string {
	airlineList := "None detected"
	if len(entities) > 0 {
		names := airlineNames(entities)
		if len(names) > 3 {
			names = names[:3]
		}
		airlineList = strings.Join(names, ", ")
	}

	themeList := "General"
	if len(themes) > 0 {
		list := themes
		if len(list) > 3 {
			list = list[:3]
		}
		themeList = strings.Join(list, ", ")
	}

	primaryContext := ""
	if primary != nil && len(entities) > 1 {
		primaryContext = fmt.Sprintf(" Primary focus: %s (most relevant).", primary.Airline)
	}

	return fmt.Sprintf(`Analyze this aviation market intelligence transcription and provide a comprehensive analysis:

TRANSCRIPTION: "%s"

CONTEXT:
- Airlines mentioned: %s.%s
- Themes detected: %s

REQUIREMENTS:
1. SUMMARY: Write a detailed 3-5 sentence intelligence summary covering:
   - All airlines mentioned and their activities
   - Key market dynamics and competitive landscape
   - Pilot concerns, hiring patterns, and industry trends
   - Market implications and risks
   (Write in plain text, complete sentences, no truncation)

2. MARKET SIGNALS: Identify 3-5 key market signals with strength and trend:
   Format each as: - [Signal description] | Strength: [Strong/Moderate/Weak] | Trend: [up/down/stable]

3. KEYWORDS: Extract 8-12 key terms from the transcription that are most relevant:
   Include: airline names, aircraft types, key concepts, themes, concerns
   Format: keyword1, keyword2, keyword3, ...

OUTPUT FORMAT (exactly as shown):
SUMMARY: [complete 3-5 sentence summary without truncation]

MARKET SIGNALS:
- [Signal 1] | Strength: [Strong/Moderate/Weak] | Trend: [up/down/stable]
- [Signal 2] | Strength: [Strong/Moderate/Weak] | Trend: [up/down/stable]
- [Signal 3] | Strength: [Strong/Moderate/Weak] | Trend: [up/down/stable]

KEYWORDS: [keyword1, keyword2, keyword3, keyword4, keyword5, keyword6, keyword7, keyword8]`,
		transcript, airlineList, primaryContext, themeList)
}

// remedialExtraction asks the oracle to name airlines from its own analysis
// when neither detector found any
func (s *Service) remedialExtraction(ctx context.Context, completion, transcript string) []model.DetectedEntity {
	if s.oracle == nil {
		return nil
	}
	log.Printf("no airlines detected, attempting extraction from analysis output")

	prompt := fmt.Sprintf(`Extract airline names from this analysis text. Return only airline names, one per line.

Analysis: "%s"

Original text: "%s"

Return airline names only:`, truncate(completion, extractionWindow), truncate(transcript, transcriptWindow))

	raw, err := s.oracle.Complete(ctx, llm.CompletionRequest{
		System:      "Extract airline names from text. Return only airline names, one per line.",
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		log.Printf("airline extraction from analysis failed: %v", err)
		return nil
	}

	var entities []model.DetectedEntity
	for _, line := range strings.Split(raw, "\n") {
		if len(entities) >= maxAirlines {
			break
		}
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		canonical, ok := keywords.Canonicalize(name)
		if !ok {
			continue
		}
		entities = append(entities, model.DetectedEntity{
			Airline:      canonical,
			Relevance:    model.RelevanceMedium,
			Score:        0.5,
			Matches:      1,
			MentionCount: 1,
			Method:       model.MethodAIExtraction,
		})
	}
	if len(entities) > 0 {
		log.Printf("extracted %d airlines from analysis output", len(entities))
	}
	return entities
}

// buildSpecifications assembles the per-airline blocks, marking the primary
// airline and attaching its mapped themes
func buildSpecifications(entities []model.DetectedEntity, completion string, primary *model.DetectedEntity, airlineThemes map[string][]string, themes []string) []model.AirlineSpec {
	var primaryName string
	if primary != nil {
		primaryName = strings.ToLower(primary.Airline)
	}

	limit := min(len(entities), maxAirlines)
	specs := make([]model.AirlineSpec, 0, limit)
	completionLower := strings.ToLower(completion)

	for _, e := range entities[:limit] {
		isPrimary := primaryName != "" && strings.ToLower(e.Airline) == primaryName

		signals := []string{"General"}
		if completion != "" && strings.Contains(completionLower, strings.ToLower(e.Airline)) {
			signals = []string{"Market activity", "Industry relevance"}
		}

		relevance := e.Relevance
		if isPrimary && relevance != model.RelevanceHigh {
			relevance = model.RelevanceHigh
		}

		specThemes := airlineThemes[e.Airline]
		if len(specThemes) == 0 {
			specThemes = themes
			if len(specThemes) > 2 {
				specThemes = specThemes[:2]
			}
		}

		specs = append(specs, model.AirlineSpec{
			Airline:      e.Airline,
			Relevance:    relevance,
			IsPrimary:    isPrimary,
			Signals:      signals,
			Themes:       specThemes,
			Score:        e.Score,
			MentionCount: e.MentionCount,
		})
	}

	// Primary first, then by score
	sort.SliceStable(specs, func(i, j int) bool {
		if specs[i].IsPrimary != specs[j].IsPrimary {
			return specs[i].IsPrimary
		}
		return specs[i].Score > specs[j].Score
	})
	return specs
}

// correlate runs news verification, degrading to an unverified block rather
// than failing the analysis
func (s *Service) correlate(ctx context.Context, transcript string, entities []model.DetectedEntity, themes []string) *model.CorrelationResult {
	if !s.config.Correlation.Enabled {
		log.Printf("news correlation disabled")
		return nil
	}
	if !s.newsClient.Configured() {
		log.Printf("news correlation skipped: news API key not configured")
		return nil
	}

	airlines := airlineNames(entities)
	terms := append(append([]string{}, themes...), airlines...)
	if len(terms) == 0 {
		log.Printf("no search terms for news correlation")
		return nil
	}
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}

	articles := s.newsClient.Gather(ctx, terms, airlines, s.config.Correlation.MinTargetedResults)
	if len(articles) == 0 {
		log.Printf("no news articles found for correlation")
		return model.UnverifiedCorrelation("")
	}
	if s.fetcher != nil {
		articles = s.fetcher.Enrich(ctx, articles)
	}

	result := s.engine.VerifyTranscript(ctx, transcript, articles, airlines, themes)
	log.Printf("news correlation completed: %s (%.2f)", result.VerificationStatus, result.CorrelationScore)
	return result
}

func airlineNames(entities []model.DetectedEntity) []string {
	limit := min(len(entities), maxAirlines)
	names := make([]string, 0, limit)
	for _, e := range entities[:limit] {
		names = append(names, e.Airline)
	}
	return names
}

func filterEntities(entities []model.DetectedEntity, airline string) []model.DetectedEntity {
	var out []model.DetectedEntity
	for _, e := range entities {
		if strings.EqualFold(e.Airline, airline) {
			out = append(out, e)
		}
	}
	return out
}

func filterThemes(themes []string, theme string) []string {
	var out []string
	for _, t := range themes {
		if strings.EqualFold(t, theme) {
			out = append(out, t)
		}
	}
	return out
}
