package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerovoice/aerovoice/internal/analyze"
	"github.com/aerovoice/aerovoice/internal/model"
	"github.com/aerovoice/aerovoice/internal/transcribe"
)

var (
	inlineText    string
	outJSON       string
	analyzeTO     time.Duration
	airlineFilter string
	themeFilter   string
	noCorrelation bool
	audioLanguage string
)

// audioExtensions are inputs routed through transcription first
var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".mp4": true,
	".mpeg": true, ".mpga": true, ".webm": true, ".flac": true, ".ogg": true,
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a voice transcript or audio recording",
	Long: `Analyze runs the full intelligence pipeline over one transcript:
- Detect airlines (language model with keyword fallback) and themes
- Determine the primary airline when several are mentioned
- Extract summary, keywords, market signals, sentiment, and predictions
- Map airline-theme relationships in both directions
- Verify factual claims against current news coverage

Audio files (mp3, wav, m4a, ...) are transcribed first.

Example:
  aerovoice analyze transcript.txt
  aerovoice analyze briefing.mp3 --language en
  aerovoice analyze --text "Indigo is hiring 500 pilots for their A350 fleet"
  aerovoice analyze transcript.txt --airline Indigo --no-correlation --json out.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&inlineText, "text", "", "analyze this text instead of a file")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	analyzeCmd.Flags().DurationVar(&analyzeTO, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&airlineFilter, "airline", "", "only keep results for this airline")
	analyzeCmd.Flags().StringVar(&themeFilter, "theme", "", "only keep results for this theme")
	analyzeCmd.Flags().BoolVar(&noCorrelation, "no-correlation", false, "skip news verification")
	analyzeCmd.Flags().StringVar(&audioLanguage, "language", "en", "spoken language for audio transcription")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if inlineText == "" && len(args) == 0 {
		return fmt.Errorf("provide a file argument or --text")
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTO)
	defer cancel()

	cfg := buildConfig()
	oracle, err := newOracle(cfg)
	if err != nil {
		return err
	}

	transcript := inlineText
	if transcript == "" {
		transcript, err = loadTranscript(ctx, cfg, args[0])
		if err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d characters of transcript\n", len(transcript))
	}

	service := analyze.NewService(cfg, oracle)
	record, err := service.Analyze(ctx, transcript, analyze.Options{
		AirlineFilter: airlineFilter,
		ThemeFilter:   themeFilter,
		NoCorrelation: noCorrelation,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d airlines, %d themes\n", len(record.AllAirlines), len(record.Themes))
		if record.PrimaryAirline != "" {
			fmt.Fprintf(os.Stderr, "✓ Primary airline: %s\n", record.PrimaryAirline)
		}
		if record.Correlation != nil {
			fmt.Fprintf(os.Stderr, "✓ News verification: %s (%.2f)\n",
				record.Correlation.VerificationStatus, record.Correlation.CorrelationScore)
		}
	}

	return writeRecord(record, outJSON)
}

// loadTranscript reads a text file, or transcribes an audio file first
func loadTranscript(ctx context.Context, cfg *model.Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
		return string(data), nil
	}

	transcriber, err := transcribe.NewWhisperTranscriber(cfg.LLM)
	if err != nil {
		return "", fmt.Errorf("audio input requires a language-model key: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Transcribing %s...\n", filepath.Base(path))
	}
	text, err := transcriber.Transcribe(ctx, data, filepath.Base(path), audioLanguage)
	if err != nil {
		return "", err
	}
	return text, nil
}

// writeRecord serializes the record to the given path, or stdout
func writeRecord(record any, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
