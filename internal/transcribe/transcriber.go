package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aerovoice/aerovoice/internal/model"
)

// TranscriptionError is fatal for the request: without text there is nothing
// to analyze.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Transcriber converts audio to text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)
}

// WhisperTranscriber implements Transcriber on the OpenAI audio API
type WhisperTranscriber struct {
	client *openai.Client
	config model.LLMConfig
}

// NewWhisperTranscriber creates a Whisper-backed transcriber
func NewWhisperTranscriber(config model.LLMConfig) (*WhisperTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Transcribe converts audio bytes to plain text
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	transModel := t.config.TranscriptionModel
	if transModel == "" {
		transModel = openai.Whisper1
	}
	if language == "" {
		language = "en"
	}

	timeout := 60 * time.Second
	if t.config.Timeout > 0 {
		timeout = 2 * time.Duration(t.config.Timeout) * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctxWithTimeout, openai.AudioRequest{
		Model:    transModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: language,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", &TranscriptionError{Err: err}
	}

	return resp.Text, nil
}
