// Package gemini recognizes text with Google's Gemini vision models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sevigo/gochef/ocr"
)

var (
	ErrNoAPIKey  = errors.New("gemini: API key is required")
	ErrNoContent = errors.New("gemini: no text recognized")
)

// DefaultPrompt instructs the model to transcribe rather than describe.
const DefaultPrompt = "Transcribe all text visible in this image. " +
	"Return only the transcription in reading order, without commentary."

// Engine implements ocr.Engine on top of the Gemini API.
type Engine struct {
	client  *genai.Client
	options options
	logger  *slog.Logger
}

var _ ocr.Engine = (*Engine)(nil)

// New creates a Gemini-backed OCR engine. The API key comes from the
// WithAPIKey option or the GEMINI_API_KEY environment variable.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	o := applyOptions(opts...)

	if o.apiKey == "" {
		o.apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if o.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: o.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	e := &Engine{
		client:  client,
		options: o,
		logger:  o.logger.With("component", "gemini_ocr", "model", o.model),
	}
	return e, nil
}

func (e *Engine) Name() string { return "gemini" }

// Recognize submits the image with a transcription prompt. Confidence is
// heuristic: the API reports none.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	start := time.Now()

	prompt := e.options.prompt
	if len(in.Languages) > 0 {
		prompt = fmt.Sprintf("%s The text is expected to be in: %s.", prompt, strings.Join(in.Languages, ", "))
	}

	mimeType := string(in.Format)
	if mimeType == "" {
		mimeType = string(ocr.ImageFormatPNG)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(in.Image, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := e.client.Models.GenerateContent(ctx, e.options.model, contents, nil)
	if err != nil {
		e.logger.ErrorContext(ctx, "Gemini OCR request failed", "error", err, "page", in.Page)
		return ocr.Result{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return ocr.Result{}, ErrNoContent
	}

	e.logger.Debug("Gemini OCR finished",
		"page", in.Page,
		"chars", len(text),
		"duration", time.Since(start),
	)

	return ocr.Result{
		InputID:    in.ID,
		Text:       text,
		Confidence: ocr.HeuristicConfidence(text),
		Language:   firstLanguage(in.Languages),
	}, nil
}

// extractText safely collects the text parts from a response.
func extractText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				builder.WriteString(part.Text)
			}
		}
	}
	return builder.String()
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
