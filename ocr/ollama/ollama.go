// Package ollama recognizes text with a locally served vision model
// through the Ollama HTTP API.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sevigo/gochef/ocr"
)

// DefaultPrompt instructs the vision model to behave like an OCR engine.
const DefaultPrompt = "Extract every piece of text visible in this image. " +
	"Return only the text in reading order, without commentary."

// Engine implements ocr.Engine against an Ollama server.
type Engine struct {
	client  *client
	options options
}

var _ ocr.Engine = (*Engine)(nil)

// New creates an Ollama-backed OCR engine.
func New(opts ...Option) (*Engine, error) {
	o := applyOptions(opts...)

	c, err := newClient(o.serverURL, o.httpClient)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	e := &Engine{
		client:  c,
		options: o,
	}
	e.options.logger = o.logger.With("component", "ollama_ocr", "model", o.model)
	return e, nil
}

func (e *Engine) Name() string { return "ollama" }

// Recognize sends the image to the vision model and returns the decoded
// text. Confidence is heuristic: Ollama reports none.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	start := time.Now()

	prompt := e.options.prompt
	if len(in.Languages) > 0 {
		prompt = fmt.Sprintf("%s The text is expected to be in: %s.", prompt, strings.Join(in.Languages, ", "))
	}

	stream := false
	req := &generateRequest{
		Model:  e.options.model,
		Prompt: prompt,
		Stream: &stream,
		Images: []api.ImageData{api.ImageData(in.Image)},
	}

	resp, err := e.client.generate(ctx, req)
	if err != nil {
		e.options.logger.ErrorContext(ctx, "Ollama OCR request failed", "error", err, "page", in.Page)
		return ocr.Result{}, fmt.Errorf("ollama generate: %w", err)
	}

	text := strings.TrimSpace(resp.Response)
	e.options.logger.Debug("Ollama OCR finished",
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

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
