package gemini

import (
	"log/slog"
)

// options holds configuration for the Gemini OCR engine.
type options struct {
	model  string
	apiKey string
	prompt string
	logger *slog.Logger
}

// Option is a function type for configuring the engine.
type Option func(*options)

func applyOptions(opts ...Option) options {
	o := options{
		model:  "gemini-2.5-flash",
		prompt: DefaultPrompt,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithAPIKey sets the Gemini API key.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = apiKey
	}
}

// WithPrompt overrides the transcription prompt.
func WithPrompt(prompt string) Option {
	return func(opts *options) {
		if prompt != "" {
			opts.prompt = prompt
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
