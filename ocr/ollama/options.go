package ollama

import (
	"log/slog"
	"net/http"
	"net/url"
)

// options holds configuration for the Ollama OCR engine.
type options struct {
	model      string
	prompt     string
	serverURL  *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a function type for configuring the engine.
type Option func(*options)

func applyOptions(opts ...Option) options {
	o := options{
		model:  "llava",
		prompt: DefaultPrompt,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithModel sets the vision model name.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithPrompt overrides the OCR instruction prompt.
func WithPrompt(prompt string) Option {
	return func(opts *options) {
		if prompt != "" {
			opts.prompt = prompt
		}
	}
}

// WithServerURL sets the Ollama server address.
func WithServerURL(rawURL string) Option {
	return func(opts *options) {
		if u, err := url.Parse(rawURL); err == nil {
			opts.serverURL = u
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		if client != nil {
			opts.httpClient = client
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
