package chefs

import (
	"context"
)

// Chef turns raw source files of its supported formats into normalized
// documents. Implementations embed BaseChef for identity, config ownership
// and pre-flight validation.
//
// Process returns a non-nil error only when the file fails pre-flight
// validation (a *ValidationError); everything that goes wrong during
// extraction is captured in the returned ProcessingResult instead of
// escaping the call.
//
// Chefs do not lock their configuration. Concurrent Process calls on one
// instance are safe as long as nobody mutates the config at the same time.
type Chef interface {
	Name() string
	Version() string
	SupportedFormats() []string
	Config() Config
	Metadata() map[string]any
	ValidateFile(path string) error
	Process(ctx context.Context, path string, opts ...ProcessOption) (*ProcessingResult, error)
}

// ProcessOptions carries per-call settings forwarded to the format
// processor, independent of the chef's own configuration.
type ProcessOptions struct {
	// Settings is a free-form bag; chefs document the keys they honor
	// (the PDF chef reads "password" for encrypted files).
	Settings map[string]any
}

// ProcessOption mutates the per-call options.
type ProcessOption func(*ProcessOptions)

// ApplyProcessOptions builds ProcessOptions from defaults plus opts.
func ApplyProcessOptions(opts ...ProcessOption) ProcessOptions {
	o := ProcessOptions{Settings: make(map[string]any)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSetting attaches an arbitrary per-call setting.
func WithSetting(key string, value any) ProcessOption {
	return func(o *ProcessOptions) {
		o.Settings[key] = value
	}
}

// WithPassword sets the decryption password for protected files.
func WithPassword(password string) ProcessOption {
	return WithSetting("password", password)
}

// StringSetting returns the named setting when it is a non-empty string.
func (o ProcessOptions) StringSetting(key string) (string, bool) {
	v, ok := o.Settings[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
