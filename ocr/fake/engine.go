// Package fake provides a scripted OCR engine for tests: it cycles
// through predefined texts and records every input it sees.
package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/sevigo/gochef/ocr"
)

// Engine implements ocr.Engine with canned responses. Safe for
// concurrent use.
type Engine struct {
	mu         sync.Mutex
	texts      []string
	index      int
	inputs     []ocr.Input
	err        error
	confidence float64
}

var _ ocr.Engine = (*Engine)(nil)

// NewEngine creates a fake engine cycling through the given texts.
func NewEngine(texts ...string) *Engine {
	return &Engine{
		texts:      texts,
		confidence: 0.99,
	}
}

func (e *Engine) Name() string { return "fake" }

// Recognize returns the next predefined text in the cycle.
func (e *Engine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inputs = append(e.inputs, in)

	if e.err != nil {
		return ocr.Result{}, e.err
	}
	if len(e.texts) == 0 {
		return ocr.Result{}, errors.New("no responses configured")
	}

	text := e.texts[e.index]
	e.index = (e.index + 1) % len(e.texts)

	language := ""
	if len(in.Languages) > 0 {
		language = in.Languages[0]
	}
	return ocr.Result{
		InputID:    in.ID,
		Text:       text,
		Confidence: e.confidence,
		Language:   language,
	}, nil
}

// FailWith makes every subsequent Recognize call return err.
func (e *Engine) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// AddText appends another response to the cycle.
func (e *Engine) AddText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
}

// Inputs returns a copy of every input passed to Recognize so far.
func (e *Engine) Inputs() []ocr.Input {
	e.mu.Lock()
	defer e.mu.Unlock()
	inputs := make([]ocr.Input, len(e.inputs))
	copy(inputs, e.inputs)
	return inputs
}

// CallCount returns how many times Recognize was called.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inputs)
}

// Reset clears the cycle position, recorded inputs and failure mode.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = 0
	e.inputs = nil
	e.err = nil
}
