// Package ocr defines the engine seam through which chefs recognize text
// on rasterized pages. Engines are injected collaborators; the framework
// only depends on this contract, never on a provider's internals.
package ocr

import "context"

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded payload in the format declared by Format.
	Image []byte
	// Format declares the image content type. Defaults to PNG.
	Format ImageFormat
	// Page links the input back to the 1-based source page, if any.
	Page int
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
	// Languages lists language hints (e.g. "eng", "deu") providers use
	// to select trained data.
	Languages []string
	// Variables passes engine-specific knobs (e.g. "psm" for Tesseract)
	// without hard-coding them into the contract.
	Variables map[string]string
}

// Result captures the recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Text is the linearized recognized text.
	Text string
	// Confidence is in [0,1]; zero when the provider reports none.
	Confidence float64
	// Language is the dominant recognized language, if known.
	Language string
}

// Engine is the provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
