package ocr

import "strconv"

// InputOption mutates an OCR input before submission.
type InputOption func(*Input)

// NewInput builds an input for an encoded image. PNG is assumed unless
// overridden with WithFormat.
func NewInput(image []byte, opts ...InputOption) Input {
	in := Input{
		Image:  image,
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// WithID sets the caller identifier echoed back in the result.
func WithID(id string) InputOption {
	return func(in *Input) { in.ID = id }
}

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPage links the input to its 1-based source page.
func WithPage(page int) InputOption {
	return func(in *Input) { in.Page = page }
}

// WithFormat declares the image content type.
func WithFormat(format ImageFormat) InputOption {
	return func(in *Input) { in.Format = format }
}

// WithVariable sets a provider-specific knob for the input.
func WithVariable(key, value string) InputOption {
	return func(in *Input) {
		if in.Variables == nil {
			in.Variables = make(map[string]string)
		}
		in.Variables[key] = value
	}
}

// WithTesseractPSM sets the page segmentation mode variable for Tesseract.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
func WithTesseractPSM(mode int) InputOption {
	return WithVariable("tessedit_pageseg_mode", strconv.Itoa(mode))
}
