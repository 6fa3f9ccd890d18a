package pdf

import (
	"errors"

	"github.com/sevigo/gochef/chefs"
)

// DefaultLanguage is the trained-data hint handed to OCR engines when
// nothing else is configured.
const DefaultLanguage = "eng"

// PDFChefConfig extends the base config with the PDF-specific knobs.
type PDFChefConfig struct {
	chefs.BaseChefConfig

	// OCREnabled turns on recognition for pages without a text layer.
	// An ocr.Engine still has to be attached to the chef for it to run.
	OCREnabled bool
	// ExtractImages records embedded image references per page.
	ExtractImages bool
	// Language is the OCR language hint.
	Language string
}

var _ chefs.Config = (*PDFChefConfig)(nil)

// NewPDFChefConfig returns the PDF defaults: OCR and image extraction on,
// English trained data, base defaults for the rest.
func NewPDFChefConfig() *PDFChefConfig {
	return &PDFChefConfig{
		BaseChefConfig: *chefs.NewBaseChefConfig(),
		OCREnabled:     true,
		ExtractImages:  true,
		Language:       DefaultLanguage,
	}
}

// Update merges settings, trying the PDF fields first and the base fields
// second; everything else survives in AdditionalSettings.
func (c *PDFChefConfig) Update(settings map[string]any) {
	if c.AdditionalSettings == nil {
		c.AdditionalSettings = make(map[string]any)
	}
	for key, value := range settings {
		if !c.ApplyField(key, value) {
			c.AdditionalSettings[key] = value
		}
	}
}

// ApplyField consumes the PDF keys and delegates unknown ones to the base.
func (c *PDFChefConfig) ApplyField(key string, value any) bool {
	switch key {
	case "ocr_enabled":
		b, ok := value.(bool)
		if !ok {
			return false
		}
		c.OCREnabled = b
		return true
	case "extract_images":
		b, ok := value.(bool)
		if !ok {
			return false
		}
		c.ExtractImages = b
		return true
	case "language":
		s, ok := value.(string)
		if !ok || s == "" {
			return false
		}
		c.Language = s
		return true
	}
	return c.BaseChefConfig.ApplyField(key, value)
}

// ToMap adds the PDF keys on top of the base interchange map.
func (c *PDFChefConfig) ToMap() map[string]any {
	m := c.BaseChefConfig.ToMap()
	m["ocr_enabled"] = c.OCREnabled
	m["extract_images"] = c.ExtractImages
	m["language"] = c.Language
	return m
}

// Validate extends the base checks with the OCR language requirement.
func (c *PDFChefConfig) Validate() error {
	if err := c.BaseChefConfig.Validate(); err != nil {
		return err
	}
	if c.OCREnabled && c.Language == "" {
		return errors.New("language must be set when OCR is enabled")
	}
	return nil
}
