package chefs

import (
	"fmt"
	"time"
)

// DefaultTimeout is the declared processing time limit for a chef when
// nothing else is configured. Format processors apply it as a context
// deadline.
const DefaultTimeout = 300 * time.Second

// Config is the contract every chef configuration fulfills. Update merges
// dynamic settings without ever dropping a key, ToMap produces the flat
// interchange map serialization is built on.
type Config interface {
	Update(settings map[string]any)
	ToMap() map[string]any
	Validate() error
}

// BaseChefConfig carries the knobs shared by all chefs plus an open bag for
// anything a concrete chef or caller wants to attach. Embed it to extend
// the declared field set.
type BaseChefConfig struct {
	// Timeout is the declared processing time limit. Consumed by format
	// processors inside Process, not enforced by the base contract.
	Timeout time.Duration
	// MaxFileSize is an optional byte ceiling; nil means unbounded.
	MaxFileSize *int64
	// AdditionalSettings holds every updated key that does not name a
	// declared field. Never nil after construction.
	AdditionalSettings map[string]any
}

var _ Config = (*BaseChefConfig)(nil)

// NewBaseChefConfig returns a config with the framework defaults: a 300s
// timeout and no size ceiling. Overrides are applied with struct fields or
// Update; unknown keys can only enter through Update, which routes them
// into AdditionalSettings.
func NewBaseChefConfig() *BaseChefConfig {
	return &BaseChefConfig{
		Timeout:            DefaultTimeout,
		AdditionalSettings: make(map[string]any),
	}
}

// Update merges settings into the config. Keys naming declared fields
// overwrite them; every other key, and any value that cannot be coerced
// into the declared field type, is preserved in AdditionalSettings.
func (c *BaseChefConfig) Update(settings map[string]any) {
	if c.AdditionalSettings == nil {
		c.AdditionalSettings = make(map[string]any)
	}
	for key, value := range settings {
		if !c.ApplyField(key, value) {
			c.AdditionalSettings[key] = value
		}
	}
}

// ApplyField sets the declared field named by key and reports whether the
// key/value pair was consumed. Embedding configs extend their declared set
// by trying their own fields first and falling back to this method.
func (c *BaseChefConfig) ApplyField(key string, value any) bool {
	switch key {
	case "timeout":
		d, ok := asDuration(value)
		if !ok {
			return false
		}
		c.Timeout = d
		return true
	case "max_file_size":
		if value == nil {
			c.MaxFileSize = nil
			return true
		}
		n, ok := asInt64(value)
		if !ok {
			return false
		}
		c.MaxFileSize = &n
		return true
	}
	return false
}

// ToMap flattens the config into the interchange map: additional settings
// first, declared fields second, so typed fields win key collisions.
// Timeout is represented as integer seconds.
func (c *BaseChefConfig) ToMap() map[string]any {
	m := make(map[string]any, len(c.AdditionalSettings)+2)
	for k, v := range c.AdditionalSettings {
		m[k] = v
	}
	m["timeout"] = int(c.Timeout / time.Second)
	if c.MaxFileSize != nil {
		m["max_file_size"] = *c.MaxFileSize
	} else {
		m["max_file_size"] = nil
	}
	return m
}

// Validate rejects impossible declared values.
func (c *BaseChefConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxFileSize != nil && *c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", *c.MaxFileSize)
	}
	return nil
}

// asDuration coerces Update inputs into a timeout. Bare numbers are read
// as seconds for parity with the flat interchange map; strings go through
// time.ParseDuration.
func asDuration(value any) (time.Duration, bool) {
	switch v := value.(type) {
	case time.Duration:
		return v, true
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, false
		}
		return d, true
	case float32:
		return time.Duration(float64(v) * float64(time.Second)), true
	case float64:
		return time.Duration(v * float64(time.Second)), true
	}
	if n, ok := asInt64(value); ok {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
