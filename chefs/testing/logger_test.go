package testing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	logger "github.com/sevigo/gochef/chefs/testing"
)

func TestNewTestLogger(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	log.Debug("chef registered", "chef", "pdf")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="chef registered"`)
	assert.Contains(t, out, "chef=pdf")
	assert.NotContains(t, out, "time=", "buffer output stays deterministic")
}
