package gochef_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/gochef"
	"github.com/sevigo/gochef/chefs"
	logger "github.com/sevigo/gochef/chefs/testing"
	"github.com/sevigo/gochef/ocr/fake"
)

func TestDefaultRegistry(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	registry, err := gochef.DefaultRegistry(log)
	require.NoError(t, err)

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "markdown", all[0].Name())
	assert.Equal(t, "pdf", all[1].Name())
	assert.Equal(t, "text", all[2].Name())

	assert.Equal(t, []string{"log", "markdown", "md", "pdf", "text", "txt"}, registry.Formats())

	chef, err := registry.ForFile("notes.md")
	require.NoError(t, err)
	assert.Equal(t, "markdown", chef.Name())
}

func TestDefaultRegistry_WithOCREngine(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	registry, err := gochef.DefaultRegistry(log, gochef.WithOCREngine(fake.NewEngine("recognized")))
	require.NoError(t, err)

	pdfChef, err := registry.Get("pdf")
	require.NoError(t, err)
	assert.Equal(t, "fake", pdfChef.Metadata()["ocr_engine"])

	textChef, err := registry.Get("text")
	require.NoError(t, err)
	assert.NotContains(t, textChef.Metadata(), "ocr_engine")
}

func TestDefaultRegistry_ProcessEndToEnd(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	registry, err := gochef.DefaultRegistry(log)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello from the registry"), 0o600))

	chef, err := registry.ForFile(path)
	require.NoError(t, err)

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status)
	assert.Equal(t, "hello from the registry", result.Document.Content)
}
