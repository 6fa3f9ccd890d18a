package chefs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/gochef/chefs"
	logger "github.com/sevigo/gochef/chefs/testing"
)

// stubChef is the smallest possible Chef for registry tests.
type stubChef struct {
	chefs.BaseChef
}

func newStubChef(t *testing.T, name string, formats ...string) *stubChef {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	return &stubChef{BaseChef: chefs.NewBaseChef(name, "0.0.1", formats, nil, log)}
}

func (c *stubChef) Process(_ context.Context, _ string, _ ...chefs.ProcessOption) (*chefs.ProcessingResult, error) {
	return chefs.Skipped("stub chef", nil), nil
}

func newTestRegistry(t *testing.T) *chefs.Registry {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	return chefs.NewRegistry(log)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := newTestRegistry(t)
	pdfChef := newStubChef(t, "pdf", "pdf")

	require.NoError(t, registry.Register(pdfChef))

	got, err := registry.Get("pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf", got.Name())

	_, err = registry.Get("unknown")
	assert.ErrorIs(t, err, chefs.ErrChefNotFound)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	registry := newTestRegistry(t)
	require.NoError(t, registry.Register(newStubChef(t, "text", "txt", "log")))

	t.Run("NilChef", func(t *testing.T) {
		assert.Error(t, registry.Register(nil))
	})

	t.Run("EmptyName", func(t *testing.T) {
		assert.Error(t, registry.Register(newStubChef(t, "", "dat")))
	})

	t.Run("DuplicateName", func(t *testing.T) {
		assert.Error(t, registry.Register(newStubChef(t, "text", "rst")))
	})

	t.Run("DuplicateFormatClaim", func(t *testing.T) {
		err := registry.Register(newStubChef(t, "other", "log"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"log"`)

		// The rejected chef must not be half-registered.
		_, err = registry.Get("other")
		assert.ErrorIs(t, err, chefs.ErrChefNotFound)
	})
}

func TestRegistry_ForFormat(t *testing.T) {
	registry := newTestRegistry(t)
	require.NoError(t, registry.Register(newStubChef(t, "markdown", "md", "markdown")))

	for _, format := range []string{"md", ".md", "MD", ".MD", "markdown"} {
		chef, err := registry.ForFormat(format)
		require.NoError(t, err, "format %q", format)
		assert.Equal(t, "markdown", chef.Name())
	}

	_, err := registry.ForFormat("pdf")
	assert.ErrorIs(t, err, chefs.ErrChefNotFound)

	_, err = registry.ForFormat("")
	assert.ErrorIs(t, err, chefs.ErrChefNotFound)
}

func TestRegistry_ForFile(t *testing.T) {
	registry := newTestRegistry(t)
	require.NoError(t, registry.Register(newStubChef(t, "text", "txt")))

	chef, err := registry.ForFile("/var/data/notes.TXT")
	require.NoError(t, err)
	assert.Equal(t, "text", chef.Name())

	_, err = registry.ForFile("/var/data/archive.zip")
	assert.ErrorIs(t, err, chefs.ErrChefNotFound)

	_, err = registry.ForFile("/var/data/README")
	assert.ErrorIs(t, err, chefs.ErrChefNotFound)
}

func TestRegistry_AllAndFormats(t *testing.T) {
	registry := newTestRegistry(t)
	require.NoError(t, registry.Register(newStubChef(t, "text", "txt", "log")))
	require.NoError(t, registry.Register(newStubChef(t, "markdown", "md")))
	require.NoError(t, registry.Register(newStubChef(t, "pdf", "pdf")))

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "markdown", all[0].Name())
	assert.Equal(t, "pdf", all[1].Name())
	assert.Equal(t, "text", all[2].Name())

	assert.Equal(t, []string{"log", "md", "pdf", "txt"}, registry.Formats())
}
