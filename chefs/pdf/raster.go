package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// DefaultRasterDPI is the render resolution for OCR fallback pages. The
// chef honors the additional setting "ocr_dpi" as an override.
const DefaultRasterDPI = 300

// Rasterizer renders a single PDF page into an encoded PNG for OCR.
type Rasterizer interface {
	RasterizePage(ctx context.Context, path string, page, dpi int, password string) ([]byte, error)
}

// Runner lets tests stub the external rasterizer command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// PopplerRasterizer shells out to pdftoppm. Runner and Binary are
// exported so tests and callers can substitute them.
type PopplerRasterizer struct {
	Runner Runner
	Binary string

	logger *slog.Logger
}

var _ Rasterizer = (*PopplerRasterizer)(nil)

// NewPopplerRasterizer builds the exec-backed rasterizer.
func NewPopplerRasterizer(logger *slog.Logger) *PopplerRasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PopplerRasterizer{
		Runner: execRunner{},
		Binary: "pdftoppm",
		logger: logger,
	}
}

// RasterizePage renders one page to PNG bytes via
// `pdftoppm -r <dpi> -png -f <page> -l <page> <path> <tmp>/page`.
func (r *PopplerRasterizer) RasterizePage(ctx context.Context, path string, page, dpi int, password string) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	if dpi <= 0 {
		dpi = DefaultRasterDPI
	}

	tmpDir, err := os.MkdirTemp("", "gochef-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.logger.Warn("Failed to remove raster temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	args := []string{
		"-r", strconv.Itoa(dpi),
		"-png",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
	}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, path, prefix)

	start := time.Now()
	_, stderr, err := r.Runner.Run(ctx, r.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("%s page %d: %w: %s", r.Binary, page, err, truncate(string(stderr), 512))
	}

	// pdftoppm zero-pads page numbers depending on the page count, so
	// glob instead of guessing the exact name.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s produced no image for page %d", r.Binary, page)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}

	r.logger.Debug("Rasterized PDF page",
		"path", path,
		"page", page,
		"dpi", dpi,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
