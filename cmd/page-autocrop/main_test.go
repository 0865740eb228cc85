package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFramedPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	inner := image.Rect(10, 10, 90, 90)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if image.Pt(x, y).In(inner) {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRunCrop_OutputDir(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFramedPNG(t, filepath.Join(in, "page.png"))

	var stdout, stderr bytes.Buffer
	code := runCrop(context.Background(), []string{"-output-dir", out, "-margin", "0", in}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "(80x80, cropped)")
	_, err := os.Stat(filepath.Join(out, "page.png"))
	assert.NoError(t, err)
}

func TestRunCrop_Overwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.png")
	writeFramedPNG(t, src)

	var stdout, stderr bytes.Buffer
	code := runCrop(context.Background(), []string{"-overwrite", src}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 88, cfg.Width)
}

func TestRunCrop_UsageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no paths", []string{"-output-dir", dir}, "Usage:"},
		{"no destination", []string{dir}, "-output-dir or -overwrite"},
		{"both destinations", []string{"-output-dir", dir, "-overwrite", dir}, "mutually exclusive"},
		{"bad config", []string{"-output-dir", dir, "-scan-steps", "0", dir}, "scan_steps"},
		{"missing input", []string{"-output-dir", dir, filepath.Join(dir, "nope.png")}, "nope.png"},
		{"unknown flag", []string{"-bogus"}, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := runCrop(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRunCrop_FailedFile(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	bad := filepath.Join(in, "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))

	var stdout, stderr bytes.Buffer
	code := runCrop(context.Background(), []string{"-output-dir", out, bad}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr.String(), bad+":"), stderr.String())
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)
	assert.Contains(t, buf.String(), "PAGE_AUTOCROP_LOG_LEVEL")
	assert.Contains(t, buf.String(), "crop [flags]")
}
