package batch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/page-autocrop/internal/autocrop"
)

// writePage writes a white w x h PNG with a black block at content.
func writePage(t *testing.T, path string, w, h int, content image.Rectangle) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if image.Pt(x, y).In(content) {
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

func readBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Rect(0, 0, cfg.Width, cfg.Height)
}

func TestNewRunner(t *testing.T) {
	r, err := NewRunner(autocrop.DefaultConfig(), 0)
	require.NoError(t, err)
	assert.Positive(t, r.workers)

	cfg := autocrop.DefaultConfig()
	cfg.PixelCount = 0
	_, err = NewRunner(cfg, 2)
	assert.True(t, errors.Is(err, autocrop.ErrInvalidConfig))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "scan.png"), OutputPath("in/scan.jpg", "out", true))
	assert.Equal(t, filepath.Join("out", "scan.jpg"), OutputPath("in/scan.jpg", "out", false))
	assert.Equal(t, filepath.Join("out", "page.png"), OutputPath("page.png", "out", false))
}

func TestCropFile(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "nested")
	src := filepath.Join(in, "page.png")
	writePage(t, src, 100, 100, image.Rect(10, 10, 90, 90))

	written, a, err := CropFile(src, out, autocrop.DefaultConfig(), false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "page.png"), written)
	assert.True(t, a.Cropped)
	assert.Equal(t, image.Rect(0, 0, 88, 88), readBounds(t, written))
}

func TestCropFile_RefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.png")
	writePage(t, src, 40, 40, image.Rect(10, 10, 30, 30))
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	_, _, err = CropFile(src, dir, autocrop.DefaultConfig(), false)
	assert.Error(t, err)

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	written, _, err := CropFile(src, dir, autocrop.DefaultConfig(), true)
	require.NoError(t, err)
	assert.Equal(t, src, written)
	assert.Equal(t, image.Rect(0, 0, 28, 28), readBounds(t, src))
}

func TestRunner_Run(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePage(t, filepath.Join(in, "a.png"), 100, 100, image.Rect(10, 10, 90, 90))
	writePage(t, filepath.Join(in, "b.png"), 60, 40, image.Rectangle{})
	require.NoError(t, os.WriteFile(filepath.Join(in, "c.png"), []byte("not a png"), 0o644))

	jobs, err := PlanPaths([]string{in}, out)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	r, err := NewRunner(autocrop.DefaultConfig(), 2)
	require.NoError(t, err)
	tracker, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)

	s := tracker.Summary()
	assert.False(t, s.Running)
	assert.Equal(t, []string{filepath.Join(in, "a.png"), filepath.Join(in, "b.png")}, s.ByStatus[Complete])
	assert.Equal(t, []string{filepath.Join(in, "c.png")}, s.ByStatus[Failed])
	assert.Equal(t, Progress{Total: 3, Finished: 3, Failed: 1}, tracker.Progress())

	assert.Equal(t, image.Rect(0, 0, 88, 88), readBounds(t, filepath.Join(out, "a.png")))

	// Uniform pages are copied through untouched.
	orig, err := os.ReadFile(filepath.Join(in, "b.png"))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(out, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, orig, copied)
}

func TestRunner_CancelledContextSkipsEverything(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePage(t, filepath.Join(in, "a.png"), 20, 20, image.Rect(5, 5, 15, 15))
	writePage(t, filepath.Join(in, "b.png"), 20, 20, image.Rect(5, 5, 15, 15))
	jobs := []*Job{NewJob(filepath.Join(in, "a.png"), out), NewJob(filepath.Join(in, "b.png"), out)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(autocrop.DefaultConfig(), 1)
	require.NoError(t, err)
	tracker, err := r.Run(ctx, jobs)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Progress{Total: 2, Skipped: 2}, tracker.Progress())
	_, statErr := os.Stat(filepath.Join(out, "a.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_SameStemIntoOutputDir(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	// Content is sniffed, so PNG bytes behind a .jpg name still decode.
	writePage(t, filepath.Join(in, "page.jpg"), 100, 100, image.Rect(10, 10, 90, 90))
	writePage(t, filepath.Join(in, "page.png"), 60, 60, image.Rect(20, 20, 40, 40))

	jobs, err := PlanPaths([]string{in}, out)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	r, err := NewRunner(autocrop.DefaultConfig(), 2)
	require.NoError(t, err)
	tracker, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)

	s := tracker.Summary()
	assert.Equal(t, []string{filepath.Join(in, "page.jpg")}, s.ByStatus[Complete])
	assert.Equal(t, []string{filepath.Join(in, "page.png")}, s.ByStatus[Failed])

	loser, ok := tracker.Get(jobs[1].ID)
	require.True(t, ok)
	assert.Contains(t, loser.Error, "collision")
	assert.Empty(t, loser.Output)

	// Only the first job's crop reached the shared name.
	assert.Equal(t, image.Rect(0, 0, 88, 88), readBounds(t, filepath.Join(out, "page.png")))
}

func TestRunner_OverwriteNeverReplacesAnotherInput(t *testing.T) {
	dir := t.TempDir()
	jpg, pngPath := filepath.Join(dir, "page.jpg"), filepath.Join(dir, "page.png")
	writePage(t, jpg, 100, 100, image.Rect(10, 10, 90, 90))
	writePage(t, pngPath, 60, 60, image.Rect(20, 20, 40, 40))
	jpgBefore, err := os.ReadFile(jpg)
	require.NoError(t, err)

	jobs, err := PlanPaths([]string{dir}, "")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	r, err := NewRunner(autocrop.DefaultConfig(), 2)
	require.NoError(t, err)
	r.Overwrite = true
	tracker, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)

	s := tracker.Summary()
	assert.Equal(t, []string{jpg}, s.ByStatus[Failed])
	assert.Equal(t, []string{pngPath}, s.ByStatus[Complete])

	// page.png holds its own crop, not page.jpg's.
	assert.Equal(t, image.Rect(0, 0, 28, 28), readBounds(t, pngPath))
	jpgAfter, err := os.ReadFile(jpg)
	require.NoError(t, err)
	assert.Equal(t, jpgBefore, jpgAfter)
}

func TestOutputCollisions(t *testing.T) {
	a := NewJob(filepath.Join("in", "a.png"), "out")
	dup := NewJob(filepath.Join("in", "a.png"), "out")
	other := NewJob(filepath.Join("elsewhere", "a.tif"), "out")
	b := NewJob(filepath.Join("in", "b.png"), "out")
	self := NewJob(filepath.Join("out", "c.png"), "out")

	got := OutputCollisions([]*Job{a, dup, other, b, self})

	assert.Len(t, got, 2)
	assert.True(t, errors.Is(got[dup.ID], ErrOutputCollision))
	assert.True(t, errors.Is(got[other.ID], ErrOutputCollision))
	assert.Empty(t, OutputCollisions([]*Job{a, b, self}))
}

func TestPlanPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "notes.txt", "c.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	extra := filepath.Join(t.TempDir(), "loose.gif")
	require.NoError(t, os.WriteFile(extra, nil, 0o644))

	jobs, err := PlanPaths([]string{dir, extra}, "out")
	require.NoError(t, err)

	var inputs []string
	for _, j := range jobs {
		inputs = append(inputs, j.Input)
		assert.Equal(t, "out", j.OutputDir)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.webp"),
		extra,
	}, inputs)
}

func TestPlanPaths_NextToInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))

	jobs, err := PlanPaths([]string{dir}, "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, dir, jobs[0].OutputDir)
}

func TestPlanPaths_Missing(t *testing.T) {
	_, err := PlanPaths([]string{filepath.Join(t.TempDir(), "nope")}, "out")
	assert.Error(t, err)
}
