package render

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestOpenImageDirOrdersPages(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page-002.png", 100, 150)
	writePage(t, dir, "page-001.png", 100, 150)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extraction.json"), []byte("{}"), 0o644))

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount())

	paths := doc.PagePaths()
	require.Len(t, paths, 2)
	assert.Equal(t, "page-001.png", filepath.Base(paths[0]))
	assert.Equal(t, "page-002.png", filepath.Base(paths[1]))
}

func TestOpenImageDirEmptyIsDocumentError(t *testing.T) {
	_, err := OpenImageDir(t.TempDir())
	assert.ErrorIs(t, err, ErrDocument)

	_, err = OpenImageDir(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrDocument)
}

func TestRenderPage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page-001.png", 320, 240)

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)

	img, err := doc.RenderPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Page)
	assert.Equal(t, 320, img.Width)
	assert.Equal(t, 240, img.Height)
}

func TestRenderPageDownscalesOversizedScans(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page-001.png", maxRenderDim*2, maxRenderDim)

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)

	img, err := doc.RenderPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, maxRenderDim, img.Width)
	assert.Equal(t, maxRenderDim/2, img.Height)
}

func TestRenderPageOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page-001.png", 10, 10)

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)

	_, err = doc.RenderPage(context.Background(), 0)
	assert.ErrorIs(t, err, ErrDocument)
	_, err = doc.RenderPage(context.Background(), 2)
	assert.ErrorIs(t, err, ErrDocument)
}

func TestRenderPageHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page-001.png", 10, 10)

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = doc.RenderPage(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderPageCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-001.png"), []byte("not a png"), 0o644))

	doc, err := OpenImageDir(dir)
	require.NoError(t, err)

	_, err = doc.RenderPage(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDocument)
}
