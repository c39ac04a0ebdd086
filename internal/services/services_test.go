package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/mask"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	case "gif":
		require.NoError(t, gif.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func upload(name, mimeType string, data []byte) *Upload {
	return &Upload{Name: name, MIMEType: mimeType, Reader: io.NopCloser(bytes.NewReader(data))}
}

func TestLoadImage_PNGAndJPEG(t *testing.T) {
	svc := NewImageService(logger.Nop())

	src, err := svc.LoadImage(context.Background(), upload("a.png", "", encoded(t, "png", 64, 32)))
	require.NoError(t, err)
	assert.Equal(t, MIMETypePNG, src.MIMEType)
	assert.Equal(t, 64, src.Width)
	assert.Equal(t, 32, src.Height)
	assert.Equal(t, "a.png", src.Name)

	src, err = svc.LoadImage(context.Background(), upload("b.jpg", "image/jpeg", encoded(t, "jpeg", 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, MIMETypeJPEG, src.MIMEType)
}

func TestLoadImage_RejectsOtherFormats(t *testing.T) {
	svc := NewImageService(logger.Nop())

	_, err := svc.LoadImage(context.Background(), upload("c.gif", "image/gif", encoded(t, "gif", 4, 4)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// A GIF renamed and declared as PNG is still a GIF.
	_, err = svc.LoadImage(context.Background(), upload("c.png", "image/png", encoded(t, "gif", 4, 4)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// pngHeaderOnly returns a PNG signature plus an IHDR chunk declaring w x h RGBA,
// with no pixel data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	body := make([]byte, 17)
	copy(body, "IHDR")
	binary.BigEndian.PutUint32(body[4:], w)
	binary.BigEndian.PutUint32(body[8:], h)
	body[12] = 8 // bit depth
	body[13] = 6 // RGBA

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, 13)
	buf.Write(length)
	buf.Write(body)

	crc := make([]byte, 4)
	binary.BigEndian.PutUint32(crc, crc32.ChecksumIEEE(body))
	buf.Write(crc)
	return buf.Bytes()
}

func TestLoadImage_RejectsOversizedHeader(t *testing.T) {
	svc := NewImageService(logger.Nop())

	_, err := svc.LoadImage(context.Background(), upload("huge.png", "image/png", pngHeaderOnly(60000, 60000)))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLoadImage_MaxPixels(t *testing.T) {
	svc := NewImageService(logger.Nop())
	svc.SetMaxPixels(100)

	_, err := svc.LoadImage(context.Background(), upload("a.png", "", encoded(t, "png", 10, 10)))
	require.NoError(t, err)

	_, err = svc.LoadImage(context.Background(), upload("b.png", "", encoded(t, "png", 11, 10)))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLoadImage_CorruptFile(t *testing.T) {
	svc := NewImageService(logger.Nop())

	_, err := svc.LoadImage(context.Background(), upload("x.png", "image/png", []byte("definitely not a png")))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadImage_NoFileAndCancelled(t *testing.T) {
	svc := NewImageService(logger.Nop())

	_, err := svc.LoadImage(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.LoadImage(ctx, upload("a.png", "", encoded(t, "png", 2, 2)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	svc := NewImageService(logger.Nop())

	assert.Equal(t, MIMETypePNG, svc.DetectMIMEType("image/jpeg", encoded(t, "png", 1, 1)))
	assert.Equal(t, MIMETypeJPEG, svc.DetectMIMEType("IMAGE/JPEG; q=1", []byte("garbage")))
	assert.True(t, svc.ValidateMIMEType(MIMETypePNG))
	assert.False(t, svc.ValidateMIMEType("image/webp"))
}

func TestFitContain(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out := FitContain(src, 800, 600)

	assert.Equal(t, image.Rect(0, 0, 800, 600), out.Bounds())
	// 200x100 -> 800x400 centred vertically, transparent bands above and below.
	assert.Zero(t, out.RGBAAt(400, 50).A)
	assert.Equal(t, uint8(255), out.RGBAAt(400, 300).A)
	assert.Zero(t, out.RGBAAt(400, 560).A)

	assert.Equal(t, image.Rect(0, 0, 10, 10), FitContain(nil, 10, 10).Bounds())
}

func TestMaskService_BuildMask(t *testing.T) {
	ex, err := mask.NewExtractor(mask.GoBackend)
	require.NoError(t, err)
	svc := NewMaskService(ex, logger.Nop())

	layer := image.NewRGBA(image.Rect(0, 0, 800, 600))
	layer.SetRGBA(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	result, err := svc.BuildMask(context.Background(), layer)
	require.NoError(t, err)

	w, h := result.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, mask.White, result.Image.RGBAAt(10, 10))
	assert.Equal(t, mask.Black, result.Image.RGBAAt(11, 10))
	assert.Equal(t, mask.FileName, result.FileName)
	assert.Equal(t, mask.GoBackend, result.Backend)
	assert.NotEmpty(t, result.PNG)

	_, err = svc.BuildMask(context.Background(), nil)
	assert.ErrorIs(t, err, mask.ErrEmptyLayer)
}

func TestMaskService_ConvertLayer(t *testing.T) {
	ex, err := mask.NewExtractor("")
	require.NoError(t, err)
	svc := NewMaskService(ex, logger.Nop())

	layer := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	layer.SetNRGBA(2, 1, color.NRGBA{A: 10})
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, layer))

	var out bytes.Buffer
	result, err := svc.ConvertLayer(context.Background(), &in, &out)
	require.NoError(t, err)
	assert.Equal(t, result.PNG, out.Bytes())

	decoded, err := png.Decode(&out)
	require.NoError(t, err)
	_, _, _, a := decoded.At(0, 0).RGBA()
	assert.EqualValues(t, 0xffff, a)
	r, _, _, _ := decoded.At(2, 1).RGBA()
	assert.EqualValues(t, 0xffff, r)
}

func TestDirDeliverer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := NewDirDeliverer(dir)

	require.NoError(t, d.Deliver(context.Background(), mask.FileName, []byte("first")))
	require.NoError(t, d.Deliver(context.Background(), mask.FileName, []byte("second")))

	data, err := os.ReadFile(d.Path(mask.FileName))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files cleaned up")
}

func TestDirDeliverer_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	d := NewDirDeliverer(t.TempDir())

	require.NoError(t, d.Deliver(context.Background(), mask.FileName, []byte("png")))

	info, err := os.Stat(d.Path(mask.FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
