package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-gif-go/domain/failure"
)

func TestScreenSource_NativeSizeCopies(t *testing.T) {
	shot := solidFrame(6, 4, 50)
	var grabbed image.Rectangle
	src, err := newScreenSource(image.Rect(10, 10, 16, 14), 0, 0, func(r image.Rectangle) (*image.RGBA, error) {
		grabbed = r
		return shot, nil
	})
	require.NoError(t, err)

	w, h := src.Dimensions()
	assert.Equal(t, 6, w)
	assert.Equal(t, 4, h)

	img, err := src.CurrentPixels()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 10, 16, 14), grabbed)
	assert.Equal(t, shot.Pix, img.Pix)
	assert.NotSame(t, shot, img)
	src.Recycle(img)
}

func TestScreenSource_ScalesToOutputSize(t *testing.T) {
	shot := solidFrame(8, 8, 200)
	src, err := newScreenSource(image.Rect(0, 0, 8, 8), 4, 2, func(image.Rectangle) (*image.RGBA, error) {
		return shot, nil
	})
	require.NoError(t, err)

	img, err := src.CurrentPixels()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	px := img.RGBAAt(1, 1)
	assert.InDelta(t, 200, int(px.R), 1)
	assert.InDelta(t, 255, int(px.A), 1)
}

func TestScreenSource_GrabError(t *testing.T) {
	boom := errors.New("display lost")
	src, err := newScreenSource(image.Rect(0, 0, 2, 2), 0, 0, func(image.Rectangle) (*image.RGBA, error) {
		return nil, boom
	})
	require.NoError(t, err)

	_, err = src.CurrentPixels()
	assert.ErrorIs(t, err, boom)
}

func TestScreenSource_EmptyRect(t *testing.T) {
	_, err := newScreenSource(image.Rectangle{}, 0, 0, nil)
	assert.True(t, failure.Is(err, failure.SourceUnavailable))
}

func TestImageSource_SnapshotsAreIndependent(t *testing.T) {
	src := NewImageSource(3, 3)
	_, err := src.CurrentPixels()
	require.ErrorIs(t, err, ErrSurfaceNotReady)

	surface := solidFrame(3, 3, 10)
	src.Update(surface)
	first, err := src.CurrentPixels()
	require.NoError(t, err)

	src.Update(solidFrame(3, 3, 20))
	second, err := src.CurrentPixels()
	require.NoError(t, err)

	assert.Equal(t, byte(10), first.Pix[0])
	assert.Equal(t, byte(20), second.Pix[0])
	assert.NotSame(t, surface, first)
}

func TestImageSource_SmallerSurfaceLeavesTransparentMargin(t *testing.T) {
	src := NewImageSource(2, 2)
	src.Update(solidFrame(1, 1, 90))

	img, err := src.CurrentPixels()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{90, 90, 90, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(1, 1))
}

func TestRegionSource_RebuildsOnlyOnChange(t *testing.T) {
	builds := 0
	src := NewRegionSource(func(r image.Rectangle, w, h int) (FrameSource, error) {
		builds++
		is := NewImageSource(r.Dx(), r.Dy())
		is.Update(solidFrame(r.Dx(), r.Dy(), 9))
		return is, nil
	})

	w, h := src.Dimensions()
	assert.Zero(t, w+h, "no source before the first refresh")
	_, err := src.CurrentPixels()
	assert.ErrorIs(t, err, ErrSurfaceNotReady)

	require.NoError(t, src.Refresh(image.Rect(0, 0, 4, 3), 0, 0))
	require.NoError(t, src.Refresh(image.Rect(0, 0, 4, 3), 0, 0))
	assert.Equal(t, 1, builds)
	w, h = src.Dimensions()
	assert.Equal(t, [2]int{4, 3}, [2]int{w, h})
	img, err := src.CurrentPixels()
	require.NoError(t, err)
	src.Recycle(img)

	require.NoError(t, src.Refresh(image.Rect(0, 0, 8, 2), 0, 0))
	assert.Equal(t, 2, builds)
	w, _ = src.Dimensions()
	assert.Equal(t, 8, w)
}

func TestRegionSource_BuildErrorSurfaces(t *testing.T) {
	boom := errors.New("no display")
	src := NewRegionSource(func(image.Rectangle, int, int) (FrameSource, error) { return nil, boom })

	assert.ErrorIs(t, src.Refresh(image.Rectangle{}, 0, 0), boom)
	_, err := src.CurrentPixels()
	assert.ErrorIs(t, err, boom)
	w, h := src.Dimensions()
	assert.Zero(t, w+h)
}
