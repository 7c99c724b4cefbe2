// Package codec decodes any supported raster input and encodes it to one of
// the conversion targets.
package codec

import (
	"bufio"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"picpp/internal/domain"
	appErrors "picpp/internal/errors"
	"picpp/internal/infra/exif"
)

const (
	webpMethod       = 4
	defaultAVIFSpeed = 8
)

type OrientationReader interface {
	Orientation(path string) (int, error)
}

type Codec struct {
	// AutoOrient applies the EXIF orientation at decode time, since the
	// encoded output carries no metadata.
	AutoOrient bool
	Exif       OrientationReader
	// AVIFSpeed trades encode time for size, 0 (slowest) to 10.
	AVIFSpeed int
}

func (c Codec) Decode(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", appErrors.Wrap(appErrors.IOFailure, "open", path, err)
	}
	defer file.Close()

	img, kind, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, "", appErrors.Wrap(appErrors.DecodeFailure, "decode", path, err)
	}

	if c.AutoOrient && c.Exif != nil {
		if orientation, err := c.Exif.Orientation(path); err == nil {
			img = Orient(img, orientation)
		}
	}
	return img, kind, nil
}

func (c Codec) Encode(w io.Writer, img image.Image, format domain.Format, quality int) error {
	if !format.SupportsAlpha() && NeedsFlatten(img) {
		img = Flatten(img)
	}

	var err error
	switch format {
	case domain.FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case domain.FormatWEBP:
		err = webp.Encode(w, img, webp.Options{Quality: quality, Method: webpMethod})
	case domain.FormatAVIF:
		speed := c.AVIFSpeed
		if speed <= 0 || speed > 10 {
			speed = defaultAVIFSpeed
		}
		err = avif.Encode(w, img, avif.Options{
			Quality:           quality,
			QualityAlpha:      quality,
			Speed:             speed,
			ChromaSubsampling: image.YCbCrSubsampleRatio420,
		})
	default:
		return appErrors.New(appErrors.InvalidInput, "encode", "", "unsupported target format "+format.String())
	}
	if err != nil {
		return appErrors.Wrap(appErrors.EncodeFailure, "encode "+format.String(), "", err)
	}
	return nil
}

// NeedsFlatten reports whether img may carry transparency or a palette.
func NeedsFlatten(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

// Flatten composites img onto an opaque white canvas of the same size.
func Flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// Orient turns pixels stored with the given EXIF orientation upright.
func Orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case exif.OrientationFlipH:
		return imaging.FlipH(img)
	case exif.OrientationRotate180:
		return imaging.Rotate180(img)
	case exif.OrientationFlipV:
		return imaging.FlipV(img)
	case exif.OrientationTranspose:
		return imaging.Transpose(img)
	case exif.OrientationRotate90:
		return imaging.Rotate270(img)
	case exif.OrientationTransverse:
		return imaging.Transverse(img)
	case exif.OrientationRotate270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
