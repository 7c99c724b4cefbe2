package exif

import (
	"os"

	goexif "github.com/rwcarlsen/goexif/exif"

	appErrors "picpp/internal/errors"
)

// Orientation values as defined by the EXIF Orientation tag.
const (
	OrientationNormal     = 1
	OrientationFlipH      = 2
	OrientationRotate180  = 3
	OrientationFlipV      = 4
	OrientationTranspose  = 5
	OrientationRotate90   = 6
	OrientationTransverse = 7
	OrientationRotate270  = 8
)

type Reader struct{}

// Orientation returns the EXIF orientation of path, or OrientationNormal
// with an ExifFailure error when the file carries no usable tag.
func (Reader) Orientation(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return OrientationNormal, appErrors.Wrap(appErrors.IOFailure, "open", path, err)
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return OrientationNormal, appErrors.Wrap(appErrors.ExifFailure, "exif", path, err)
	}

	tag, err := x.Get(goexif.Orientation)
	if err != nil {
		return OrientationNormal, appErrors.Wrap(appErrors.ExifFailure, "exif", path, err)
	}
	value, err := tag.Int(0)
	if err != nil {
		return OrientationNormal, appErrors.Wrap(appErrors.ExifFailure, "exif", path, err)
	}
	if value < OrientationNormal || value > OrientationRotate270 {
		return OrientationNormal, appErrors.New(appErrors.ExifFailure, "exif", path, "orientation out of range")
	}
	return value, nil
}
