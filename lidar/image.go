package lidar

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IntensityImage maps channel ch to an 8-bit grayscale image.
// Negative and non-finite values are treated as missing returns and set to zero.
// The remaining values are scaled by half of the channel maximum,
// which brightens the dim returns, and saturate at 255.
func IntensityImage(ch mat.Matrix) *image.Gray {
	rows, cols := ch.Dims()

	clamped := mat.DenseCopyOf(ch)
	clamped.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		return v
	}, clamped)

	maxVal := 0.0
	for i := 0; i < rows; i++ {
		maxVal = math.Max(maxVal, floats.Max(clamped.RawRowView(i)))
	}

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	if maxVal == 0 {
		return img
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := (maxVal / 2) * (clamped.At(i, j) / maxVal) * 255
			img.Pix[i*img.Stride+j] = uint8(math.Min(v, 255))
		}
	}

	return img
}

// CropCenter returns the columns of img within fraction of its width on either side of its center.
// For a 360 degree range image fraction 1/8 keeps +/- 45 degrees around the sensor heading.
// It returns error if fraction is not in (0, 0.5].
func CropCenter(img *image.Gray, fraction float64) (*image.Gray, error) {
	if fraction <= 0 || fraction > 0.5 {
		return nil, fmt.Errorf("invalid crop fraction: %v", fraction)
	}

	b := img.Bounds()
	half := int(float64(b.Dx()) * fraction)
	center := b.Min.X + b.Dx()/2

	return img.SubImage(image.Rect(center-half, b.Min.Y, center+half, b.Max.Y)).(*image.Gray), nil
}

// WritePNG encodes img to w in PNG format.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// PitchResolution returns the vertical angular resolution in arc minutes of a lidar
// with beams evenly spread between beam inclinations minIncl and maxIncl given in radians.
// It returns error if beams is not positive or maxIncl is smaller than minIncl.
func PitchResolution(minIncl, maxIncl float64, beams int) (float64, error) {
	if beams <= 0 {
		return 0, fmt.Errorf("invalid number of beams: %d", beams)
	}

	if maxIncl < minIncl {
		return 0, fmt.Errorf("invalid beam inclinations: [%v, %v]", minIncl, maxIncl)
	}

	vfov := maxIncl - minIncl

	return vfov / float64(beams) * 180 / math.Pi * 60, nil
}
