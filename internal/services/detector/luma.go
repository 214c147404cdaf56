package detector

import (
	"gocv.io/x/gocv"
)

// Luma applies the whiteness threshold to decoded grayscale pixels instead
// of raw encoded bytes. Slower than MeanByte but measures actual image
// brightness, so it is less sensitive to how the portal happens to encode
// the placeholder. Selected with DETECTOR=luma.
type Luma struct {
	threshold float64
	fallback  *MeanByte
}

// NewLuma creates a Luma detector. A threshold of 0 or below picks the
// default.
func NewLuma(threshold float64) *Luma {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Luma{
		threshold: threshold,
		fallback:  NewMeanByte(threshold),
	}
}

// IsPlaceholder decodes frame to grayscale and checks the mean pixel value.
// Payloads that do not decode fall back to the raw-byte heuristic.
func (d *Luma) IsPlaceholder(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}

	mat, err := gocv.IMDecode(frame, gocv.IMReadGrayScale)
	if err != nil || mat.Empty() {
		return d.fallback.IsPlaceholder(frame)
	}
	defer mat.Close()

	return mat.Mean().Val1 > d.threshold
}
