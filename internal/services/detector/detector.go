package detector

// Detector decides whether fetched frame bytes are the portal's blank
// "session expired" placeholder rather than a real camera frame. The portal
// serves that placeholder with HTTP 200, so the status code alone cannot
// tell the two apart.
type Detector interface {
	IsPlaceholder(frame []byte) bool
}

// DefaultThreshold is the mean value above which a frame counts as the
// near-white placeholder. Tuned against the one placeholder image the
// portal is known to serve; bright overexposed frames may misclassify.
const DefaultThreshold = 250

// MeanByte flags frames whose mean byte value exceeds the threshold. It
// works on the raw encoded bytes without decoding the image, which is cheap
// and good enough because the placeholder compresses to an almost uniform
// near-0xFF payload.
type MeanByte struct {
	threshold float64
}

// NewMeanByte creates a MeanByte detector. A threshold of 0 or below picks
// the default.
func NewMeanByte(threshold float64) *MeanByte {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &MeanByte{threshold: threshold}
}

// IsPlaceholder reports whether frame looks like the blank placeholder.
// An empty payload counts as maximally white.
func (d *MeanByte) IsPlaceholder(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}

	var sum uint64
	for _, b := range frame {
		sum += uint64(b)
	}
	mean := float64(sum) / float64(len(frame))

	return mean > d.threshold
}
