package compose

import "gocv.io/x/gocv"

// DefaultChromaThreshold is the channel value below which a pixel counts as
// background black.
const DefaultChromaThreshold = 80

// ChromaKeyToAlpha makes near-black pixels of a BGRA image transparent: alpha
// is set to 0 wherever B, G and R are all below threshold. It returns the
// number of pixels keyed out, or -1 if img is not a continuous 8-bit BGRA Mat.
func ChromaKeyToAlpha(img *gocv.Mat, threshold uint8) int {
	if img == nil || img.Empty() || img.Type() != gocv.MatTypeCV8UC4 {
		return -1
	}
	data, err := img.DataPtrUint8()
	if err != nil {
		return -1
	}

	keyed := 0
	step := img.Step()
	for y := 0; y < img.Rows(); y++ {
		row := y * step
		for x := 0; x < img.Cols(); x++ {
			i := row + x*4
			if data[i] < threshold && data[i+1] < threshold && data[i+2] < threshold {
				data[i+3] = 0
				keyed++
			}
		}
	}
	return keyed
}
