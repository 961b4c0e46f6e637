package imaging

import "image"

// Config controls one pass of the Image Conditioner. The four
// ConditionerPolicies below are the concrete instances spec.md section 4.1
// lists as the retry ladder.
type Config struct {
	ReversePolarity    bool
	UseFixedThreshold  bool
	FixedLevel         byte // only used when UseFixedThreshold
	AdaptiveBlockSize  int  // only used when !UseFixedThreshold
	MinContourVertices int
	MinAspectRatio     float64
}

// DefaultConfig returns policy 1: adaptive threshold, normal polarity.
func DefaultConfig() Config {
	return Config{
		AdaptiveBlockSize:  25,
		MinContourVertices: 160,
		MinAspectRatio:     0.20,
	}
}

// ConditionerPolicies returns the four fixed retry configurations spec.md
// section 4.1 names, in the order the driver should try them: default
// adaptive + normal polarity; reversed polarity; larger adaptive block (35);
// reversed polarity + fixed threshold. adaptiveBlockSize/adaptiveBlockSizeAlt
// come from DecodeConfig (SPEC_FULL section 4) rather than being hardcoded,
// so --adaptive-block and config-file overrides reach every policy that
// uses an adaptive block.
func ConditionerPolicies(adaptiveBlockSize, adaptiveBlockSizeAlt, minVertices int, minAspectRatio float64) []Config {
	base := Config{MinContourVertices: minVertices, MinAspectRatio: minAspectRatio}

	p1 := base
	p1.AdaptiveBlockSize = adaptiveBlockSize

	p2 := base
	p2.AdaptiveBlockSize = adaptiveBlockSize
	p2.ReversePolarity = true

	p3 := base
	p3.AdaptiveBlockSize = adaptiveBlockSizeAlt

	p4 := base
	p4.ReversePolarity = true
	p4.UseFixedThreshold = true
	p4.FixedLevel = 128

	return []Config{p1, p2, p3, p4}
}

// Process runs one Image Conditioner pass: grayscale, median blur,
// threshold, contour extraction, filtering. Returns the binary grid (the
// Symbol Locator samples brightness against it during rectification) and
// the surviving contours.
func Process(img image.Image, cfg Config) (*BitGrid, []Contour) {
	gray := ToGrayPlane(img)
	defer gray.Release()

	blurred := MedianBlur3(gray)
	defer blurred.Release()

	var binary *BitGrid
	if cfg.UseFixedThreshold {
		binary = FixedThreshold(blurred, cfg.FixedLevel, cfg.ReversePolarity)
	} else {
		binary = AdaptiveMeanThreshold(blurred, cfg.AdaptiveBlockSize, cfg.ReversePolarity)
	}

	contours := ExtractContours(binary)
	contours = FilterContours(contours, binary.W, binary.H, cfg.MinContourVertices, cfg.MinAspectRatio)

	return binary, contours
}
