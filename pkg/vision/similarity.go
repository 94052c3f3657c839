package vision

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ORBComparator compares snapshots by matching ORB keypoint descriptors.
//
// Descriptors are matched brute-force under the Hamming norm with
// cross-checking, so a correspondence counts only when each descriptor is
// the other's best match in both directions. Two snapshots are similar when
// more than MinGoodMatches correspondences land under MatchDistance.
// Deterministic for a given pair of images; no state survives a call.
type ORBComparator struct {
	// MatchDistance is the maximum Hamming distance for a good match.
	MatchDistance float64
	// MinGoodMatches is the number of good matches a pair must exceed.
	MinGoodMatches int

	orb     gocv.ORB
	matcher gocv.BFMatcher
	mu      sync.Mutex // Protects the shared ORB/matcher handles
}

// NewORBComparator creates a comparator with the given thresholds and
// per-image keypoint limit.
func NewORBComparator(matchDistance float64, minGoodMatches, features int) *ORBComparator {
	return &ORBComparator{
		MatchDistance:  matchDistance,
		MinGoodMatches: minGoodMatches,
		orb: gocv.NewORBWithParams(
			features,
			1.2,                     // Scale factor between pyramid levels
			8,                       // Pyramid levels
			31,                      // Edge threshold
			0,                       // First level
			2,                       // WTA_K
			gocv.ORBScoreTypeHarris, // Keypoint score
			31,                      // Patch size
			20,                      // FAST threshold
		),
		matcher: gocv.NewBFMatcherWithParams(gocv.NormHamming, true),
	}
}

// Similar reports whether the two snapshots depict the same place.
// A snapshot that yields no descriptors (blank frame) never matches.
func (c *ORBComparator) Similar(a, b *Snapshot) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	desA, err := c.describe(a)
	if err != nil {
		return false, err
	}
	defer desA.Close()

	desB, err := c.describe(b)
	if err != nil {
		return false, err
	}
	defer desB.Close()

	if desA.Empty() || desB.Empty() {
		return false, nil
	}

	matches := c.matcher.Match(desA, desB)

	good := 0
	for _, m := range matches {
		if m.Distance < c.MatchDistance {
			good++
		}
	}
	return good > c.MinGoodMatches, nil
}

// describe decodes a snapshot to grayscale and extracts its ORB
// descriptors. The returned Mat is owned by the caller.
func (c *ORBComparator) describe(s *Snapshot) (gocv.Mat, error) {
	img, err := gocv.IMDecode(s.JPEG, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
	}
	defer img.Close()

	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("decode snapshot %s: empty image", s.ID)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	mask := gocv.NewMat()
	defer mask.Close()

	_, descriptors := c.orb.DetectAndCompute(gray, mask)
	return descriptors, nil
}

// Close releases the OpenCV handles.
func (c *ORBComparator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orb.Close()
	return c.matcher.Close()
}
