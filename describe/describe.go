// Package describe turns an annotation bundle into the stored
// human-readable description.
//
// The output format is frozen: stored descriptions must keep the same
// shape across releases, so section order, truncation counts and
// prefixes here must not change.
package describe

import (
	"fmt"
	"math"
	"strings"

	"imagelens/image-api/vision"
)

const (
	maxLabels   = 5
	maxColors   = 3
	maxEntities = 3
	maxObjects  = 5
)

// Compose builds the multi-line description for one annotation bundle.
// Deterministic. The summary line is always present, every other
// section appears only when its source data is non-empty
func Compose(a *vision.Annotation) string {
	var lines []string

	lines = append(lines, "This image contains: "+strings.Join(truncate(a.Labels, maxLabels), ", "))

	if len(a.Colors) > 0 {
		parts := make([]string, 0, maxColors)
		for _, c := range truncate(a.Colors, maxColors) {
			parts = append(parts, fmt.Sprintf("rgb(%d,%d,%d)",
				int(math.Round(c.Red)), int(math.Round(c.Green)), int(math.Round(c.Blue))))
		}
		lines = append(lines, "Dominant colors: "+strings.Join(parts, ", "))
	}

	if a.SafeSearch != nil {
		if advisory := composeAdvisory(a.SafeSearch); advisory != "" {
			lines = append(lines, "Content advisory: "+advisory)
		}
	}

	if len(a.WebEntities) > 0 {
		lines = append(lines, "Related to: "+strings.Join(truncate(a.WebEntities, maxEntities), ", "))
	}

	if len(a.Objects) > 0 {
		lines = append(lines, "Objects detected: "+strings.Join(truncate(a.Objects, maxObjects), ", "))
	}

	if n := len(a.Faces); n > 0 {
		if n == 1 {
			lines = append(lines, "Detected 1 face")
		} else {
			lines = append(lines, fmt.Sprintf("Detected %d faces", n))
		}

		if emotions := composeEmotions(a.Faces); len(emotions) > 0 {
			lines = append(lines, "Emotions detected: "+strings.Join(emotions, ", "))
		}
	}

	return strings.Join(lines, "\n")
}

// composeAdvisory lists safe-search attributes stricter than
// "unlikely". Attribute order is fixed
func composeAdvisory(s *vision.SafeSearch) string {
	attrs := []struct {
		name string
		l    vision.Likelihood
	}{
		{"adult", s.Adult},
		{"spoof", s.Spoof},
		{"medical", s.Medical},
		{"violence", s.Violence},
		{"racy", s.Racy},
	}

	var parts []string
	for _, a := range attrs {
		if a.l > vision.Unlikely {
			parts = append(parts, a.name+": "+a.l.String())
		}
	}

	return strings.Join(parts, ", ")
}

// composeEmotions collects emotions at or above "likely" across all
// faces, deduplicated, in a fixed order
func composeEmotions(faces []vision.Face) []string {
	var joy, sorrow, anger, surprise bool

	for _, f := range faces {
		joy = joy || f.Joy >= vision.Likely
		sorrow = sorrow || f.Sorrow >= vision.Likely
		anger = anger || f.Anger >= vision.Likely
		surprise = surprise || f.Surprise >= vision.Likely
	}

	var out []string
	if joy {
		out = append(out, "joy")
	}
	if sorrow {
		out = append(out, "sorrow")
	}
	if anger {
		out = append(out, "anger")
	}
	if surprise {
		out = append(out, "surprise")
	}

	return out
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
