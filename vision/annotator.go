// Package vision talks to the remote image-annotation service and
// exposes its results as plain domain types
package vision

import "context"

// Annotator is the boundary the upload workflow depends on. The real
// implementation is the Google client, tests swap in fakes
type Annotator interface {
	Annotate(ctx context.Context, image []byte) (*Annotation, error)
}

// Likelihood mirrors the annotation service's verdict scale. The zero
// value means the service gave no verdict
type Likelihood int32

const (
	Unknown Likelihood = iota
	VeryUnlikely
	Unlikely
	Possible
	Likely
	VeryLikely
)

func (l Likelihood) String() string {
	switch l {
	case VeryUnlikely:
		return "very unlikely"
	case Unlikely:
		return "unlikely"
	case Possible:
		return "possible"
	case Likely:
		return "likely"
	case VeryLikely:
		return "very likely"
	default:
		return "unknown"
	}
}

type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

type SafeSearch struct {
	Adult    Likelihood
	Spoof    Likelihood
	Medical  Likelihood
	Violence Likelihood
	Racy     Likelihood
}

// Face carries only the emotion verdicts, which is all the composer
// reports about faces
type Face struct {
	Joy      Likelihood
	Sorrow   Likelihood
	Anger    Likelihood
	Surprise Likelihood
}

// Annotation is the full bundle returned for one image. Slices keep
// the service's own ordering, the composer relies on that
type Annotation struct {
	Labels      []string
	Colors      []Color
	SafeSearch  *SafeSearch
	WebEntities []string
	Objects     []string
	Faces       []Face
}
