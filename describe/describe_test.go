package describe

import (
	"strings"
	"testing"

	"imagelens/image-api/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeLabelTruncation(t *testing.T) {
	a := &vision.Annotation{
		Labels: []string{"cat", "animal", "pet", "indoor", "whiskers", "fur"},
	}

	got := Compose(a)
	assert.Equal(t, "This image contains: cat, animal, pet, indoor, whiskers", got)
}

func TestComposeFewerLabelsThanLimit(t *testing.T) {
	a := &vision.Annotation{Labels: []string{"dog", "grass"}}

	assert.Equal(t, "This image contains: dog, grass", Compose(a))
}

func TestComposeColors(t *testing.T) {
	a := &vision.Annotation{
		Labels: []string{"sky"},
		Colors: []vision.Color{
			{Red: 12.4, Green: 200.6, Blue: 0},
			{Red: 255, Green: 255, Blue: 255},
			{Red: 1, Green: 2, Blue: 3},
			{Red: 9, Green: 9, Blue: 9},
		},
	}

	got := Compose(a)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)

	// Channel values round to integers, only the first three colors
	// make the cut
	assert.Equal(t, "Dominant colors: rgb(12,201,0), rgb(255,255,255), rgb(1,2,3)", lines[1])
}

func TestComposeAdvisory(t *testing.T) {
	a := &vision.Annotation{
		Labels: []string{"crowd"},
		SafeSearch: &vision.SafeSearch{
			Adult:    vision.Unlikely,
			Spoof:    vision.VeryUnlikely,
			Medical:  vision.Unknown,
			Violence: vision.Likely,
			Racy:     vision.Possible,
		},
	}

	got := Compose(a)
	assert.Contains(t, got, "Content advisory: violence: likely, racy: possible")
	assert.NotContains(t, got, "adult")
	assert.NotContains(t, got, "spoof")
	assert.NotContains(t, got, "medical")
}

func TestComposeAdvisoryOmittedWhenNothingQualifies(t *testing.T) {
	a := &vision.Annotation{
		Labels: []string{"beach"},
		SafeSearch: &vision.SafeSearch{
			Adult:    vision.Unlikely,
			Spoof:    vision.Unlikely,
			Medical:  vision.VeryUnlikely,
			Violence: vision.VeryUnlikely,
			Racy:     vision.Unlikely,
		},
	}

	assert.Equal(t, "This image contains: beach", Compose(a))
}

func TestComposeWebEntitiesAndObjects(t *testing.T) {
	a := &vision.Annotation{
		Labels:      []string{"bike"},
		WebEntities: []string{"Bicycle", "Cycling", "Mountain bike", "Tour de France"},
		Objects:     []string{"Bicycle", "Wheel", "Helmet", "Person", "Bottle", "Glove"},
	}

	got := Compose(a)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Related to: Bicycle, Cycling, Mountain bike", lines[1])
	assert.Equal(t, "Objects detected: Bicycle, Wheel, Helmet, Person, Bottle", lines[2])
}

func TestComposeFaces(t *testing.T) {
	tests := []struct {
		name  string
		faces []vision.Face
		want  []string
	}{
		{
			name:  "single face",
			faces: []vision.Face{{Joy: vision.VeryLikely}},
			want:  []string{"Detected 1 face", "Emotions detected: joy"},
		},
		{
			name: "plural with deduped emotions",
			faces: []vision.Face{
				{Joy: vision.Likely, Surprise: vision.Likely},
				{Joy: vision.VeryLikely, Sorrow: vision.Possible},
			},
			want: []string{"Detected 2 faces", "Emotions detected: joy, surprise"},
		},
		{
			name:  "no qualifying emotions",
			faces: []vision.Face{{Joy: vision.Possible}},
			want:  []string{"Detected 1 face"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &vision.Annotation{Labels: []string{"person"}, Faces: tt.faces}

			lines := strings.Split(Compose(a), "\n")
			require.Len(t, lines, 1+len(tt.want))
			assert.Equal(t, tt.want, lines[1:])
		})
	}
}

func TestComposeSectionOrder(t *testing.T) {
	a := &vision.Annotation{
		Labels:      []string{"cat"},
		Colors:      []vision.Color{{Red: 1, Green: 2, Blue: 3}},
		SafeSearch:  &vision.SafeSearch{Violence: vision.Likely},
		WebEntities: []string{"Felidae"},
		Objects:     []string{"Cat"},
		Faces:       []vision.Face{{Joy: vision.Likely}},
	}

	want := strings.Join([]string{
		"This image contains: cat",
		"Dominant colors: rgb(1,2,3)",
		"Content advisory: violence: likely",
		"Related to: Felidae",
		"Objects detected: Cat",
		"Detected 1 face",
		"Emotions detected: joy",
	}, "\n")

	assert.Equal(t, want, Compose(a))
}

func TestComposeDeterministic(t *testing.T) {
	a := &vision.Annotation{
		Labels:     []string{"cat", "animal"},
		Colors:     []vision.Color{{Red: 100.5, Green: 0, Blue: 30}},
		SafeSearch: &vision.SafeSearch{Racy: vision.Possible},
	}

	first := Compose(a)
	for range 10 {
		assert.Equal(t, first, Compose(a))
	}
}

func TestComposeEmptyBundle(t *testing.T) {
	// The summary line survives even a completely empty bundle,
	// stored descriptions are never empty
	assert.Equal(t, "This image contains: ", Compose(&vision.Annotation{}))
}

func TestComposeNoLabelsKeepsSummaryFirst(t *testing.T) {
	a := &vision.Annotation{
		Colors: []vision.Color{{Red: 1, Green: 2, Blue: 3}},
	}

	got := Compose(a)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "This image contains: ", lines[0])
	assert.Equal(t, "Dominant colors: rgb(1,2,3)", lines[1])
}
