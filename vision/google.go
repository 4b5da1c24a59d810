package vision

import (
	"context"
	"errors"
	"fmt"
	"time"

	apiv1 "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

const (
	maxLabels  = 10
	maxObjects = 10
	maxFaces   = 10
)

// GoogleAnnotator sends images to the Cloud Vision API. Safe for
// concurrent use, the underlying client multiplexes its own
// connections
type GoogleAnnotator struct {
	client  *apiv1.ImageAnnotatorClient
	timeout time.Duration
}

func NewGoogle(ctx context.Context) (*GoogleAnnotator, error) {
	var opts []option.ClientOption

	if creds := viper.GetString("vision.credentials_file"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := apiv1.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client, %w", err)
	}

	return &GoogleAnnotator{
		client:  client,
		timeout: time.Duration(viper.GetInt("vision.timeout_seconds")) * time.Second,
	}, nil
}

func (g *GoogleAnnotator) Close() error {
	return g.client.Close()
}

func (g *GoogleAnnotator) Annotate(ctx context.Context, image []byte) (*Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// The generated client only speaks batches, so the single image
	// goes in as a batch of one
	batch, err := g.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxLabels},
				{Type: visionpb.Feature_IMAGE_PROPERTIES},
				{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
				{Type: visionpb.Feature_WEB_DETECTION},
				{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: maxObjects},
				{Type: visionpb.Feature_FACE_DETECTION, MaxResults: maxFaces},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("vision request failed, %w", err)
	}

	responses := batch.GetResponses()
	if len(responses) != 1 {
		return nil, fmt.Errorf("vision service returned %d responses for one image", len(responses))
	}

	res := responses[0]
	if e := res.GetError(); e != nil {
		return nil, errors.New("vision service error: " + e.GetMessage())
	}

	return fromProto(res), nil
}

func fromProto(res *visionpb.AnnotateImageResponse) *Annotation {
	a := &Annotation{}

	for _, l := range res.GetLabelAnnotations() {
		a.Labels = append(a.Labels, l.GetDescription())
	}

	for _, c := range res.GetImagePropertiesAnnotation().GetDominantColors().GetColors() {
		a.Colors = append(a.Colors, Color{
			Red:   float64(c.GetColor().GetRed()),
			Green: float64(c.GetColor().GetGreen()),
			Blue:  float64(c.GetColor().GetBlue()),
		})
	}

	if s := res.GetSafeSearchAnnotation(); s != nil {
		a.SafeSearch = &SafeSearch{
			Adult:    Likelihood(s.GetAdult()),
			Spoof:    Likelihood(s.GetSpoof()),
			Medical:  Likelihood(s.GetMedical()),
			Violence: Likelihood(s.GetViolence()),
			Racy:     Likelihood(s.GetRacy()),
		}
	}

	for _, e := range res.GetWebDetection().GetWebEntities() {
		// Some entities come back with scores but no description,
		// those are useless for a textual summary
		if e.GetDescription() == "" {
			continue
		}
		a.WebEntities = append(a.WebEntities, e.GetDescription())
	}

	for _, o := range res.GetLocalizedObjectAnnotations() {
		a.Objects = append(a.Objects, o.GetName())
	}

	for _, f := range res.GetFaceAnnotations() {
		a.Faces = append(a.Faces, Face{
			Joy:      Likelihood(f.GetJoyLikelihood()),
			Sorrow:   Likelihood(f.GetSorrowLikelihood()),
			Anger:    Likelihood(f.GetAngerLikelihood()),
			Surprise: Likelihood(f.GetSurpriseLikelihood()),
		})
	}

	return a
}
