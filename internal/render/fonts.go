package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Faces come from the embedded Go fonts rather than a filesystem path so
// rendering stays byte-deterministic across deployments.
type faceSet struct {
	title    font.Face
	heading  font.Face
	body     font.Face
	bodyBold font.Face
	small    font.Face
}

func newFaceSet() (*faceSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}

	return &faceSet{
		title:    face(bold, 38),
		heading:  face(bold, 26),
		body:     face(regular, 21),
		bodyBold: face(bold, 21),
		small:    face(regular, 17),
	}, nil
}
