package models

import (
	"fmt"
	"time"
)

// LaneCategories is the closed set of categories a lane can carry
var LaneCategories = []string{
	"education",
	"science",
	"music",
	"stories",
	"art",
	"entertainment",
}

// ValidCategory reports whether c is one of the known lane categories
func ValidCategory(c string) bool {
	for _, known := range LaneCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Lane is a named, ordered collection of curated content for one profile
type Lane struct {
	ID        int64
	ProfileID int64
	Name      string
	Category  string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentKind discriminates the lane item payload
type ContentKind string

const (
	KindVideo ContentKind = "video"
	KindLink  ContentKind = "link"
	KindImage ContentKind = "image"
)

// LaneItem is a single content unit within a lane. The payload fields are a
// tagged union: which ones are meaningful depends on Kind.
type LaneItem struct {
	ID          int64
	LaneID      int64
	Kind        ContentKind
	Title       string
	Description string
	Position    int

	// Kind == KindVideo
	VideoID         string
	DurationSeconds int
	Channel         string
	Thumbnail       string

	// Kind == KindLink
	URL string

	// Kind == KindImage
	ImageURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that the payload matches the discriminant
func (i *LaneItem) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("item title is required")
	}
	switch i.Kind {
	case KindVideo:
		if i.VideoID == "" {
			return fmt.Errorf("video item requires a video id")
		}
	case KindLink:
		if i.URL == "" {
			return fmt.Errorf("link item requires a url")
		}
	case KindImage:
		if i.ImageURL == "" {
			return fmt.Errorf("image item requires an image url")
		}
	default:
		return fmt.Errorf("unknown content kind: %q", i.Kind)
	}
	return nil
}

// LaneWithItems bundles a lane with its ordered items
type LaneWithItems struct {
	Lane  Lane
	Items []LaneItem
}
