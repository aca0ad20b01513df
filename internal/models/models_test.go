package models

import (
	"testing"
	"time"
)

func TestLaneItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    LaneItem
		wantErr bool
	}{
		{
			name:    "valid video item",
			item:    LaneItem{Kind: KindVideo, Title: "Volcanoes for Kids", VideoID: "dQw4w9WgXcQ"},
			wantErr: false,
		},
		{
			name:    "video item missing video id",
			item:    LaneItem{Kind: KindVideo, Title: "Volcanoes for Kids"},
			wantErr: true,
		},
		{
			name:    "valid link item",
			item:    LaneItem{Kind: KindLink, Title: "NASA Kids Club", URL: "https://www.nasa.gov/kidsclub"},
			wantErr: false,
		},
		{
			name:    "link item missing url",
			item:    LaneItem{Kind: KindLink, Title: "NASA Kids Club"},
			wantErr: true,
		},
		{
			name:    "valid image item",
			item:    LaneItem{Kind: KindImage, Title: "Solar System Poster", ImageURL: "https://example.com/solar.png"},
			wantErr: false,
		},
		{
			name:    "image item missing image url",
			item:    LaneItem{Kind: KindImage, Title: "Solar System Poster"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			item:    LaneItem{Kind: "podcast", Title: "Some Show"},
			wantErr: true,
		},
		{
			name:    "missing title",
			item:    LaneItem{Kind: KindVideo, VideoID: "dQw4w9WgXcQ"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range LaneCategories {
		if !ValidCategory(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	if ValidCategory("gambling") {
		t.Error("unknown category should not be valid")
	}
	if ValidCategory("") {
		t.Error("empty category should not be valid")
	}
}

func TestValidAgeBracket(t *testing.T) {
	for _, b := range []AgeBracket{AgePreschool, AgeEarly, AgeMiddle, AgePreteen} {
		if !ValidAgeBracket(b) {
			t.Errorf("bracket %q should be valid", b)
		}
		if b.AgeRange() == "" {
			t.Errorf("bracket %q should have an age range", b)
		}
	}
	if ValidAgeBracket("adult") {
		t.Error("unknown bracket should not be valid")
	}
}

func TestSessionIsExpired(t *testing.T) {
	active := Session{ID: "a", ExpiresAt: time.Now().Add(time.Hour)}
	if active.IsExpired() {
		t.Error("session expiring in an hour should not be expired")
	}

	expired := Session{ID: "b", ExpiresAt: time.Now().Add(-time.Minute)}
	if !expired.IsExpired() {
		t.Error("session expired a minute ago should be expired")
	}
}
