package thumbnail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eflixapp/eflix-server/internal/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		video domain.Video
		want  string
	}{
		{
			name:  "explicit thumbnail wins",
			video: domain.Video{Thumbnail: "https://cdn.example.com/t.jpg", DriveLink: "https://drive.google.com/file/d/abc123/view"},
			want:  "https://cdn.example.com/t.jpg",
		},
		{
			name:  "placeholder thumbnail is skipped in favor of drive link",
			video: domain.Video{Thumbnail: "https://placehold.co/300x168", DriveLink: "https://drive.google.com/file/d/abc123/view"},
			want:  "https://drive.google.com/thumbnail?id=abc123&sz=w300",
		},
		{
			name:  "drive link derivation",
			video: domain.Video{DriveLink: "https://drive.google.com/file/d/1XyZ_-9/view?usp=sharing"},
			want:  "https://drive.google.com/thumbnail?id=1XyZ_-9&sz=w300",
		},
		{
			name:  "drive link without file segment falls back",
			video: domain.Video{DriveLink: "https://drive.google.com/open?id=abc123"},
			want:  Fallback,
		},
		{
			name:  "empty video falls back",
			video: domain.Video{},
			want:  Fallback,
		},
		{
			name:  "placeholder thumbnail with no drive link falls back",
			video: domain.Video{Thumbnail: "https://placehold.co/300x168"},
			want:  Fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.video))
		})
	}
}
