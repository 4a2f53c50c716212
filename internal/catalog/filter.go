package catalog

import "github.com/eflixapp/eflix-server/internal/domain"

// Filter returns the videos matching the category selector, preserving
// order and never mutating the input. The "all" sentinel returns the
// input slice unchanged. A video with no category compares as the
// empty string and therefore never matches a real selector.
func Filter(videos []domain.Video, category string) []domain.Video {
	if category == domain.CategoryAll {
		return videos
	}
	out := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}
