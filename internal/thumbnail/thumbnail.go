// Package thumbnail resolves the display image for a catalog video.
package thumbnail

import (
	"regexp"
	"strings"

	"github.com/eflixapp/eflix-server/internal/domain"
)

// Fallback is served when a video carries no usable image source.
const Fallback = "https://placehold.co/300x168/20232a/E50914?text=E-FLIX+THUMBNAIL"

const placeholderDomain = "placehold.co"

var driveFileID = regexp.MustCompile(`/d/([^/]+)/`)

// Resolve picks the thumbnail URL for a video, in order:
// an explicit thumbnail (unless it points at the placeholder service),
// a Google Drive thumbnail derived from the drive link, then Fallback.
// Pure string work; malformed links fall through to the fallback.
func Resolve(v domain.Video) string {
	if v.Thumbnail != "" && !strings.Contains(v.Thumbnail, placeholderDomain) {
		return v.Thumbnail
	}
	if m := driveFileID.FindStringSubmatch(v.DriveLink); m != nil {
		return "https://drive.google.com/thumbnail?id=" + m[1] + "&sz=w300"
	}
	return Fallback
}
