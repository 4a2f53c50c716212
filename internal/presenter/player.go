// Package presenter models the client-facing presentation state: the
// video detail/player view and the collection browser. Presenters hold
// no locks of their own; the application controller serializes access.
package presenter

import "github.com/eflixapp/eflix-server/internal/domain"

// PlayerState enumerates the detail/player view states.
type PlayerState string

// Player states. Opening a video always lands on detail; playback is
// an explicit second step.
const (
	PlayerClosed  PlayerState = "closed"
	PlayerDetail  PlayerState = "detail"
	PlayerPlaying PlayerState = "playing"
)

// RecordHistory is the side-effect command emitted when playback
// starts. The caller issues the history write; the transition itself
// never blocks on it and a failed write does not stop playback.
type RecordHistory struct {
	Video domain.Video
}

// Player presents one video's detail view and playback state.
type Player struct {
	state PlayerState
	video domain.Video
}

// NewPlayer creates a closed player.
func NewPlayer() *Player {
	return &Player{state: PlayerClosed}
}

// Open shows the detail view for a video. Opening always resets to
// detail-not-playing, including mid-playback of another video.
func (p *Player) Open(v domain.Video) {
	p.state = PlayerDetail
	p.video = v
}

// Close dismisses the detail view.
func (p *Player) Close() {
	p.state = PlayerClosed
	p.video = domain.Video{}
}

// Play starts playback of the open video and returns the single
// RecordHistory command for this transition. Returns nil when nothing
// is open or playback is already running.
func (p *Player) Play() *RecordHistory {
	if p.state != PlayerDetail {
		return nil
	}
	p.state = PlayerPlaying
	return &RecordHistory{Video: p.video}
}

// State returns the current view state.
func (p *Player) State() PlayerState {
	return p.state
}

// Video returns the currently open video. Only meaningful while the
// player is not closed.
func (p *Player) Video() domain.Video {
	return p.video
}
