package core

// Playlist is the ordered set of tracks for one hour and weather pair.
type Playlist struct {
	Hour    Hour      `json:"hour"`
	Weather Condition `json:"weather,omitempty"`
	Tracks  []Track   `json:"tracks"`
}

// At returns the track at index i, or nil if out of range.
func (p *Playlist) At(i int) *Track {
	if p == nil || i < 0 || i >= len(p.Tracks) {
		return nil
	}
	return &p.Tracks[i]
}

// Len returns the total number of tracks in the playlist.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}
