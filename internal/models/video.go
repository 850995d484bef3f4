package models

import (
	"encoding/json"
	"fmt"
)

// Status is the playback state of a queue entry.
type Status int

const (
	StatusUnknown Status = iota
	StatusQueued
	StatusPlaying
	StatusDone
	StatusSkipped
	StatusDeleted
)

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "STATUS_QUEUED"
	case StatusPlaying:
		return "STATUS_PLAYING"
	case StatusDone:
		return "STATUS_DONE"
	case StatusSkipped:
		return "STATUS_SKIP"
	case StatusDeleted:
		return "STATUS_DELETED"
	default:
		return "STATUS_UNKNOWN"
	}
}

// ParseStatus maps a wire value to a [Status]. Unrecognised values map to [StatusUnknown].
func ParseStatus(s string) Status {
	switch s {
	case "STATUS_QUEUED":
		return StatusQueued
	case "STATUS_PLAYING":
		return StatusPlaying
	case "STATUS_DONE":
		return StatusDone
	case "STATUS_SKIP":
		return StatusSkipped
	case "STATUS_DELETED":
		return StatusDeleted
	default:
		return StatusUnknown
	}
}

// IsPlaying reports whether the entry is the one currently on screen.
func (s Status) IsPlaying() bool { return s == StatusPlaying }

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// ColorMode controls how the player renders a video on the LED matrix.
type ColorMode string

const (
	ColorModeColor       ColorMode = "color"
	ColorModeBW          ColorMode = "bw"
	ColorModeRed         ColorMode = "red"
	ColorModeGreen       ColorMode = "green"
	ColorModeBlue        ColorMode = "blue"
	ColorModeInvertColor ColorMode = "inv_color"
	ColorModeInvertBW    ColorMode = "inv_bw"
)

// ParseColorMode returns the matching [ColorMode], falling back to [ColorModeColor].
func ParseColorMode(s string) ColorMode {
	switch m := ColorMode(s); m {
	case ColorModeColor, ColorModeBW, ColorModeRed, ColorModeGreen, ColorModeBlue,
		ColorModeInvertColor, ColorModeInvertBW:
		return m
	default:
		return ColorModeColor
	}
}

// PlaylistVideo is a single entry of the backend queue.
//
// Identity is [PlaylistVideo.ID]; two entries with the same ID are the same queue slot even if other fields changed.
type PlaylistVideo struct {
	ID        int64     `json:"playlist_video_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Duration  int       `json:"duration,omitempty"` // Duration in seconds
	ColorMode ColorMode `json:"color_mode,omitempty"`
	Status    Status    `json:"status"`
}

// IsPlaying reports whether v is the entry currently playing.
func (v PlaylistVideo) IsPlaying() bool { return v.Status.IsPlaying() }

// ParseVideo decodes a single raw queue record.
func ParseVideo(raw json.RawMessage) (PlaylistVideo, error) {
	var v PlaylistVideo
	if err := json.Unmarshal(raw, &v); err != nil {
		return PlaylistVideo{}, fmt.Errorf("failed to decode playlist video: %w", err)
	}
	if v.ID == 0 {
		return PlaylistVideo{}, fmt.Errorf("playlist video missing playlist_video_id")
	}
	v.ColorMode = ParseColorMode(string(v.ColorMode))
	return v, nil
}

// ParseQueue converts the raw queue array into typed entries in server order.
//
// A single malformed record fails the whole queue.
func ParseQueue(raw []json.RawMessage) ([]PlaylistVideo, error) {
	videos := make([]PlaylistVideo, 0, len(raw))
	for i, r := range raw {
		v, err := ParseVideo(r)
		if err != nil {
			return nil, fmt.Errorf("queue record %d: %w", i, err)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// FindPlaying returns the first playing entry of videos, or nil.
func FindPlaying(videos []PlaylistVideo) *PlaylistVideo {
	for i := range videos {
		if videos[i].IsPlaying() {
			v := videos[i]
			return &v
		}
	}
	return nil
}

// FilterQueued returns every entry that is not playing, keeping order.
func FilterQueued(videos []PlaylistVideo) []PlaylistVideo {
	queued := make([]PlaylistVideo, 0, len(videos))
	for _, v := range videos {
		if !v.IsPlaying() {
			queued = append(queued, v)
		}
	}
	return queued
}

// EqualVideos reports whether a and b hold the same entries in the same order.
func EqualVideos(a, b []PlaylistVideo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
