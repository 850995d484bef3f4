// Package models defines the data types shared by the lightness client.
//
// The package contains two categories of types:
//
// 1. Wire types: records received from the lightness backend
//   - [PlaylistVideo] : one queue entry with its playback [Status]
//   - [Status] : the explicit playback state enumeration
//   - [ColorMode] : how the LED matrix renders the video
//
// 2. Persistent entities: rows stored in the local sqlite database
//   - [HistoryEntry] : one "now playing" observation
//
// [ParseQueue] converts the raw queue array returned by the backend into typed entries, preserving server order.
package models
