// Package models defines the domain values shared by the services, tasks, and ui packages.
//
//   - [Playlist] : playlist metadata from the user's library
//   - [Track] : an addressable song within a playlist
//   - [PlaybackSnapshot] : one point-in-time read of remote playback state
//   - [Device] : a Spotify Connect device that can receive playback commands
//
// All values are immutable once fetched. Collections are replaced wholesale on refetch and snapshots are never merged.
package models
