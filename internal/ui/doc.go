// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The screen is split into three areas:
//  1. Sidebar : the user's playlists ("My Playlists"), filterable with /
//  2. Track table : Title, Artist, Album, and Time for the selected playlist
//  3. [PlaybackBar] : the now-playing label and a progress bar, refreshed every poll interval
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every remote call runs inside a tea.Cmd, so Update never blocks. Poll results go through [tasks.Syncer] before they
// reach the bar, and transport commands are queued and executed one at a time.
//
// Keyboard: space play/pause, n next, p previous, tab switch pane, enter select, r reload, ? help, q quit.
package ui
