// Package tasks keeps the displayed playback state in step with the remote player and issues transport commands.
//
// # Sync Loop
//
// [Syncer] polls [services.Player.CurrentPlayback] on a fixed interval (1s by default):
//
//  1. [Syncer.Start] reserves a sequence number and a per-poll timeout. A poll already in flight makes a regular
//     start a no-op; a forced start (the refresh after a command) cancels it.
//  2. [Syncer.Fetch] performs the read. It can run on any goroutine.
//  3. [Syncer.Accept] decides whether the result replaces the display: only successful results newer than the
//     last applied one do. Failures are logged at debug level and otherwise ignored until the next tick.
//
// The TUI drives the three steps through tea.Cmd values. Other callers use [Syncer.Run].
//
// # Transport Controls
//
// [Controls] sends exactly one command per call. Toggle reads the state once and then pauses or resumes.
// Errors are always returned so the caller can show them; the TUI queues [Command] values and runs them one at a time.
package tasks
