// Package audio plays sounds on the local machine and keeps a local copy of backend audio files.
//
// # Local Playback
//
// [ExecPlayer] implements [Player]. It resolves a sound path to a local file, either from the [Cache]
// or by downloading /audio/<path> into a temporary file, then starts an external player process
// (afplay, ffplay, PowerShell or a configured command, see [shared.PlayerArgs]). Play returns once the
// process has started; the temporary file is removed when the process exits or fails to start.
// Playback is best effort: callers log errors and carry on.
//
// # Cache
//
// [Cache] mirrors backend audio under a local directory using the sound's full path as the relative
// file path. [Cache.Register] prefetches a catalog in the background through a rate limiter. Failures are
// logged and never surface to the caller.
package audio
