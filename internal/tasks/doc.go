// Package tasks runs the multi-file operations of the CLI with real-time progress reporting.
//
// # Bulk Upload
//
// [UploadEngine.BulkUpload] expands directories, keeps only audio files the backend accepts
// (.wav .mp3 .ogg .flac .aac .m4a) and uploads them with a worker pool behind a token-bucket rate limiter.
// Per-file failures are collected in [BulkUploadResult]; the run only fails on setup errors or cancellation.
//
// # Watch
//
// [Watcher] follows a directory tree with fsnotify and uploads audio files once they have stopped changing
// for the settle period. A file is uploaded again only when its modification time moves forward.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends never block: when the channel
// is full or nil the update is dropped.
package tasks
