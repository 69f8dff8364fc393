// Package services implements the HTTP client for the soundboard backend.
//
// # Raw API
//
// [APIService] performs GET, JSON POST, multipart POST and streaming downloads against a base URL and
// returns an [APIResponse] regardless of status code. It only returns an error when the request could not
// be built, sent or read; those errors wrap [shared.ErrTransport]. Bodies are decoded with goccy/go-json.
//
// # Soundboard Client
//
// [SoundboardService] maps each backend endpoint to a typed method and implements [Soundboard]:
//
//	GET  /sounds             ListSounds           folder -> [{display_name, full_path}]
//	POST /play               Play                 {filename}
//	POST /stop, /stopall     Stop, StopAll
//	POST /upload             Upload               multipart file + folder -> {filename}
//	GET  /folders            ListFolders
//	POST /move               Move                 {source_path, target_folder}
//	POST /create-category    CreateCategory       {category_name} -> {status}
//	GET  /empty-categories   ListEmptyCategories
//	POST /remove-categories  RemoveCategories     {categories} -> {removed, failed}, 2xx or 207
//	GET  /audio/<path>       FetchAudio, AudioURL
//
// # Error Handling
//
// Non-2xx responses become a [*RejectionError] carrying the backend's "error" text, which callers show
// verbatim. errors.Is(err, shared.ErrRejected) matches any rejection and errors.Is(err, shared.ErrTransport)
// matches network and decoding failures. Preconditions (empty path, blank category name, nothing selected)
// fail with [shared.ErrValidation] before any request is made. Nothing is retried.
package services
