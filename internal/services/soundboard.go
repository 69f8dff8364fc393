package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
)

var _ Soundboard = (*SoundboardService)(nil)

// RejectionError is a non-2xx backend response.
//
// Message is the backend's "error" field when present, otherwise the raw body or the status text.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s (%d): %s", shared.ErrRejected, e.Status, e.Message)
}

// Is makes errors.Is(err, shared.ErrRejected) hold for every rejection.
func (e *RejectionError) Is(target error) bool {
	return target == shared.ErrRejected
}

// SoundboardService is the typed client for the soundboard backend, built on [APIService].
type SoundboardService struct {
	api *APIService
}

// NewSoundboardService creates a client for the backend at baseURL.
func NewSoundboardService(baseURL string, client *http.Client) *SoundboardService {
	return &SoundboardService{api: NewAPIService(baseURL, client)}
}

// ListSounds fetches the folder to sounds mapping.
func (s *SoundboardService) ListSounds(ctx context.Context) (models.Catalog, error) {
	resp, err := s.api.Get(ctx, "/sounds")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejection(resp)
	}

	catalog := models.Catalog{}
	if err := resp.Decode(&catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Play asks the backend to play path on its own audio device and returns the backend status.
func (s *SoundboardService) Play(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: sound path is required", shared.ErrValidation)
	}
	resp, err := s.api.PostJSON(ctx, "/play", map[string]string{"filename": path})
	if err != nil {
		return "", err
	}
	return statusOf(resp)
}

// Stop stops the most recent remote playback.
func (s *SoundboardService) Stop(ctx context.Context) (string, error) {
	resp, err := s.api.Post(ctx, "/stop", nil)
	if err != nil {
		return "", err
	}
	return statusOf(resp)
}

// StopAll stops every remote playback.
func (s *SoundboardService) StopAll(ctx context.Context) (string, error) {
	resp, err := s.api.Post(ctx, "/stopall", nil)
	if err != nil {
		return "", err
	}
	return statusOf(resp)
}

// Upload sends the content of r as filename into folder and returns the name the backend stored it under,
// which differs from filename when the backend had to avoid a collision.
func (s *SoundboardService) Upload(ctx context.Context, filename string, r io.Reader, folder string) (string, error) {
	if strings.TrimSpace(filename) == "" || r == nil {
		return "", fmt.Errorf("%w: no file selected", shared.ErrValidation)
	}
	if folder == "" {
		folder = models.MainFolder
	}

	resp, err := s.api.PostMultipart(ctx, "/upload", map[string]string{"folder": folder}, "file", filename, r)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", rejection(resp)
	}

	var body struct {
		Filename string `json:"filename"`
	}
	if err := resp.Decode(&body); err != nil {
		return "", err
	}
	return body.Filename, nil
}

// ListFolders fetches the destination folders for upload and move.
func (s *SoundboardService) ListFolders(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, "/folders")
}

// Move relocates the sound at source into folder.
func (s *SoundboardService) Move(ctx context.Context, source, folder string) error {
	if source == "" || folder == "" {
		return fmt.Errorf("%w: source path and target folder are required", shared.ErrValidation)
	}

	resp, err := s.api.PostJSON(ctx, "/move", map[string]string{
		"source_path":   source,
		"target_folder": folder,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return rejection(resp)
	}
	return nil
}

// CreateCategory creates an empty folder and returns the backend's status message.
func (s *SoundboardService) CreateCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}

	resp, err := s.api.PostJSON(ctx, "/create-category", map[string]string{"category_name": name})
	if err != nil {
		return "", err
	}
	return statusOf(resp)
}

// ListEmptyCategories fetches the folders that hold no sounds.
func (s *SoundboardService) ListEmptyCategories(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, "/empty-categories")
}

// RemoveCategories deletes the named empty folders.
//
// 2xx and 207 Multi-Status responses both decode to a [models.RemoveResult]; the caller decides
// between success, partial success and failure with [models.RemoveResult.Outcome].
func (s *SoundboardService) RemoveCategories(ctx context.Context, names []string) (*models.RemoveResult, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: select at least one category", shared.ErrValidation)
	}

	resp, err := s.api.PostJSON(ctx, "/remove-categories", map[string][]string{"categories": names})
	if err != nil {
		return nil, err
	}
	if !resp.OK() && resp.StatusCode != http.StatusMultiStatus {
		return nil, rejection(resp)
	}

	var result models.RemoveResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchAudio streams the audio file at path into w.
func (s *SoundboardService) FetchAudio(ctx context.Context, path string, w io.Writer) error {
	status, err := s.api.Download(ctx, AudioPath(path), w)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &RejectionError{Status: status, Message: http.StatusText(status)}
	}
	return nil
}

// AudioURL returns the absolute URL the backend serves path from.
func (s *SoundboardService) AudioURL(path string) string {
	return s.api.BaseURL() + AudioPath(path)
}

// AudioPath escapes each segment of a sound path under /audio/.
func AudioPath(path string) string {
	segments := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/audio/" + strings.Join(segments, "/")
}

func (s *SoundboardService) listNames(ctx context.Context, path string) ([]string, error) {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejection(resp)
	}

	names := []string{}
	if err := resp.Decode(&names); err != nil {
		return nil, err
	}
	return names, nil
}

// statusOf returns the "status" field of a 2xx response, or a [RejectionError].
func statusOf(resp *APIResponse) (string, error) {
	if !resp.OK() {
		return "", rejection(resp)
	}
	if m, ok := resp.JSONData.(map[string]any); ok {
		if status, ok := m["status"].(string); ok {
			return status, nil
		}
	}
	return "", nil
}

func rejection(resp *APIResponse) *RejectionError {
	if m, ok := resp.JSONData.(map[string]any); ok {
		if msg, ok := m["error"].(string); ok && msg != "" {
			return &RejectionError{Status: resp.StatusCode, Message: msg}
		}
	}
	if body := strings.TrimSpace(string(resp.Body)); body != "" {
		return &RejectionError{Status: resp.StatusCode, Message: body}
	}
	return &RejectionError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
