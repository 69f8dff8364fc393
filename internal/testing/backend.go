package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/server"
	"github.com/goccy/go-json"
)

// Upload is a file received by [FakeBackend] on POST /upload.
type Upload struct {
	Folder   string
	Filename string
	Content  []byte
}

// FakeBackend is an in-memory soundboard backend served by [httptest.Server].
//
// Default handlers mutate Sounds, Folders and EmptyCategories the way the real backend mutates its
// sound directory. Any route can be replaced with [FakeBackend.On].
type FakeBackend struct {
	mu sync.Mutex

	Sounds          models.Catalog
	Folders         []string
	EmptyCategories []string
	Audio           map[string][]byte

	requests  []server.RecordedRequest
	uploads   []Upload
	overrides map[string]http.HandlerFunc
	server    *httptest.Server
	logs      lockedBuffer
}

// lockedBuffer is written from server goroutines and read from the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewFakeBackend starts a backend seeded with a Main and an SFX sound and closes it on test cleanup.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		Sounds: models.Catalog{
			"Main": {{DisplayName: "Boo", FullPath: "Boo.wav"}},
			"SFX":  {{DisplayName: "Pop", FullPath: "SFX/Pop.wav"}},
		},
		Folders:   []string{"Main", "SFX"},
		Audio:     map[string][]byte{"Boo.wav": []byte("RIFFboo"), "SFX/Pop.wav": []byte("RIFFpop")},
		overrides: make(map[string]http.HandlerFunc),
	}

	logger := log.New(&f.logs)
	logger.SetLevel(log.WarnLevel)

	r := server.NewBasicRouter()
	r.Use(server.RequestLogger(logger), server.Recorder(f.record))

	routes := []struct {
		method, path string
		fn           http.HandlerFunc
	}{
		{http.MethodGet, "/sounds", f.listSounds},
		{http.MethodPost, "/play", f.play},
		{http.MethodPost, "/stop", f.status("Playback stopped")},
		{http.MethodPost, "/stopall", f.status("All playback stopped")},
		{http.MethodPost, "/upload", f.upload},
		{http.MethodGet, "/folders", f.listFolders},
		{http.MethodPost, "/move", f.move},
		{http.MethodPost, "/create-category", f.createCategory},
		{http.MethodGet, "/empty-categories", f.listEmptyCategories},
		{http.MethodPost, "/remove-categories", f.removeCategories},
		{http.MethodGet, "/audio/", f.audio},
	}
	for _, route := range routes {
		r.HandleFunc(route.method, route.path, f.overridable(route.method, route.path, route.fn))
	}

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the backend.
func (f *FakeBackend) URL() string { return f.server.URL }

// Client returns an HTTP client wired to the backend.
func (f *FakeBackend) Client() *http.Client { return f.server.Client() }

// On replaces the handler for method and path.
func (f *FakeBackend) On(method, path string, fn http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[method+" "+path] = fn
}

// Log returns the request log. Only requests answered with a non-2xx status are logged.
func (f *FakeBackend) Log() string { return f.logs.String() }

// Requests returns every request received so far.
func (f *FakeBackend) Requests() []server.RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// Calls returns the requests received for method and path.
func (f *FakeBackend) Calls(method, path string) []server.RecordedRequest {
	var out []server.RecordedRequest
	for _, req := range f.Requests() {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Uploads returns the files received on POST /upload.
func (f *FakeBackend) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.uploads)
}

// Catalog returns a copy of the current sounds.
func (f *FakeBackend) Catalog() models.Catalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(models.Catalog, len(f.Sounds))
	for k, v := range f.Sounds {
		out[k] = slices.Clone(v)
	}
	return out
}

// SetSounds replaces the catalog and the audio served for it.
func (f *FakeBackend) SetSounds(catalog models.Catalog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sounds = catalog
	f.Audio = make(map[string][]byte)
	for _, entry := range catalog.Entries() {
		f.Audio[entry.FullPath] = []byte("RIFF" + entry.FullPath)
	}
}

// SetEmptyCategories replaces the folders reported by GET /empty-categories.
func (f *FakeBackend) SetEmptyCategories(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EmptyCategories = names
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes the backend's {"error": msg} body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

func (f *FakeBackend) record(req server.RecordedRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *FakeBackend) overridable(method, path string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		override := f.overrides[method+" "+path]
		f.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		fn(w, r)
	}
}

func (f *FakeBackend) status(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": msg})
	}
}

func (f *FakeBackend) listSounds(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, f.Catalog())
}

func (f *FakeBackend) play(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Filename == "" {
		WriteError(w, http.StatusBadRequest, "No filename provided")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "Playing " + body.Filename})
}

func (f *FakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if !models.IsAudioFile(header.Filename) {
		WriteError(w, http.StatusBadRequest, "Invalid file type. Only audio files are allowed.")
		return
	}

	content, _ := io.ReadAll(file)
	folder := r.FormValue("folder")
	if folder == "" {
		folder = models.MainFolder
	}

	fullPath := header.Filename
	if folder != models.MainFolder {
		fullPath = folder + "/" + header.Filename
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, Upload{Folder: folder, Filename: header.Filename, Content: content})
	f.addSound(folder, fullPath, content)
	f.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]string{"status": "File uploaded successfully", "filename": header.Filename})
}

func (f *FakeBackend) listFolders(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	folders := slices.Clone(f.Folders)
	f.mu.Unlock()
	WriteJSON(w, http.StatusOK, folders)
}

func (f *FakeBackend) move(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SourcePath   string `json:"source_path"`
		TargetFolder string `json:"target_folder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SourcePath == "" || body.TargetFolder == "" {
		WriteError(w, http.StatusBadRequest, "Missing source_path or target_folder")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	source := models.SoundEntry{FullPath: body.SourcePath}
	folder := source.Folder()
	idx := slices.IndexFunc(f.Sounds[folder], func(e models.SoundEntry) bool { return e.FullPath == body.SourcePath })
	if idx < 0 {
		WriteError(w, http.StatusBadRequest, "Source file does not exist")
		return
	}

	f.Sounds[folder] = slices.Delete(f.Sounds[folder], idx, idx+1)
	if len(f.Sounds[folder]) == 0 {
		delete(f.Sounds, folder)
	}

	name := path.Base(body.SourcePath)
	target := name
	if body.TargetFolder != models.MainFolder {
		target = body.TargetFolder + "/" + name
	}
	f.addSound(body.TargetFolder, target, f.Audio[body.SourcePath])
	delete(f.Audio, body.SourcePath)

	WriteJSON(w, http.StatusOK, map[string]string{"status": "File moved successfully"})
}

func (f *FakeBackend) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryName string `json:"category_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.CategoryName) == "" {
		WriteError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if slices.Contains(f.Folders, body.CategoryName) {
		WriteError(w, http.StatusBadRequest, "Category already exists")
		return
	}
	f.Folders = models.SortFolders(append(f.Folders, body.CategoryName))
	f.EmptyCategories = append(f.EmptyCategories, body.CategoryName)

	WriteJSON(w, http.StatusOK, map[string]string{"status": "Category '" + body.CategoryName + "' created successfully"})
}

func (f *FakeBackend) listEmptyCategories(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	empty := slices.Clone(f.EmptyCategories)
	f.mu.Unlock()
	if empty == nil {
		empty = []string{}
	}
	WriteJSON(w, http.StatusOK, empty)
}

func (f *FakeBackend) removeCategories(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Categories) == 0 {
		WriteError(w, http.StatusBadRequest, "No categories provided")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	result := models.RemoveResult{Removed: []string{}, Failed: []string{}}
	for _, name := range body.Categories {
		if !slices.Contains(f.EmptyCategories, name) {
			result.Failed = append(result.Failed, name)
			continue
		}
		f.EmptyCategories = slices.DeleteFunc(f.EmptyCategories, func(s string) bool { return s == name })
		f.Folders = slices.DeleteFunc(f.Folders, func(s string) bool { return s == name })
		result.Removed = append(result.Removed, name)
	}

	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	WriteJSON(w, status, result)
}

func (f *FakeBackend) audio(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/audio/")

	f.mu.Lock()
	data, ok := f.Audio[name]
	f.mu.Unlock()

	if !ok {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Write(data)
}

// addSound must be called with mu held.
func (f *FakeBackend) addSound(folder, fullPath string, content []byte) {
	if f.Sounds == nil {
		f.Sounds = make(models.Catalog)
	}
	f.Sounds[folder] = append(f.Sounds[folder], models.SoundEntry{
		DisplayName: models.DisplayNameFromPath(fullPath),
		FullPath:    fullPath,
	})
	if !slices.Contains(f.Folders, folder) {
		f.Folders = models.SortFolders(append(f.Folders, folder))
	}
	f.EmptyCategories = slices.DeleteFunc(f.EmptyCategories, func(s string) bool { return s == folder })
	if f.Audio == nil {
		f.Audio = make(map[string][]byte)
	}
	f.Audio[fullPath] = content
}
