package tasks

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanFiles Phase = iota
	UploadFiles
	WatchFiles
)

func (p Phase) String() string {
	switch p {
	case ScanFiles:
		return "scan_files"
	case UploadFiles:
		return "upload_files"
	case WatchFiles:
		return "watch_files"
	default:
		return ""
	}
}

// sendProgress delivers update without blocking; updates are dropped when nobody is reading.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func scanUpdate(found, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFiles,
		Step:    found,
		Total:   found + skipped,
		Message: fmt.Sprintf("Found %d audio files (%d skipped)", found, skipped),
	}
}

func uploadingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading: %s...", step, total, filepath.Base(path)),
	}
}

func uploadCompletedUpdate(step, total int, res UploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, filepath.Base(res.Path), res.Folder),
		Data:    res,
	}
}

func uploadFailedUpdate(step, total int, res UploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, filepath.Base(res.Path), res.Error),
		Data:    res,
	}
}

func watchingUpdate(root string, dirs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchFiles,
		Step:    dirs,
		Total:   dirs,
		Message: fmt.Sprintf("Watching %s (%d directories)", root, dirs),
	}
}
