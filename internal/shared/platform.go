package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// PlayerArgs returns the argv used to play a local audio file.
//
// A non-empty custom command (e.g. "mpv --no-video") is split on whitespace and the file appended.
// Otherwise the platform default is used: afplay on macOS, ffplay elsewhere, and a
// PowerShell SoundPlayer on Windows.
func PlayerArgs(custom, file string) ([]string, error) {
	if fields := strings.Fields(custom); len(fields) > 0 {
		return append(fields, file), nil
	}

	switch rt := getRuntime(); rt {
	case "darwin":
		return []string{"afplay", file}, nil
	case "linux", "freebsd", "openbsd":
		return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file}, nil
	case "windows":
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(file, "'", "''"))
		return []string{"powershell", "-NoProfile", "-Command", script}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported platform %s", ErrNoPlayer, rt)
	}
}
