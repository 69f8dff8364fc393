// package formatter renders a sound catalog to export formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	"github.com/goccy/go-json"
)

// Formats lists the accepted format names.
var Formats = []string{"json", "csv", "markdown", "txt"}

// ExportToJSON renders the catalog as indented JSON in the backend's own shape.
func ExportToJSON(catalog models.Catalog) ([]byte, error) {
	if catalog == nil {
		catalog = models.Catalog{}
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV renders one row per sound with columns: Folder, Display Name, Full Path
func ExportToCSV(catalog models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Folder", "Display Name", "Full Path"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, folder := range catalog.Folders() {
		for _, entry := range catalog[folder] {
			if err := writer.Write([]string{folder, entry.DisplayName, entry.FullPath}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading per folder with a bullet per sound.
func ExportToMarkdown(catalog models.Catalog, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Sounds"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Sounds**: %d\n", catalog.Len())
	fmt.Fprintf(&buf, "**Folders**: %d\n\n", len(catalog))

	if catalog.Len() == 0 {
		buf.WriteString("No sounds yet\n")
		return buf.Bytes(), nil
	}

	for _, folder := range catalog.Folders() {
		fmt.Fprintf(&buf, "## %s\n\n", folder)
		for _, entry := range catalog[folder] {
			fmt.Fprintf(&buf, "- %s (`%s`)\n", entry.DisplayName, entry.FullPath)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders folders as headers followed by indented display names.
func ExportToText(catalog models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	if catalog.Len() == 0 {
		buf.WriteString("No sounds yet\n")
		return buf.Bytes(), nil
	}

	for i, folder := range catalog.Folders() {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%s (%d)\n", folder, len(catalog[folder]))
		for _, entry := range catalog[folder] {
			fmt.Fprintf(&buf, "  %s\n", entry.DisplayName)
		}
	}

	return buf.Bytes(), nil
}

// Export renders the catalog in the named format. "md" is accepted for markdown and "text" for txt.
func Export(catalog models.Catalog, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return ExportToJSON(catalog)
	case "csv":
		return ExportToCSV(catalog)
	case "markdown", "md":
		return ExportToMarkdown(catalog, "")
	case "txt", "text", "":
		return ExportToText(catalog)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// DefaultFilename returns "sounds.<ext>" for format.
func DefaultFilename(format string) string {
	ext := strings.ToLower(format)
	switch ext {
	case "markdown":
		ext = "md"
	case "text", "":
		ext = "txt"
	}
	return "sounds." + ext
}

// WriteExport renders the catalog and writes it to path, creating parent directories.
//
// An empty path uses [DefaultFilename] in the working directory.
func WriteExport(catalog models.Catalog, format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Export(catalog, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// IsFormat reports whether format is accepted by [Export].
func IsFormat(format string) bool {
	return slices.Contains(Formats, strings.ToLower(format)) || slices.Contains([]string{"md", "text"}, strings.ToLower(format))
}
