package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	th "github.com/desertthunder/sbx/internal/testing"
	"github.com/goccy/go-json"
)

var catalog = models.Catalog{
	"SFX":  {{DisplayName: "Pop", FullPath: "SFX/Pop.wav"}, {DisplayName: "air horn", FullPath: "SFX/air-horn.wav"}},
	"Main": {{DisplayName: "Boo", FullPath: "Boo.wav"}},
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(catalog)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		want := "Folder,Display Name,Full Path\nMain,Boo,Boo.wav\nSFX,Pop,SFX/Pop.wav\nSFX,air horn,SFX/air-horn.wav\n"
		if string(data) != want {
			t.Errorf("ExportToCSV() =\n%s\nwant\n%s", data, want)
		}
	})

	t.Run("ExportToCSV Empty", func(t *testing.T) {
		data, err := ExportToCSV(models.Catalog{})
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if strings.Count(string(data), "\n") != 1 {
			t.Errorf("expected header only, got %q", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(catalog, "Office Board")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Office Board", "**Sounds**: 3", "## Main", "- Boo (`Boo.wav`)", "## SFX"} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q:\n%s", want, output)
			}
		}
		if strings.Index(output, "## Main") > strings.Index(output, "## SFX") {
			t.Error("Main should be rendered first")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, _ := ExportToText(catalog)
		want := "Main (1)\n  Boo\n\nSFX (2)\n  Pop\n  air horn\n"
		if string(data) != want {
			t.Errorf("ExportToText() = %q, want %q", data, want)
		}

		empty, _ := ExportToText(nil)
		if string(empty) != "No sounds yet\n" {
			t.Errorf("unexpected empty rendering %q", empty)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(catalog)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var back models.Catalog
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if back["SFX"][1].FullPath != "SFX/air-horn.wav" {
			t.Errorf("unexpected decoded catalog %v", back)
		}

		nilData, _ := ExportToJSON(nil)
		if strings.TrimSpace(string(nilData)) != "{}" {
			t.Errorf("nil catalog should render {}, got %s", nilData)
		}
	})
}

func TestExport(t *testing.T) {
	for _, format := range []string{"json", "csv", "markdown", "md", "txt", "text", "CSV"} {
		if _, err := Export(catalog, format); err != nil {
			t.Errorf("Export(%s) error = %v", format, err)
		}
		if !IsFormat(format) {
			t.Errorf("IsFormat(%s) = false", format)
		}
	}

	if _, err := Export(catalog, "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
	if IsFormat("xml") {
		t.Error("IsFormat(xml) = true")
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "board.csv")
		got, err := WriteExport(catalog, "csv", path)
		if err != nil {
			t.Fatalf("WriteExport() error = %v", err)
		}
		if got != path {
			t.Errorf("WriteExport() = %s, want %s", got, path)
		}
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Folder,") {
			t.Errorf("unexpected content %q", content)
		}
	})

	t.Run("Default Filename", func(t *testing.T) {
		dir := t.TempDir()
		th.InDir(t, dir)

		got, err := WriteExport(catalog, "markdown", "")
		if err != nil {
			t.Fatalf("WriteExport() error = %v", err)
		}
		if got != "sounds.md" {
			t.Errorf("expected sounds.md, got %s", got)
		}
		th.AssertFileExists(t, filepath.Join(dir, "sounds.md"))
	})

	t.Run("Unwritable", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteExport(catalog, "txt", filepath.Join(blocker, "out.txt")); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}
