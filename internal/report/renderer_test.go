package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"registry_backend/internal/people/repository"
)

func TestExportWritesPDFIntoExportDir(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir)

	path, err := renderer.Export(context.Background(), []repository.Person{
		{ID: 1, Name: "Ana", Document: "123", Address: "Rua A, 10", Phone: "+5511987654321", Active: true},
		{ID: 2, Name: "Bea", Document: "456", Active: false},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Fatalf("expected file in export dir %s, got %s", dir, path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("expected .pdf file, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading generated file failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("expected PDF magic bytes, got %q", string(data[:8]))
	}
}

func TestExportHandlesEmptyRoster(t *testing.T) {
	renderer := NewRenderer(t.TempDir())

	path, err := renderer.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export of empty roster failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected generated file to exist: %v", err)
	}
}

func TestExportGeneratesUniqueFileNames(t *testing.T) {
	renderer := NewRenderer(t.TempDir())

	first, err := renderer.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	second, err := renderer.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique file names per export, both were %s", first)
	}
}
