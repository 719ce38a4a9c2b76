package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

// searchFixture lays out a directory of plausible exam-paper filenames.
// Content is arbitrary; search only inspects file metadata.
func searchFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{
		"ssc-cgl-mock-test-1.pdf",
		"banking-exam-2024.pdf",
		"practice_set_five.PDF",
		"notes.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("failed to write fixture file: %v", err)
		}
	}

	// Files inside hidden directories must never be picked up.
	hidden := filepath.Join(dir, ".cache")
	if err := os.MkdirAll(hidden, 0o750); err != nil {
		t.Fatalf("failed to create hidden dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hidden, "stale.pdf"), []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to write hidden file: %v", err)
	}

	// Nested visible directories are walked.
	nested := filepath.Join(dir, "archive")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "old-paper.pdf"), []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to write nested file: %v", err)
	}

	return dir
}

func TestSearchDirectory(t *testing.T) {
	s := NewSearch(testMaxFileSize)
	dir := searchFixture(t)

	result, err := s.SearchDirectory(ExamSearchDirectoryRequest{Directory: dir})
	if err != nil {
		t.Fatalf("SearchDirectory() failed: %v", err)
	}

	// Four PDFs: three in the root plus the nested one; the .txt and the
	// hidden-directory file are excluded.
	if result.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", result.TotalCount)
	}
	for _, f := range result.Files {
		if f.Name == "stale.pdf" {
			t.Error("hidden directory contents should be skipped")
		}
		if f.Name == "notes.txt" {
			t.Error("non-PDF files should be skipped")
		}
	}
}

func TestSearchDirectoryWithQuery(t *testing.T) {
	s := NewSearch(testMaxFileSize)
	dir := searchFixture(t)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "substring match", query: "mock", wantCount: 1},
		{name: "word-wise match across separators", query: "cgl test", wantCount: 1},
		{name: "case insensitive", query: "BANKING", wantCount: 1},
		{name: "no match", query: "physics", wantCount: 0},
		{name: "empty query matches all", query: "", wantCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.SearchDirectory(ExamSearchDirectoryRequest{
				Directory: dir,
				Query:     tt.query,
			})
			if err != nil {
				t.Fatalf("SearchDirectory() failed: %v", err)
			}
			if result.TotalCount != tt.wantCount {
				t.Errorf("query %q: TotalCount = %d, want %d", tt.query, result.TotalCount, tt.wantCount)
			}
		})
	}
}

func TestSearchDirectoryErrors(t *testing.T) {
	s := NewSearch(testMaxFileSize)

	if _, err := s.SearchDirectory(ExamSearchDirectoryRequest{Directory: ""}); err == nil {
		t.Error("expected error for empty directory")
	}
	if _, err := s.SearchDirectory(ExamSearchDirectoryRequest{Directory: "/nonexistent/path"}); err == nil {
		t.Error("expected error for nonexistent directory")
	}
}

func TestFindPDFsInDirectoryLimited(t *testing.T) {
	s := NewSearch(testMaxFileSize)
	dir := searchFixture(t)

	files, err := s.FindPDFsInDirectoryLimited(dir, 2)
	if err != nil {
		t.Fatalf("FindPDFsInDirectoryLimited() failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2", len(files))
	}
}

func TestCountPDFsInDirectory(t *testing.T) {
	s := NewSearch(testMaxFileSize)
	dir := searchFixture(t)

	count, err := s.CountPDFsInDirectory(dir)
	if err != nil {
		t.Fatalf("CountPDFsInDirectory() failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		filename string
		query    string
		want     bool
	}{
		{"ssc-cgl-mock-test-1.pdf", "mock", true},
		{"ssc-cgl-mock-test-1.pdf", "cgl mock", true},
		{"ssc-cgl-mock-test-1.pdf", "cgl physics", false},
		{"Practice_Set_Five.pdf", "five", true},
		{"exam(2024).pdf", "2024", true},
	}

	for _, tt := range tests {
		if got := matchesQuery(tt.filename, tt.query); got != tt.want {
			t.Errorf("matchesQuery(%q, %q) = %v, want %v", tt.filename, tt.query, got, tt.want)
		}
	}
}

func TestSplitIntoWords(t *testing.T) {
	words := splitIntoWords("SSC_CGL-Mock Test.(2024)[v2]")
	want := []string{"ssc", "cgl", "mock", "test", "2024", "v2"}

	if len(words) != len(want) {
		t.Fatalf("splitIntoWords() = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
}
