package mcp

import (
	"strings"
	"testing"

	"github.com/examforge/mcp-exam-extractor/internal/config"
	"github.com/examforge/mcp-exam-extractor/internal/extract"
	"github.com/examforge/mcp-exam-extractor/internal/pdf"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = t.TempDir()

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, cfg.MaxSetNumber, cfg.ChunkSize)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	s, err := NewServer(cfg, service)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func TestNewServer(t *testing.T) {
	s := testServer(t)

	if s.config == nil {
		t.Error("expected config to be set")
	}
	if s.examService == nil {
		t.Error("expected exam service to be set")
	}
	if s.mcpServer == nil {
		t.Error("expected mcp server to be set")
	}
}

func TestNewServerNilService(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := NewServer(cfg, nil)
	if err == nil {
		t.Error("expected error for nil exam service")
	}
}

func TestFormatExtractFileResult(t *testing.T) {
	s := testServer(t)

	answer := 1
	confidence := 0.8
	result := &pdf.ExamExtractFileResult{
		Path:            "/tmp/exam.pdf",
		Pages:           3,
		Size:            2048,
		AnswersDetected: 1,
		Extraction: &extract.Result{
			RunID:  "run-1",
			Status: extract.StatusOK,
			Questions: []*extract.ValidatedQuestion{
				{
					Text:                "What is the capital of France?",
					Options:             []string{"Berlin", "Paris", "Madrid", "Rome"},
					CorrectAnswer:       &answer,
					DetectionConfidence: &confidence,
					DetectionMethod:     "answer_key_pattern",
				},
			},
			Stats: extract.Stats{
				StrategyCounts: map[string]int{"line_scan": 1},
			},
		},
	}

	text := s.formatExtractFileResult(result)

	for _, want := range []string{
		"Questions: 1",
		"Answers detected: 1",
		"What is the capital of France?",
		"* b) Paris",
		"answer: b (answer_key_pattern, confidence 0.80)",
		"line_scan strategy candidates: 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestFormatExtractFileResultNoQuestions(t *testing.T) {
	s := testServer(t)

	result := &pdf.ExamExtractFileResult{
		Path:       "/tmp/scan.pdf",
		Extraction: &extract.Result{RunID: "run-2", Status: extract.StatusNoQuestions},
	}

	text := s.formatExtractFileResult(result)
	if !strings.Contains(text, "No questions could be extracted") {
		t.Errorf("expected OCR hint for empty result, got:\n%s", text)
	}
	if strings.Contains(text, "Questions:") {
		t.Errorf("empty result should not list questions, got:\n%s", text)
	}
}

func TestFormatExtractDirectoryResult(t *testing.T) {
	s := testServer(t)

	result := &pdf.ExamExtractDirectoryResult{
		Directory:      "/tmp/exams",
		TotalQuestions: 5,
		Files: []pdf.ExamExtractFileResult{
			{
				Path: "/tmp/exams/a.pdf",
				Extraction: &extract.Result{
					Status:    extract.StatusOK,
					Questions: make([]*extract.ValidatedQuestion, 5),
				},
			},
		},
		FailedFiles: []pdf.FileFailure{
			{Path: "/tmp/exams/broken.pdf", Error: "invalid PDF file"},
		},
	}

	text := s.formatExtractDirectoryResult(result)

	for _, want := range []string{
		"Total questions: 5",
		"/tmp/exams/a.pdf",
		"status=ok questions=5",
		"Failed files (1):",
		"broken.pdf: invalid PDF file",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestFormatStatsFileResult(t *testing.T) {
	s := testServer(t)

	result := &pdf.ExamStatsFileResult{
		Path:         "/tmp/exam.pdf",
		Size:         4096,
		Pages:        12,
		ModifiedDate: "2025-01-15 10:30:00",
		Title:        "Mock Test Paper",
	}

	text := s.formatStatsFileResult(result)

	if !strings.Contains(text, "Pages: 12") {
		t.Errorf("expected page count, got:\n%s", text)
	}
	if !strings.Contains(text, "Title: Mock Test Paper") {
		t.Errorf("expected title, got:\n%s", text)
	}
	if strings.Contains(text, "Author:") {
		t.Errorf("empty metadata fields should be omitted, got:\n%s", text)
	}
}

func TestFormatSearchDirectoryResult(t *testing.T) {
	s := testServer(t)

	result := &pdf.ExamSearchDirectoryResult{
		Directory:   "/tmp/exams",
		TotalCount:  1,
		SearchQuery: "mock",
		Files: []pdf.FileInfo{
			{Path: "/tmp/exams/mock-test.pdf", Name: "mock-test.pdf", Size: 1024, ModifiedTime: "2025-01-15 10:30:00"},
		},
	}

	text := s.formatSearchDirectoryResult(result)

	if !strings.Contains(text, "Found 1 PDF file(s)") {
		t.Errorf("expected file count, got:\n%s", text)
	}
	if !strings.Contains(text, "Search query: mock") {
		t.Errorf("expected search query, got:\n%s", text)
	}
	if !strings.Contains(text, "mock-test.pdf") {
		t.Errorf("expected file name, got:\n%s", text)
	}
}
