package pdf

import (
	"github.com/examforge/mcp-exam-extractor/internal/answerkey"
	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExamExtractFileRequest represents a request to extract questions from one PDF
type ExamExtractFileRequest struct {
	Path string `json:"path"`
	// MaxSetNumber overrides the practice-set number bound; 0 keeps the default
	MaxSetNumber int `json:"max_set_number,omitempty"`
	// Overrides are caller-supplied answer assignments applied after detection
	Overrides []answerkey.ManualOverride `json:"overrides,omitempty"`
	// SkipAnswerDetection disables the answer-key correlation phase
	SkipAnswerDetection bool `json:"skip_answer_detection,omitempty"`
}

// ExamExtractDirectoryRequest represents a request to extract questions from
// every PDF in a directory
type ExamExtractDirectoryRequest struct {
	Directory string `json:"directory"`
	// Query optionally narrows the directory to matching filenames
	Query string `json:"query,omitempty"`
	// MaxSetNumber overrides the practice-set number bound; 0 keeps the default
	MaxSetNumber int `json:"max_set_number,omitempty"`
}

// ExamValidateFileRequest represents a request to validate a PDF file
type ExamValidateFileRequest struct {
	Path string `json:"path"`
}

// ExamStatsFileRequest represents a request to get stats about a PDF file
type ExamStatsFileRequest struct {
	Path string `json:"path"`
}

// ExamSearchDirectoryRequest represents a request to search for PDF files in a directory
type ExamSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// ExamExtractFileResult represents the result of extracting one PDF
type ExamExtractFileResult struct {
	Path            string          `json:"path"`
	Pages           int             `json:"pages"`
	Size            int64           `json:"size"`
	Extraction      *extract.Result `json:"extraction"`
	AnswersDetected int             `json:"answers_detected"`
}

// ExamExtractDirectoryResult represents the result of a directory extraction run
type ExamExtractDirectoryResult struct {
	Directory      string                  `json:"directory"`
	Files          []ExamExtractFileResult `json:"files"`
	TotalQuestions int                     `json:"total_questions"`
	FailedFiles    []FileFailure           `json:"failed_files,omitempty"`
}

// FileFailure records one file a directory run could not process
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ExamValidateFileResult represents the result of a PDF validation operation
type ExamValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// ExamStatsFileResult represents the result of a PDF file stats operation
type ExamStatsFileResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Producer     string `json:"producer,omitempty"`
}

// ExamSearchDirectoryResult represents the result of a PDF search operation
type ExamSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// ToolInfo describes an available MCP tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}
