package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/examforge/mcp-exam-extractor/internal/config"
	"github.com/examforge/mcp-exam-extractor/internal/descriptions"
	"github.com/examforge/mcp-exam-extractor/internal/extract"
	"github.com/examforge/mcp-exam-extractor/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config      *config.Config
	examService *pdf.Service
	mcpServer   *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, examService *pdf.Service) (*Server, error) {
	if examService == nil {
		return nil, fmt.Errorf("examService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:      cfg,
		examService: examService,
		mcpServer:   mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		"exam_extract_file",
		mcp.WithDescription(descriptions.ExamExtractFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the exam PDF file"),
		),
		mcp.WithNumber("max_set_number",
			mcp.Description("Upper bound for accepted practice-set numbers (uses server default if empty)"),
		),
		mcp.WithBoolean("skip_answer_detection",
			mcp.Description("Skip the answer-key correlation phase"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExamExtractFile)

	extractDirectoryTool := mcp.NewTool(
		"exam_extract_directory",
		mcp.WithDescription(descriptions.ExamExtractDirectoryDescription),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional fuzzy filename filter"),
		),
		mcp.WithNumber("max_set_number",
			mcp.Description("Upper bound for accepted practice-set numbers (uses server default if empty)"),
		),
	)
	s.mcpServer.AddTool(extractDirectoryTool, s.handleExamExtractDirectory)

	validateFileTool := mcp.NewTool(
		"exam_validate_file",
		mcp.WithDescription(descriptions.ExamValidateFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleExamValidateFile)

	statsFileTool := mcp.NewTool(
		"exam_stats_file",
		mcp.WithDescription(descriptions.ExamStatsFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(statsFileTool, s.handleExamStatsFile)

	searchDirectoryTool := mcp.NewTool(
		"exam_search_directory",
		mcp.WithDescription(descriptions.ExamSearchDirectoryDescription),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleExamSearchDirectory)

	serverInfoTool := mcp.NewTool(
		"exam_server_info",
		mcp.WithDescription(descriptions.ExamServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleExamServerInfo)
}

// Handler functions

func (s *Server) handleExamExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	req := pdf.ExamExtractFileRequest{Path: path}
	if n, ok := args["max_set_number"].(float64); ok && n > 0 {
		req.MaxSetNumber = int(n)
	}
	if skip, ok := args["skip_answer_detection"].(bool); ok {
		req.SkipAnswerDetection = skip
	}

	result, err := s.examService.ExamExtractFile(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractFileResult(result)), nil
}

func (s *Server) handleExamExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	req := pdf.ExamExtractDirectoryRequest{}
	if dir, ok := args["directory"].(string); ok {
		req.Directory = dir
	}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}
	if n, ok := args["max_set_number"].(float64); ok && n > 0 {
		req.MaxSetNumber = int(n)
	}

	result, err := s.examService.ExamExtractDirectory(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractDirectoryResult(result)), nil
}

func (s *Server) handleExamValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.examService.ExamValidateFile(pdf.ExamValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExamStatsFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.examService.ExamStatsFile(pdf.ExamStatsFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatStatsFileResult(result)), nil
}

func (s *Server) handleExamSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.examService.ExamSearchDirectory(pdf.ExamSearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExamServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.examService.ServerInfo(
		pdf.ServerInfoRequest{}, s.config.ServerName, s.config.Version, s.config.PDFDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods

func (s *Server) formatExtractFileResult(result *pdf.ExamExtractFileResult) string {
	ex := result.Extraction

	text := fmt.Sprintf("Extraction of %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Status: %s\n", ex.Status)
	text += fmt.Sprintf("Run ID: %s\n", ex.RunID)

	switch ex.Status {
	case extract.StatusNoQuestions:
		text += "\n⚠️  No questions could be extracted. If this paper is a scan without a text layer, run OCR first.\n"
		return text
	case extract.StatusCancelled:
		text += "\n⚠️  The extraction run was cancelled before completion.\n"
		return text
	}

	text += fmt.Sprintf("\nQuestions: %d\n", len(ex.Questions))
	text += fmt.Sprintf("Answers detected: %d\n", result.AnswersDetected)
	if len(ex.PracticeSets) > 0 {
		text += fmt.Sprintf("Practice sets: %d\n", len(ex.PracticeSets))
		for _, set := range ex.PracticeSets {
			text += fmt.Sprintf("  Set %d: %d questions\n", set.SetNumber, len(set.Questions))
		}
	}

	text += "\nDiagnostics:\n"
	for name, count := range ex.Stats.StrategyCounts {
		text += fmt.Sprintf("  %s strategy candidates: %d\n", name, count)
	}
	text += fmt.Sprintf("  duplicates removed: %d\n", ex.Stats.DuplicatesRemoved)
	for reason, count := range ex.Stats.ValidationRejections {
		text += fmt.Sprintf("  rejected (%s): %d\n", reason, count)
	}

	text += "\nQuestions:\n"
	for i, q := range ex.Questions {
		text += fmt.Sprintf("\n%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			marker := " "
			if q.CorrectAnswer != nil && *q.CorrectAnswer == j {
				marker = "*"
			}
			text += fmt.Sprintf("  %s %c) %s\n", marker, 'a'+j, opt)
		}
		if q.CorrectAnswer != nil {
			text += fmt.Sprintf("   answer: %c (%s, confidence %.2f)\n",
				'a'+*q.CorrectAnswer, q.DetectionMethod, *q.DetectionConfidence)
		}
	}

	return text
}

func (s *Server) formatExtractDirectoryResult(result *pdf.ExamExtractDirectoryResult) string {
	text := fmt.Sprintf("Directory extraction: %s\n", result.Directory)
	text += fmt.Sprintf("Files processed: %d\n", len(result.Files))
	text += fmt.Sprintf("Total questions: %d\n", result.TotalQuestions)

	for _, file := range result.Files {
		text += fmt.Sprintf("\n• %s\n", file.Path)
		text += fmt.Sprintf("  %s\n", extract.Describe(file.Extraction))
		if file.AnswersDetected > 0 {
			text += fmt.Sprintf("  answers detected: %d\n", file.AnswersDetected)
		}
	}

	if len(result.FailedFiles) > 0 {
		text += fmt.Sprintf("\nFailed files (%d):\n", len(result.FailedFiles))
		for _, failure := range result.FailedFiles {
			text += fmt.Sprintf("  %s: %s\n", failure.Path, failure.Error)
		}
	}

	return text
}

func (s *Server) formatStatsFileResult(result *pdf.ExamStatsFileResult) string {
	text := "PDF File Statistics\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	if result.Title != "" {
		text += fmt.Sprintf("Title: %s\n", result.Title)
	}
	if result.Author != "" {
		text += fmt.Sprintf("Author: %s\n", result.Author)
	}
	if result.Subject != "" {
		text += fmt.Sprintf("Subject: %s\n", result.Subject)
	}
	if result.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", result.Producer)
	}
	if result.CreatedDate != "" {
		text += fmt.Sprintf("Created: %s\n", result.CreatedDate)
	}

	return text
}

func (s *Server) formatSearchDirectoryResult(result *pdf.ExamSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	// Directory contents
	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	// Usage guidance
	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting exam extractor MCP server in stdio mode")
		log.Printf("Exam directory: %s", s.config.PDFDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport only ships stdio today.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
