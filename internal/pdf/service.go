package pdf

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/examforge/mcp-exam-extractor/internal/answerkey"
	"github.com/examforge/mcp-exam-extractor/internal/extract"
	"github.com/examforge/mcp-exam-extractor/internal/pdf/security"
)

// directoryWorkers bounds concurrent file extractions in a directory run
const directoryWorkers = 4

// Service orchestrates exam extraction over PDF files: validation,
// page reading, question extraction and answer-key correlation.
type Service struct {
	maxFileSize   int64
	maxSetNumber  int
	chunkSize     int
	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a new extraction service with all components
func NewService(maxFileSize int64, configuredDirectory string, maxSetNumber, chunkSize int) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		maxSetNumber:  maxSetNumber,
		chunkSize:     chunkSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		stats:         NewStats(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// ExamExtractFile extracts structured questions from one PDF and
// correlates detected answers onto them
func (s *Service) ExamExtractFile(ctx context.Context, req ExamExtractFileRequest) (*ExamExtractFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	doc, err := s.reader.Open(req.Path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	// A cancellation during the fetch leaves ctx expired, so RunPages
	// reports the cancelled status itself.
	pages := s.collectPages(ctx, doc)

	result, err := s.newPipeline(req.MaxSetNumber).RunPages(ctx, pages)
	if err != nil {
		return nil, err
	}

	out := &ExamExtractFileResult{
		Path:       req.Path,
		Pages:      doc.PageCount(),
		Size:       doc.Size(),
		Extraction: result,
	}

	if result.Status == extract.StatusOK && !req.SkipAnswerDetection {
		out.AnswersDetected = s.correlateAnswers(ctx, req, pages, result.Questions)
	}

	return out, nil
}

// collectPages fetches page text in chunks, checking for cancellation
// between chunks. Unreadable pages are skipped.
func (s *Service) collectPages(ctx context.Context, doc *Document) (pages []extract.PageText) {
	count := doc.PageCount()
	for start := 0; start < count; start += s.chunkSize {
		if ctx.Err() != nil {
			return nil
		}
		end := min(start+s.chunkSize, count)
		for i := start; i < end; i++ {
			page, err := doc.PageText(i)
			if err != nil {
				log.Printf("skipping page %d of %s: %v", i+1, doc.Path(), err)
				continue
			}
			pages = append(pages, page)
		}
	}
	return pages
}

// newPipeline builds an extraction pipeline honouring a per-request
// set-number override
func (s *Service) newPipeline(maxSetNumber int) *extract.Pipeline {
	bound := s.maxSetNumber
	if maxSetNumber > 0 {
		bound = maxSetNumber
	}
	return extract.NewPipeline(
		extract.WithMaxSetNumber(bound),
		extract.WithChunkSize(s.chunkSize),
	)
}

// correlateAnswers runs answer detection over the extracted questions.
// Rendering is best-effort: when the document cannot be rasterized the
// correlator still runs on text evidence alone.
func (s *Service) correlateAnswers(ctx context.Context, req ExamExtractFileRequest, pages []extract.PageText, questions []*extract.ValidatedQuestion) int {
	var opts []answerkey.Option
	raster, err := NewPageRaster(req.Path)
	if err != nil {
		log.Printf("rendering unavailable for %s: %v", req.Path, err)
	} else {
		defer raster.Close()
		opts = append(opts, answerkey.WithRasterSampler(raster))
	}

	correlator := answerkey.NewCorrelator(opts...)
	annotated, err := correlator.Annotate(ctx, pages, questions, req.Overrides)
	if err != nil {
		log.Printf("answer correlation interrupted for %s: %v", req.Path, err)
	}
	return annotated
}

// ExamExtractDirectory runs extraction over every PDF in a directory.
// Files are processed concurrently; individual failures are reported
// alongside the successful results instead of aborting the run.
func (s *Service) ExamExtractDirectory(ctx context.Context, req ExamExtractDirectoryRequest) (*ExamExtractDirectoryResult, error) {
	directory := req.Directory
	if directory == "" {
		directory = s.pathValidator.GetConfiguredDirectory()
	}
	if err := s.pathValidator.ValidateDirectory(directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	found, err := s.search.SearchDirectory(ExamSearchDirectoryRequest{
		Directory: directory,
		Query:     req.Query,
	})
	if err != nil {
		return nil, err
	}

	result := &ExamExtractDirectoryResult{Directory: found.Directory}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(directoryWorkers)
	for _, file := range found.Files {
		g.Go(func() error {
			fileResult, err := s.ExamExtractFile(gctx, ExamExtractFileRequest{
				Path:         file.Path,
				MaxSetNumber: req.MaxSetNumber,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedFiles = append(result.FailedFiles, FileFailure{
					Path:  file.Path,
					Error: err.Error(),
				})
				return nil
			}
			result.Files = append(result.Files, *fileResult)
			result.TotalQuestions += len(fileResult.Extraction.Questions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// ExamValidateFile performs validation on a PDF file
func (s *Service) ExamValidateFile(req ExamValidateFileRequest) (*ExamValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// ExamStatsFile returns detailed statistics about a single PDF file
func (s *Service) ExamStatsFile(req ExamStatsFileRequest) (*ExamStatsFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.stats.GetFileStats(req)
}

// ExamSearchDirectory searches for PDF files in a directory
func (s *Service) ExamSearchDirectory(req ExamSearchDirectoryRequest) (*ExamSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.SearchDirectory(req)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// ServerInfo returns server information and usage guidance
func (s *Service) ServerInfo(_ ServerInfoRequest, serverName, version, defaultDirectory string) (*ServerInfoResult, error) {
	validatedDir := defaultDirectory
	if err := s.pathValidator.ValidateDirectory(defaultDirectory); err != nil {
		validatedDir = s.pathValidator.GetConfiguredDirectory()
	}

	// Directory listing is advisory; cap it and never let a slow mount
	// block the info call.
	directoryContents := []FileInfo{}
	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindPDFsInDirectoryLimited(validatedDir, 100)
		if err != nil {
			resultChan <- nil
			return
		}
		resultChan <- files
	}()
	select {
	case files := <-resultChan:
		if files != nil {
			directoryContents = files
		}
	case <-time.After(5 * time.Second):
	}

	availableTools := []ToolInfo{
		{
			Name:        "exam_extract_file",
			Description: "Extract structured exam questions from a PDF file",
			Usage: "Use this tool to turn a mock-exam PDF into validated questions with options " +
				"and, where detectable, correct answers.",
			Parameters: "path (required): Full absolute path to the PDF file, " +
				"max_set_number (optional): Upper bound for practice-set numbering, " +
				"skip_answer_detection (optional): Disable answer-key correlation",
		},
		{
			Name:        "exam_extract_directory",
			Description: "Extract exam questions from every PDF in a directory",
			Usage:       "Use this tool to batch-process a directory of exam papers.",
			Parameters: "directory (optional): Directory to process (uses default if empty), " +
				"query (optional): Fuzzy filename filter",
		},
		{
			Name:        "exam_validate_file",
			Description: "Validate if a file is a readable PDF",
			Usage:       "Use this tool to check a file before attempting extraction.",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "exam_stats_file",
			Description: "Get detailed statistics about a PDF file",
			Usage:       "Use this tool to get page count, file size and document metadata.",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "exam_search_directory",
			Description: "Search for PDF files in a directory with optional fuzzy search",
			Usage:       "Use this tool to find exam PDFs by filename.",
			Parameters: "directory (optional): Directory path to search (uses default if empty), " +
				"query (optional): Search query for fuzzy matching",
		},
	}

	usageGuidance := `Exam Extractor Usage Guide:

1. START WITH DISCOVERY:
   - Use 'exam_search_directory' to find available exam PDFs

2. VALIDATE FILES:
   - Use 'exam_validate_file' to check a file before extraction

3. EXTRACT QUESTIONS:
   - Use 'exam_extract_file' for one paper, 'exam_extract_directory' for a batch
   - Check the extraction 'status' field:
     * "ok": questions were extracted
     * "no_questions": the document parsed but yielded nothing extractable
     * "cancelled": the run was cancelled before completion
   - Each question carries exactly four options; 'correct_answer' is an
     option index when an answer was detected, otherwise null
   - 'detection_method' and 'detection_confidence' describe how an answer
     was found (pattern, visual, bold or manual)

4. GET METADATA:
   - Use 'exam_stats_file' for page counts and document properties

IMPORTANT NOTES:
- Always use absolute file paths
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- Scanned papers without a text layer cannot be extracted; run OCR first`

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  validatedDir,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools,
		DirectoryContents: directoryContents,
		UsageGuidance:     usageGuidance,
	}, nil
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}
	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}
	if s.maxSetNumber <= 0 {
		return fmt.Errorf("maxSetNumber must be greater than 0")
	}
	if s.chunkSize <= 0 {
		return fmt.Errorf("chunkSize must be greater than 0")
	}
	return nil
}
