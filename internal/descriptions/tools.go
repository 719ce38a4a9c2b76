package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	ExamExtractFileDescription = `Extract structured exam questions from a mock-exam PDF.

**When to use:** Need to turn an exam paper into machine-usable questions with options and, where detectable, correct answers.

**Why it's useful:** Runs several extraction strategies over the document, deduplicates their findings, enforces structural validation (every question carries exactly four options) and correlates answer keys, highlighted options and emphasised markers onto the questions.

**Examples:**
• Build a practice app: "Extract all questions from gk-mock-test-3.pdf"
• Import with answer key: "Extract questions from history-paper.pdf and pick up its Answer Key section"
• Highlighted answers: "Extract scanned-quiz.pdf where correct options are marked with a highlighter"

**Common workflows:**
1. Question Import: Validate file → Extract → Review stats → Store questions
2. Answer Review: Extract → Inspect detection_method and detection_confidence → Apply manual overrides
3. Multi-set Papers: Extract → Walk practice_sets → Import each set separately

**Best practices:** Check the extraction status field; "no_questions" means the paper parsed but matched no question shapes, often because it is a scan without a text layer.`

	ExamExtractDirectoryDescription = `Extract exam questions from every PDF in a directory.

**When to use:** Importing a whole folder of exam papers in one call.

**Why it's useful:** Processes files concurrently, keeps going when individual papers fail and reports per-file results plus the failures.

**Examples:**
• Bulk import: "Extract all papers under /exams/2024/"
• Filtered batch: "Extract only files matching 'biology' from the exam directory"

**Common workflows:**
1. Bulk Import: Search directory → Extract directory → Review failed_files
2. Incremental Import: Extract with query filter → Merge into question bank

**Best practices:** Use the query filter to keep batches small; inspect failed_files rather than assuming every paper extracted.`

	ExamValidateFileDescription = `Verify PDF file integrity and readability before extraction.

**When to use:** Before attempting to extract any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and ensures compatibility with the extraction pipeline.

**Examples:**
• Batch safety: "Validate all PDFs in /exams/ before a bulk extraction run"
• Upload verification: "Check user-uploaded mock-test.pdf is valid before processing"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Handle errors gracefully
2. Quality Check: Validate → Report issues → Fix or reject bad files

**Best practices:** Always run this first in automated workflows handling unknown PDFs.`

	ExamStatsFileDescription = `Get metadata and statistics about an exam PDF.

**When to use:** Need page count, file size or document properties before committing to an extraction run.

**Why it's useful:** Helps estimate processing effort and records document provenance (title, author, producer, creation date).

**Examples:**
• Processing decisions: "Check page count of full-mock-series.pdf to estimate extraction time"
• Cataloguing: "Get metadata from uploaded papers for the import log"

**Best practices:** Useful for import pipelines that log where each question came from.`

	ExamSearchDirectoryDescription = `Discover PDF files across directories with intelligent search.

**When to use:** Finding exam papers by filename before validating or extracting them.

**Why it's useful:** Fuzzy matching tolerates the messy naming of downloaded exam papers (underscores, dashes, bracketed years).

**Examples:**
• Discovery: "List every PDF in the default exam directory"
• Filtered search: "Find files matching 'practice set' under /downloads/"

**Best practices:** Start every session with a search to see what is available; results are capped to valid, readable PDFs.`

	ExamServerInfoDescription = `Get server information, available tools, directory contents, and usage guidance.

**When to use:** First call of a session, or whenever unsure which tool fits a task.

**Why it's useful:** Returns the configured exam directory, its current contents, the full tool list and a step-by-step usage guide.`
)
