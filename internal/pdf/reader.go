package pdf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

// Reader opens PDF files and exposes their pages as text suitable for
// question extraction
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// Document is one opened PDF. It implements the page source consumed by
// the extraction pipeline and must be closed after use.
type Document struct {
	file   *os.File
	reader *pdf.Reader
	path   string
	size   int64

	textBudget int
}

// Open validates and opens a PDF file
func (r *Reader) Open(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validatePDFFile(path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &Document{
		file:       f,
		reader:     pdfReader,
		path:       path,
		size:       fileInfo.Size(),
		textBudget: r.maxTextSize,
	}, nil
}

// validatePDFFile performs basic validation on a PDF file
func (r *Reader) validatePDFFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}

// Close releases the underlying file handle
func (d *Document) Close() error {
	return d.file.Close()
}

// Path returns the document's file path
func (d *Document) Path() string { return d.path }

// Size returns the document's file size in bytes
func (d *Document) Size() int64 { return d.size }

// PageCount implements extract.PageSource
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText implements extract.PageSource. It returns one page's plain
// text plus its positioned fragments, merged into row items so an
// option marker and its text form a single fragment.
func (d *Document) PageText(pageIndex int) (extract.PageText, error) {
	pageNum := pageIndex + 1
	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return extract.PageText{}, fmt.Errorf("page %d is missing", pageNum)
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return extract.PageText{}, fmt.Errorf("failed to read page %d: %w", pageNum, err)
	}

	if len(content) > d.textBudget {
		content = content[:d.textBudget]
	}
	d.textBudget -= len(content)

	return extract.PageText{
		PageNumber: pageNum,
		Text:       content,
		Items:      d.pageItems(page),
	}, nil
}

const defaultFontSize = 12.0

// pageItems reads the page's positioned text runs and merges runs that
// share a baseline into row items
func (d *Document) pageItems(page pdf.Page) (items []extract.TextItem) {
	defer func() {
		// The content stream parser can panic on malformed operators;
		// a page without items still extracts through its plain text.
		if recover() != nil {
			items = nil
		}
	}()

	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}

	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // top of page first
		}
		return texts[i].X < texts[j].X
	})

	var row *extract.TextItem
	for _, t := range texts {
		height := t.FontSize
		if height <= 0 {
			height = defaultFontSize
		}

		if row != nil && sameBaseline(row.Y, t.Y) {
			row.Text += t.S
			row.Width = t.X + t.W - row.X
			if height > row.Height {
				row.Height = height
			}
			continue
		}

		if row != nil {
			items = append(items, *row)
		}
		row = &extract.TextItem{
			Text:   t.S,
			X:      t.X,
			Y:      t.Y,
			Width:  t.W,
			Height: height,
		}
	}
	if row != nil {
		items = append(items, *row)
	}
	return items
}

// sameBaseline tolerates sub-point jitter between runs of one line
func sameBaseline(a, b float64) bool {
	return math.Abs(a-b) < 2.0
}
