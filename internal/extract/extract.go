// Package extract pulls plain text out of PDFs, images and text files
// using poppler and tesseract.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/abhisek/eduquiz/internal/logger"
)

// Document is the text extracted from one file.
type Document struct {
	Name string
	Text string
	// OCR reports whether the text came from page images.
	OCR bool
}

// Extractor turns files into text.
type Extractor struct {
	run      Runner
	log      *logger.Logger
	lang     string
	ocrPages int
	dpi      int
	timeout  time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner replaces the tool runner.
func WithRunner(r Runner) Option { return func(x *Extractor) { x.run = r } }

// WithLanguage sets the tesseract language list, e.g. "vie+eng".
func WithLanguage(lang string) Option { return func(x *Extractor) { x.lang = lang } }

// WithOCRPages caps how many PDF pages are rendered for OCR.
func WithOCRPages(n int) Option { return func(x *Extractor) { x.ocrPages = n } }

// WithTimeout bounds each tool invocation.
func WithTimeout(d time.Duration) Option { return func(x *Extractor) { x.timeout = d } }

func New(log *logger.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	x := &Extractor{
		run:      ExecRunner{},
		log:      log.With("service", "Extractor"),
		lang:     "vie+eng",
		ocrPages: 3,
		dpi:      200,
		timeout:  60 * time.Second,
	}
	for _, o := range opts {
		o(x)
	}
	return x
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".bmp": true, ".webp": true}

// File extracts text from path, picking the method by extension.
// password is only used for PDFs. Failures are *errs.ProviderError
// wrapping an *ExtractError.
func (x *Extractor) File(ctx context.Context, path, password string) (*Document, error) {
	doc, err := x.file(ctx, path, password)
	if err != nil {
		return nil, asProvider(err)
	}
	return doc, nil
}

func (x *Extractor) file(ctx context.Context, path, password string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return x.PDF(ctx, path, password)
	case ext == ".txt" || ext == ".md":
		return x.Text(path)
	case imageExts[ext]:
		return x.Image(ctx, path)
	}
	return nil, &ExtractError{Kind: KindInvalidDocument, Path: path, Err: fmt.Errorf("unsupported file type %q", ext)}
}

// PDF extracts the text layer of a PDF and falls back to OCR of the first
// pages when the text layer is empty.
func (x *Extractor) PDF(ctx context.Context, path, password string) (*Document, error) {
	args := []string{"-enc", "UTF-8", "-q"}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, path, "-")

	out, err := x.tool(ctx, "pdftotext", args...)
	if err != nil {
		return nil, x.classifyPDF(ctx, path, password, err)
	}
	doc := &Document{Name: filepath.Base(path), Text: Clean(string(out))}
	if doc.Text != "" {
		return doc, nil
	}

	x.log.Info("pdf has no text layer, running OCR", "path", path, "pages", x.ocrPages)
	text, err := x.ocrPDF(ctx, path, password)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &ExtractError{Kind: KindEmpty, Path: path}
	}
	doc.Text, doc.OCR = text, true
	return doc, nil
}

func (x *Extractor) ocrPDF(ctx context.Context, path, password string) (string, error) {
	dir, err := os.MkdirTemp("", "eduquiz_pages_*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{"-r", strconv.Itoa(x.dpi), "-png", "-f", "1", "-l", strconv.Itoa(x.ocrPages)}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, path, filepath.Join(dir, "page"))
	if _, err := x.tool(ctx, "pdftoppm", args...); err != nil {
		return "", x.classify(path, err)
	}

	pages, err := renderedPages(dir)
	if err != nil {
		return "", fmt.Errorf("list rendered pages: %w", err)
	}
	var parts []string
	for _, p := range pages {
		text, err := x.ocr(ctx, p)
		if err != nil {
			return "", x.classify(path, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Image runs OCR over a single image.
func (x *Extractor) Image(ctx context.Context, path string) (*Document, error) {
	text, err := x.ocr(ctx, path)
	if err != nil {
		return nil, x.classify(path, err)
	}
	if text == "" {
		return nil, &ExtractError{Kind: KindEmpty, Path: path}
	}
	return &Document{Name: filepath.Base(path), Text: text, OCR: true}, nil
}

// Text reads a UTF-8 or UTF-16 text file. A byte order mark picks the
// encoding; without one UTF-8 is assumed.
func (x *Extractor) Text(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractError{Kind: KindInvalidDocument, Path: path, Err: err}
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(f, dec))
	if err != nil {
		return nil, &ExtractError{Kind: KindInvalidDocument, Path: path, Err: err}
	}
	text := Clean(string(b))
	if text == "" {
		return nil, &ExtractError{Kind: KindEmpty, Path: path}
	}
	return &Document{Name: filepath.Base(path), Text: text}, nil
}

func (x *Extractor) ocr(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout"}
	if x.lang != "" {
		args = append(args, "-l", x.lang)
	}
	out, err := x.tool(ctx, "tesseract", args...)
	if err != nil {
		return "", err
	}
	return Clean(string(out)), nil
}

func (x *Extractor) tool(ctx context.Context, name string, args ...string) ([]byte, error) {
	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}
	return x.run.Run(ctx, name, args...)
}

// classifyPDF inspects a PDF that pdftotext refused. pdftotext runs quiet, so
// the reason is read from pdfinfo instead.
func (x *Extractor) classifyPDF(ctx context.Context, path, password string, err error) error {
	if isNotFound(err) {
		return x.classify(path, err)
	}
	args := []string{path}
	if password != "" {
		args = []string{"-upw", password, path}
	}
	if _, perr := x.tool(ctx, "pdfinfo", args...); perr != nil {
		return x.classify(path, perr)
	}
	return x.classify(path, err)
}

func (x *Extractor) classify(path string, err error) error {
	var xe *ExtractError
	if errors.As(err, &xe) {
		return err
	}
	if isNotFound(err) {
		return &ExtractError{Kind: KindToolMissing, Path: path, Err: err}
	}
	var te *ToolError
	if errors.As(err, &te) && strings.Contains(strings.ToLower(te.Stderr), "password") {
		return &ExtractError{Kind: KindPasswordRequired, Path: path, Err: err}
	}
	return &ExtractError{Kind: KindInvalidDocument, Path: path, Err: err}
}

var pageFile = regexp.MustCompile(`^page-\d+\.png$`)

func renderedPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && pageFile.MatchString(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	// pdftoppm zero-pads page numbers to the width of the page count.
	sort.Strings(out)
	return out, nil
}

// Clean collapses all whitespace runs to single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
