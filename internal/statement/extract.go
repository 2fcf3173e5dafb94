package statement

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// DefaultInflateLimit caps the decompressed size of all streams of one document
// when no limit is configured.
const DefaultInflateLimit int64 = 64 << 20

// ErrInflateLimit is returned when a document's Flate streams decompress to more
// than the document's inflate budget.
var ErrInflateLimit = errors.New("decompressed statement content exceeds the inflate limit")

// Extractor recovers plain text from a statement document.
type Extractor interface {
	Name() string
	Extract(doc *Document) (string, error)
}

// Document is an uploaded statement. Its Flate streams are decompressed at most
// once, lazily, and shared by every extractor that scans them.
type Document struct {
	Raw          []byte
	inflateLimit int64

	once    sync.Once
	sources [][]byte
	err     error
}

// NewDocument wraps raw. inflateLimit bounds the total decompressed size of all
// streams; zero or less means DefaultInflateLimit.
func NewDocument(raw []byte, inflateLimit int64) *Document {
	if inflateLimit <= 0 {
		inflateLimit = DefaultInflateLimit
	}
	return &Document{Raw: raw, inflateLimit: inflateLimit}
}

// ContentSources returns the raw document followed by every stream that inflates.
func (d *Document) ContentSources() ([][]byte, error) {
	d.once.Do(func() {
		d.sources, d.err = inflateStreams(d.Raw, d.inflateLimit)
	})
	return d.sources, d.err
}

// Extraction is the text recovered from a document and the strategy that produced it.
type Extraction struct {
	Strategy string
	Text     string
}

// DefaultExtractors is the strategy chain, most faithful first.
func DefaultExtractors() []Extractor {
	return []Extractor{
		plainTextExtractor{},
		pdfReaderExtractor{},
		textBlockExtractor{},
		parenthesizedExtractor{},
		printableExtractor{},
	}
}

// ExtractText runs the chain and returns the first result with at least minLen
// characters. When every strategy falls short the longest text is returned with ok=false.
// Streams are inflated before any strategy runs; a document over its inflate budget
// fails with ErrInflateLimit.
func ExtractText(doc *Document, extractors []Extractor, minLen int) (best Extraction, ok bool, err error) {
	if _, err := doc.ContentSources(); err != nil {
		return best, false, err
	}
	for _, ex := range extractors {
		text, err := ex.Extract(doc)
		if err != nil {
			if errors.Is(err, ErrInflateLimit) {
				return best, false, err
			}
			continue
		}
		text = strings.TrimSpace(text)
		n := utf8.RuneCountInString(text)
		if n >= minLen {
			return Extraction{Strategy: ex.Name(), Text: text}, true, nil
		}
		if n > utf8.RuneCountInString(best.Text) {
			best = Extraction{Strategy: ex.Name(), Text: text}
		}
	}
	return best, false, nil
}

var pdfMagic = []byte("%PDF-")

// plainTextExtractor accepts documents that are already text, such as exports
// pasted into a .txt file.
type plainTextExtractor struct{}

func (plainTextExtractor) Name() string { return "plain_text" }

func (plainTextExtractor) Extract(d *Document) (string, error) {
	doc := d.Raw
	if bytes.HasPrefix(bytes.TrimSpace(doc), pdfMagic) {
		return "", fmt.Errorf("document is a PDF")
	}
	if !utf8.Valid(doc) || bytes.IndexByte(doc, 0) >= 0 {
		return "", fmt.Errorf("document is not text")
	}
	return string(doc), nil
}

// pdfReaderExtractor uses the ledongthuc/pdf document model. The library panics on
// some malformed files, which is turned into an error.
type pdfReaderExtractor struct{}

func (pdfReaderExtractor) Name() string { return "pdf_reader" }

func (pdfReaderExtractor) Extract(d *Document) (text string, err error) {
	doc := d.Raw
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", err
	}
	if r.NumPage() == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}
	}
	if sb.Len() > 0 {
		return sb.String(), nil
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// textBlockExtractor walks BT/ET text objects in the raw file and in every
// Flate-decoded stream.
type textBlockExtractor struct{}

func (textBlockExtractor) Name() string { return "text_blocks" }

func (textBlockExtractor) Extract(d *Document) (string, error) {
	sources, err := d.ContentSources()
	if err != nil {
		return "", err
	}
	var parts []string
	for _, content := range sources {
		if text := scanTextObjects(content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// parenthesizedExtractor collects every literal string, ignoring operators.
type parenthesizedExtractor struct{}

func (parenthesizedExtractor) Name() string { return "parenthesized" }

func (parenthesizedExtractor) Extract(d *Document) (string, error) {
	sources, err := d.ContentSources()
	if err != nil {
		return "", err
	}
	var parts []string
	for _, content := range sources {
		for i := 0; i < len(content); i++ {
			if content[i] != '(' {
				continue
			}
			lit, next := readLiteral(content, i)
			i = next - 1
			if s := strings.TrimSpace(cleanText(lit)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " "), nil
}

// printableExtractor keeps runs of at least four printable ASCII characters.
type printableExtractor struct{}

func (printableExtractor) Name() string { return "printable" }

func (printableExtractor) Extract(d *Document) (string, error) {
	doc := d.Raw
	const minRun = 4
	var (
		parts []string
		run   []byte
	)
	flush := func() {
		if len(run) >= minRun {
			parts = append(parts, string(run))
		}
		run = run[:0]
	}
	for _, b := range doc {
		if (b >= 0x20 && b < 0x7f) || b == '\t' {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(parts, "\n"), nil
}

func inflateStreams(doc []byte, limit int64) ([][]byte, error) {
	sources := [][]byte{doc}
	remaining := limit
	for _, s := range findStreams(doc) {
		inflated, ok, err := inflate(s, remaining)
		if err != nil {
			return nil, fmt.Errorf("%w: limit is %d bytes", err, limit)
		}
		if ok {
			remaining -= int64(len(inflated))
			sources = append(sources, inflated)
		}
	}
	return sources, nil
}

func findStreams(data []byte) [][]byte {
	var (
		streams   [][]byte
		begin     = []byte("stream")
		endMarker = []byte("endstream")
	)
	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], begin)
		if idx < 0 {
			break
		}
		start := offset + idx + len(begin)
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}
		end := bytes.Index(data[start:], endMarker)
		if end < 0 {
			break
		}
		if end > 0 {
			streams = append(streams, data[start:start+end])
		}
		offset = start + end + len(endMarker)
	}
	return streams
}

// inflate decompresses one Flate stream, reading at most budget+1 bytes so an
// oversized stream is detected without being materialized.
func inflate(data []byte, budget int64) ([]byte, bool, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, false, nil
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, budget+1))
	if int64(len(out)) > budget {
		return nil, false, ErrInflateLimit
	}
	if err != nil && len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}
