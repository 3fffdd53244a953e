package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer
)

// ErrNotPDF is returned for payloads without a PDF header
var ErrNotPDF = errors.New("pdf: not a PDF document")

// Digest summarizes a resume document
type Digest struct {
	Pages     int    `json:"pages"`
	Words     int    `json:"words"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Encrypted bool   `json:"encrypted"`
}

// IsPDF checks the magic header without parsing the document
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

// Inspect opens the document and counts pages and words of extracted text
func Inspect(data []byte) (*Digest, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	digest := &Digest{Pages: doc.NumPage()}

	meta := doc.Metadata()
	digest.Title = metaValue(meta["title"])
	digest.Author = metaValue(meta["author"])

	for i := 0; i < digest.Pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			// Encrypted documents open but refuse text extraction
			digest.Encrypted = true
			break
		}
		digest.Words += len(strings.Fields(text))
	}

	return digest, nil
}

// metaValue strips the NUL padding of fixed-size metadata buffers
func metaValue(v string) string {
	if i := strings.IndexByte(v, 0); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
