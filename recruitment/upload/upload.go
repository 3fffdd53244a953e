package upload

import (
	"slices"
	"strings"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
)

const (
	DefaultMaxFileSize  int64 = 10 * 1024 * 1024
	DefaultPublicPrefix       = "/api/applications/files/"
)

var DefaultAllowedExtensions = []string{"pdf", "doc", "docx"}

// Config controls what the file store accepts and how references look
type Config struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	PublicPrefix      string   `yaml:"public_prefix"`
}

func DefaultConfig() Config {
	return Config{
		MaxFileSize:       DefaultMaxFileSize,
		AllowedExtensions: slices.Clone(DefaultAllowedExtensions),
		PublicPrefix:      DefaultPublicPrefix,
	}
}

// Allows reports whether ext (without dot, any case) is on the allow-list
func (c Config) Allows(ext string) bool {
	ext = strings.ToLower(ext)
	if ext == "" {
		return false
	}
	return slices.Contains(c.AllowedExtensions, ext)
}

// Prefix returns the public prefix with exactly one trailing slash
func (c Config) Prefix() string {
	p := c.PublicPrefix
	if p == "" {
		p = DefaultPublicPrefix
	}
	return strings.TrimSuffix(p, "/") + "/"
}

// ParseExtensions turns "pdf, .DOC,docx" into ["pdf","doc","docx"]
func ParseExtensions(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if ext == "" || slices.Contains(out, ext) {
			continue
		}
		out = append(out, ext)
	}
	return out
}

// Extension returns the lower-cased text after the last dot of name, or ""
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// ContentTypeFor derives a media type from the file extension
func ContentTypeFor(name string) string {
	switch Extension(name) {
	case "pdf":
		return "application/pdf"
	case "doc":
		return "application/msword"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// StoreRequest is an untrusted upload as received from the client
type StoreRequest struct {
	Data     []byte
	FileName string
	// Size is the size declared by the client. Zero means unknown.
	Size int64
}

// StoredFile describes a file accepted by the store
type StoredFile struct {
	ID          kernel.FileID    `json:"id"`
	Name        string           `json:"name"`
	Extension   string           `json:"extension"`
	Reference   kernel.ResumeURL `json:"url"`
	Size        int64            `json:"size"`
	ContentType string           `json:"content_type"`
	Checksum    string           `json:"checksum,omitempty"`
	StoredAt    time.Time        `json:"stored_at"`
}

// UploadResponse is the body returned by the upload endpoint
type UploadResponse struct {
	URL      kernel.ResumeURL `json:"url"`
	Name     string           `json:"name"`
	Size     int64            `json:"size"`
	Checksum string           `json:"checksum,omitempty"`
	Message  string           `json:"message"`
}

func (f *StoredFile) ToResponse() UploadResponse {
	return UploadResponse{
		URL:      f.Reference,
		Name:     f.Name,
		Size:     f.Size,
		Checksum: f.Checksum,
		Message:  "File uploaded successfully",
	}
}
