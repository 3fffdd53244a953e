package uploadsrv

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Service stores untrusted resume uploads under collision-free names and
// serves them back by reference
type Service struct {
	fileSystem fsx.FileSystem
	cfg        upload.Config
	now        func() time.Time
}

func NewService(fileSystem fsx.FileSystem, cfg upload.Config) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = upload.DefaultMaxFileSize
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = upload.DefaultAllowedExtensions
	}
	return &Service{
		fileSystem: fileSystem,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Config returns the effective configuration
func (s *Service) Config() upload.Config {
	return s.cfg
}

// Store validates the upload and writes it under a fresh <uuid>.<ext> name.
// Nothing reaches the file system unless every check passes.
func (s *Service) Store(ctx context.Context, req upload.StoreRequest) (*upload.StoredFile, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	ext := upload.Extension(req.FileName)
	id := kernel.NewFileID(uuid.NewString())
	name := id.String() + "." + ext

	if err := s.fileSystem.WriteFile(ctx, name, req.Data); err != nil {
		return nil, upload.ErrStorageFailed().
			WithCause(err).
			WithDetail("file", name)
	}

	sum := blake2b.Sum256(req.Data)

	logx.WithFields(logx.Fields{
		"file": name,
		"size": len(req.Data),
	}).Info("Stored uploaded file")

	return &upload.StoredFile{
		ID:          id,
		Name:        name,
		Extension:   ext,
		Reference:   s.Reference(name),
		Size:        int64(len(req.Data)),
		ContentType: upload.ContentTypeFor(name),
		Checksum:    hex.EncodeToString(sum[:]),
		StoredAt:    s.now(),
	}, nil
}

func (s *Service) validate(req upload.StoreRequest) error {
	if len(req.Data) == 0 {
		return upload.ErrEmptyFile().WithDetail("file_name", req.FileName)
	}

	size := max(req.Size, int64(len(req.Data)))
	if size > s.cfg.MaxFileSize {
		return upload.ErrFileTooLarge().
			WithDetail("size", size).
			WithDetail("max_size", s.cfg.MaxFileSize).
			WithDetail("max_size_mb", s.cfg.MaxFileSize/1024/1024)
	}

	if !s.cfg.Allows(upload.Extension(req.FileName)) {
		return upload.ErrInvalidFileType().
			WithDetail("file_name", req.FileName).
			WithDetail("allowed_extensions", strings.Join(s.cfg.AllowedExtensions, ","))
	}

	return nil
}

// Load opens a stored file. ref may be the full reference or the bare name.
// The caller closes the returned reader.
func (s *Service) Load(ctx context.Context, ref string) (io.ReadCloser, *upload.StoredFile, error) {
	name, ok := s.resolve(ref)
	if !ok {
		return nil, nil, upload.ErrFileNotFound().WithDetail("file", ref)
	}

	rc, err := s.fileSystem.ReadFileStream(ctx, name)
	if err != nil {
		if errors.Is(err, fsx.ErrNotExist) || errors.Is(err, fsx.ErrInvalidPath) {
			return nil, nil, upload.ErrFileNotFound().WithDetail("file", name)
		}
		return nil, nil, errx.Wrap(err, "failed to read stored file", errx.TypeInternal).
			WithDetail("file", name)
	}

	return rc, s.describe(name), nil
}

// ReadFile loads a stored file fully into memory
func (s *Service) ReadFile(ctx context.Context, ref string) ([]byte, *upload.StoredFile, error) {
	rc, info, err := s.Load(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, nil, errx.Wrap(err, "failed to read stored file", errx.TypeInternal).
			WithDetail("file", info.Name)
	}
	info.Size = int64(len(data))
	return data, info, nil
}

// Delete removes a stored file. Missing files and references that could
// never have been produced by Store are ignored.
func (s *Service) Delete(ctx context.Context, ref string) error {
	name, ok := s.resolve(ref)
	if !ok {
		return nil
	}

	if err := s.fileSystem.DeleteFile(ctx, name); err != nil {
		if errors.Is(err, fsx.ErrNotExist) || errors.Is(err, fsx.ErrInvalidPath) {
			return nil
		}
		return errx.Wrap(err, "failed to delete stored file", errx.TypeInternal).
			WithDetail("file", name)
	}

	logx.WithFields(logx.Fields{"file": name}).Info("Deleted stored file")
	return nil
}

// Reference builds the caller-facing reference for a stored name
func (s *Service) Reference(name string) kernel.ResumeURL {
	return kernel.ResumeURL(s.cfg.Prefix() + name)
}

// Owns reports whether ref points into this store
func (s *Service) Owns(ref string) bool {
	_, ok := s.resolve(ref)
	return ok
}

func (s *Service) describe(name string) *upload.StoredFile {
	return &upload.StoredFile{
		ID:          kernel.NewFileID(strings.TrimSuffix(name, filepath.Ext(name))),
		Name:        name,
		Extension:   upload.Extension(name),
		Reference:   s.Reference(name),
		ContentType: upload.ContentTypeFor(name),
	}
}

// resolve reduces ref to a single local path element, or reports false
func (s *Service) resolve(ref string) (string, bool) {
	name := strings.TrimPrefix(strings.TrimSpace(ref), s.cfg.Prefix())

	if name == "" || name == "." || name == ".." {
		return "", false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return "", false
	}
	if !filepath.IsLocal(name) {
		return "", false
	}
	return name, true
}
