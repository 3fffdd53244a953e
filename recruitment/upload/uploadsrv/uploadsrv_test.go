package uploadsrv

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx/fsxlocal"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLocalService(t *testing.T, cfg upload.Config) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	local, err := fsxlocal.NewLocalFileSystem(dir)
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return NewService(local, cfg), dir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestStore_RoundTrip(t *testing.T) {
	svc, dir := newLocalService(t, upload.DefaultConfig())
	ctx := context.Background()

	stored, err := svc.Store(ctx, upload.StoreRequest{
		Data:     []byte("%PDF-1.7 resume"),
		FileName: "My Resume.PDF",
		Size:     15,
	})
	require.NoError(t, err)

	assert.Equal(t, "pdf", stored.Extension)
	assert.True(t, strings.HasSuffix(stored.Name, ".pdf"))
	assert.Equal(t, upload.DefaultPublicPrefix+stored.Name, stored.Reference.String())
	assert.Equal(t, "application/pdf", stored.ContentType)
	assert.Len(t, stored.Checksum, 64)
	assert.Len(t, dirEntries(t, dir), 1)

	rc, info, err := svc.Load(ctx, stored.Reference.String())
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 resume", string(data))
	assert.Equal(t, stored.Name, info.Name)
	assert.Equal(t, "application/pdf", info.ContentType)

	// the bare stored name resolves too
	data, _, err = svc.ReadFile(ctx, stored.Name)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 resume", string(data))
}

func TestStore_SameContentGetsDistinctReferences(t *testing.T) {
	svc, dir := newLocalService(t, upload.DefaultConfig())
	ctx := context.Background()

	req := upload.StoreRequest{Data: []byte("same bytes"), FileName: "cv.docx"}
	a, err := svc.Store(ctx, req)
	require.NoError(t, err)
	b, err := svc.Store(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, a.Reference, b.Reference)
	assert.Equal(t, a.Checksum, b.Checksum)
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestStore_ValidationRejectsBeforeWriting(t *testing.T) {
	cfg := upload.Config{MaxFileSize: 8, AllowedExtensions: []string{"pdf", "doc", "docx"}}

	tests := []struct {
		name string
		req  upload.StoreRequest
		code errx.Code
	}{
		{"empty payload", upload.StoreRequest{FileName: "cv.pdf"}, upload.CodeEmptyFile},
		{"payload over limit", upload.StoreRequest{Data: []byte("123456789"), FileName: "cv.pdf"}, upload.CodeFileTooLarge},
		{"declared size over limit", upload.StoreRequest{Data: []byte("1"), FileName: "cv.pdf", Size: 9}, upload.CodeFileTooLarge},
		{"extension not allowed", upload.StoreRequest{Data: []byte("MZ"), FileName: "virus.exe"}, upload.CodeInvalidFileType},
		{"no extension", upload.StoreRequest{Data: []byte("x"), FileName: "resume"}, upload.CodeInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newLocalService(t, cfg)

			stored, err := svc.Store(context.Background(), tt.req)
			assert.Nil(t, stored)
			assert.True(t, errx.HasCode(err, tt.code), "got %v", err)
			assert.True(t, errx.IsType(err, errx.TypeValidation))
			assert.Empty(t, dirEntries(t, dir))
		})
	}
}

func TestStore_SizeExactlyAtLimitIsAccepted(t *testing.T) {
	svc, _ := newLocalService(t, upload.Config{MaxFileSize: 4, AllowedExtensions: []string{"pdf"}})

	_, err := svc.Store(context.Background(), upload.StoreRequest{Data: []byte("1234"), FileName: "a.pdf", Size: 4})
	assert.NoError(t, err)
}

func TestLoad_MissingFileIsNotFound(t *testing.T) {
	svc, _ := newLocalService(t, upload.DefaultConfig())

	_, _, err := svc.Load(context.Background(), "/api/applications/files/00000000-0000-0000-0000-000000000000.pdf")
	assert.True(t, errx.HasCode(err, upload.CodeFileNotFound))
}

func TestLoad_TraversalIsNotFound(t *testing.T) {
	svc, dir := newLocalService(t, upload.DefaultConfig())

	secret := filepath.Join(filepath.Dir(dir), "secret.pdf")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o600))

	for _, ref := range []string{
		"../secret.pdf",
		"/api/applications/files/../secret.pdf",
		"..%2Fsecret.pdf/../../secret.pdf",
		"/etc/passwd",
		"..",
		"",
		`..\secret.pdf`,
	} {
		_, _, err := svc.Load(context.Background(), ref)
		assert.True(t, errx.HasCode(err, upload.CodeFileNotFound), "ref %q: %v", ref, err)
	}
}

type mockFileSystem struct {
	mock.Mock
}

var _ fsx.FileSystem = (*mockFileSystem)(nil)

func (m *mockFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	args := m.Called(p)
	return nil, args.Error(1)
}

func (m *mockFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return m.Called(p, data).Error(0)
}

func (m *mockFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	return m.Called(p).Error(0)
}

func (m *mockFileSystem) DeleteFile(ctx context.Context, p string) error {
	return m.Called(p).Error(0)
}

func (m *mockFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	args := m.Called(p)
	return args.Bool(0), args.Error(1)
}

func (m *mockFileSystem) Join(elem ...string) string {
	return strings.Join(elem, "/")
}

func TestLoad_TraversalNeverReachesBackend(t *testing.T) {
	fs := new(mockFileSystem)
	svc := NewService(fs, upload.DefaultConfig())

	_, _, err := svc.Load(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	require.NoError(t, svc.Delete(context.Background(), "../../etc/passwd"))
	fs.AssertNotCalled(t, "ReadFileStream", mock.Anything)
	fs.AssertNotCalled(t, "DeleteFile", mock.Anything)
}

func TestStore_BackendFailureIsInternal(t *testing.T) {
	fs := new(mockFileSystem)
	svc := NewService(fs, upload.DefaultConfig())
	fs.On("WriteFile", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := svc.Store(context.Background(), upload.StoreRequest{Data: []byte("x"), FileName: "a.pdf"})
	assert.True(t, errx.HasCode(err, upload.CodeStorageFailed))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLoad_BackendNotExistIsNotFound(t *testing.T) {
	fs := new(mockFileSystem)
	svc := NewService(fs, upload.DefaultConfig())
	fs.On("ReadFileStream", "a.pdf").Return(nil, fsx.ErrNotExist).Once()

	_, _, err := svc.Load(context.Background(), "a.pdf")
	assert.True(t, errx.HasCode(err, upload.CodeFileNotFound))
	fs.AssertExpectations(t)
}

func TestDelete_IsIdempotent(t *testing.T) {
	svc, dir := newLocalService(t, upload.DefaultConfig())
	ctx := context.Background()

	stored, err := svc.Store(ctx, upload.StoreRequest{Data: []byte("x"), FileName: "a.doc"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, stored.Reference.String()))
	require.NoError(t, svc.Delete(ctx, stored.Reference.String()))
	assert.Empty(t, dirEntries(t, dir))

	_, _, err = svc.Load(ctx, stored.Name)
	assert.True(t, errx.HasCode(err, upload.CodeFileNotFound))
}

func TestDelete_BackendNotExistIsIgnored(t *testing.T) {
	fs := new(mockFileSystem)
	svc := NewService(fs, upload.DefaultConfig())
	fs.On("DeleteFile", "a.pdf").Return(fsx.ErrNotExist).Once()

	assert.NoError(t, svc.Delete(context.Background(), "a.pdf"))
	fs.AssertExpectations(t)
}
