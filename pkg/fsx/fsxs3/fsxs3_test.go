package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(args.Get(0).([]byte)))}, args.Error(1)
}

func (m *mockClient) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func (m *mockClient) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	return &s3.HeadObjectOutput{}, args.Error(0)
}

func TestS3FileSystem_KeysAreConfinedToPrefix(t *testing.T) {
	client := new(mockClient)
	fs := NewS3FileSystem(client, "bucket", "/uploads/")
	ctx := context.Background()

	client.On("PutObject", "uploads/resumes/a.pdf").Return(nil).Once()
	require.NoError(t, fs.WriteFile(ctx, "/resumes/a.pdf", []byte("x")))

	_, err := fs.ReadFile(ctx, "../other/secret")
	assert.ErrorIs(t, err, fsx.ErrInvalidPath)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "GetObject", mock.Anything)
}

func TestS3FileSystem_ReadMapsNoSuchKey(t *testing.T) {
	client := new(mockClient)
	fs := NewS3FileSystem(client, "bucket", "uploads")
	ctx := context.Background()

	client.On("GetObject", "uploads/a.pdf").Return([]byte("%PDF"), nil).Once()
	client.On("GetObject", "uploads/missing.pdf").Return(nil, &types.NoSuchKey{}).Once()

	data, err := fs.ReadFile(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	_, err = fs.ReadFile(ctx, "missing.pdf")
	assert.ErrorIs(t, err, fsx.ErrNotExist)
}

func TestS3FileSystem_DeleteAndExists(t *testing.T) {
	client := new(mockClient)
	fs := NewS3FileSystem(client, "bucket", "uploads")
	ctx := context.Background()

	client.On("DeleteObject", "uploads/a.pdf").Return(&types.NotFound{}).Once()
	client.On("HeadObject", "uploads/a.pdf").Return(&types.NotFound{}).Once()
	client.On("HeadObject", "uploads/b.pdf").Return(nil).Once()
	client.On("HeadObject", "uploads/c.pdf").Return(errors.New("throttled")).Once()

	assert.NoError(t, fs.DeleteFile(ctx, "a.pdf"))

	ok, err := fs.Exists(ctx, "a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = fs.Exists(ctx, "b.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = fs.Exists(ctx, "c.pdf")
	assert.Error(t, err)
}
