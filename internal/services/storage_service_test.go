package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/config"
)

// fakeS3 keeps objects in memory. Only the calls the storage service makes
// are implemented.
type fakeS3 struct {
	s3iface.S3API

	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	deleted  []string
	failPuts bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPuts {
		return nil, errors.New("bucket unavailable")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = body
	f.types[aws.StringValue(in.Key)] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.StringValue(in.Key))
	f.deleted = append(f.deleted, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var testAWSConfig = config.AWSConfig{
	Region:    "ap-southeast-1",
	S3Bucket:  "budaya-media",
	PublicURL: "https://cdn.budayachain.id",
}

// formFile builds a multipart upload the way gin hands it to handlers.
func formFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	header := form.File["images"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func pngBytes() []byte {
	return append(append([]byte{}, pngMagic...), 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1)
}

func TestStorageDisabledWithoutCredentials(t *testing.T) {
	svc, err := NewStorageService(config.AWSConfig{})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	file, header := formFile(t, "batik.png", pngBytes())
	_, err = svc.UploadFile(context.Background(), file, header, svc.ProductImageOptions())
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, err = svc.UploadJSON(context.Background(), "metadata/x.json", map[string]string{})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestUploadImage(t *testing.T) {
	client := newFakeS3()
	svc := NewStorageServiceWithClient(client, testAWSConfig)

	file, header := formFile(t, "Batik.PNG", pngBytes())
	result, err := svc.UploadFile(context.Background(), file, header, svc.ProductImageOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "products/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "https://cdn.budayachain.id/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Len(t, result.SHA256, 64)
	assert.Equal(t, pngBytes(), client.objects[result.Key])
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	svc := NewStorageServiceWithClient(newFakeS3(), testAWSConfig)
	opts := svc.ProductImageOptions()

	file, header := formFile(t, "notes.txt", []byte("hello"))
	_, err := svc.UploadFile(context.Background(), file, header, opts)
	assert.ErrorIs(t, err, ErrInvalidUpload)

	// extension says image, content does not
	file, header = formFile(t, "fake.jpg", []byte("<html></html>"))
	_, err = svc.UploadFile(context.Background(), file, header, opts)
	assert.ErrorIs(t, err, ErrInvalidUpload)

	opts.MaxSize = 4
	file, header = formFile(t, "big.png", pngBytes())
	_, err = svc.UploadFile(context.Background(), file, header, opts)
	assert.ErrorIs(t, err, ErrInvalidUpload)
}

func TestUploadPropagatesS3Errors(t *testing.T) {
	client := newFakeS3()
	client.failPuts = true
	svc := NewStorageServiceWithClient(client, testAWSConfig)

	_, err := svc.UploadJSON(context.Background(), "metadata/x.json", map[string]string{"name": "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidUpload)
}

func TestPublicURL(t *testing.T) {
	svc := NewStorageServiceWithClient(newFakeS3(), config.AWSConfig{Region: "ap-southeast-1", S3Bucket: "media"})
	assert.Equal(t, "https://media.s3.ap-southeast-1.amazonaws.com/a.png", svc.PublicURL("a.png"))

	svc = NewStorageServiceWithClient(newFakeS3(), config.AWSConfig{S3Bucket: "media", Endpoint: "http://minio:9000/"})
	assert.Equal(t, "http://minio:9000/media/a.png", svc.PublicURL("a.png"))
}
