package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 records PutObject calls; every other S3API method panics.
type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, buf.Bytes())
	return &s3.PutObjectOutput{}, nil
}

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestUploader(t *testing.T, client *fakeS3, cfg S3Config) *LogoUploader {
	u := newLogoUploader(client, cfg, zaptest.NewLogger(t))
	u.now = func() time.Time { return time.Unix(1700000000, 0) }
	return u
}

func TestUploadLogo(t *testing.T) {
	client := &fakeS3{}
	u := newTestUploader(t, client, S3Config{Region: "eu-west-1", Bucket: "crm-logos"})
	id := uuid.New()

	url, err := u.UploadLogo(context.Background(), id, "Logo.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	key := "logos/" + id.String() + "/1700000000.png"
	assert.Equal(t, "https://crm-logos.s3.eu-west-1.amazonaws.com/"+key, url)
	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "crm-logos", aws.StringValue(in.Bucket))
	assert.Equal(t, key, aws.StringValue(in.Key))
	assert.Equal(t, "image/png", aws.StringValue(in.ContentType))
	assert.Equal(t, s3.ObjectCannedACLPublicRead, aws.StringValue(in.ACL))
	assert.Equal(t, pngHeader, client.bodies[0])
}

func TestUploadLogoCustomEndpoint(t *testing.T) {
	client := &fakeS3{}
	u := newTestUploader(t, client, S3Config{Region: "us-east-1", Bucket: "logos", Endpoint: "http://localhost:9000/"})

	url, err := u.UploadLogo(context.Background(), uuid.New(), "logo", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/logos/logos/"))
	assert.True(t, strings.HasSuffix(url, ".png"), "extension derived from content type")
}

func TestUploadLogoSVGByExtension(t *testing.T) {
	client := &fakeS3{}
	u := newTestUploader(t, client, S3Config{Region: "us-east-1", Bucket: "logos"})

	_, err := u.UploadLogo(context.Background(), uuid.New(), "logo.svg", strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", aws.StringValue(client.inputs[0].ContentType))
}

func TestUploadLogoRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		s3Err    error
		wantIs   error
	}{
		{name: "not an image", filename: "notes.txt", body: []byte("hello"), wantIs: ErrNotImage},
		{name: "too large", filename: "big.png", body: append(pngHeader, make([]byte, MaxLogoBytes)...)},
		{name: "s3 failure", filename: "logo.png", body: pngHeader, s3Err: errors.New("access denied")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeS3{err: tt.s3Err}
			u := newTestUploader(t, client, S3Config{Region: "us-east-1", Bucket: "logos"})

			_, err := u.UploadLogo(context.Background(), uuid.New(), tt.filename, bytes.NewReader(tt.body))
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.s3Err == nil {
				assert.Empty(t, client.inputs)
			}
		})
	}
}

func TestNewLogoUploaderRequiresBucket(t *testing.T) {
	_, err := NewLogoUploader(S3Config{Region: "us-east-1"}, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = NewLogoUploader(S3Config{Bucket: "logos"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
