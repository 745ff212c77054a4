package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"
)

type fakePutter struct {
	inputs []*awss3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(data))
	return &awss3.PutObjectOutput{}, nil
}

func TestS3Upload(t *testing.T) {
	fake := &fakePutter{}
	s := newS3(fake, S3Options{Bucket: "digests", Prefix: "lectures"})

	if err := s.Upload(context.Background(), "week1/summary_week1.json", bytes.NewBufferString("{}")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if got := aws.ToString(in.Bucket); got != "digests" {
		t.Errorf("Bucket = %q", got)
	}
	if got := aws.ToString(in.Key); got != "lectures/week1/summary_week1.json" {
		t.Errorf("Key = %q", got)
	}
	if got := aws.ToString(in.ContentType); got != "application/json" {
		t.Errorf("ContentType = %q", got)
	}
	if fake.bodies[0] != "{}" {
		t.Errorf("body = %q", fake.bodies[0])
	}
}

func TestS3UploadError(t *testing.T) {
	s := newS3(&fakePutter{err: errors.New("access denied")}, S3Options{Bucket: "b"})
	if err := s.Upload(context.Background(), "k.vtt", bytes.NewBufferString("x")); err == nil {
		t.Error("Upload() should fail when PutObject fails")
	}
}

func TestKeyWithoutPrefix(t *testing.T) {
	s := newS3(&fakePutter{}, S3Options{Bucket: "b"})
	if got := s.Key("a/b.json"); got != "a/b.json" {
		t.Errorf("Key() = %q", got)
	}
}

type memUploader map[string]string

func (m memUploader) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m[key] = string(data)
	return nil
}

func TestPublishFiles(t *testing.T) {
	dir := t.TempDir()
	vtt := filepath.Join(dir, "talk.vtt")
	js := filepath.Join(dir, "summary_talk.json")
	os.WriteFile(vtt, []byte("WEBVTT\n\n"), 0644)
	os.WriteFile(js, []byte(`{"summary_data":{}}`), 0644)

	up := memUploader{}
	keys, err := PublishFiles(context.Background(), up, "talk", vtt, "", js)
	if err != nil {
		t.Fatalf("PublishFiles() error = %v", err)
	}

	if diff := cmp.Diff([]string{"talk/talk.vtt", "talk/summary_talk.json"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string]string{
		"talk/talk.vtt":          "WEBVTT\n\n",
		"talk/summary_talk.json": `{"summary_data":{}}`,
	}
	if diff := cmp.Diff(want, map[string]string(up)); diff != "" {
		t.Errorf("uploaded objects mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishFilesMissing(t *testing.T) {
	_, err := PublishFiles(context.Background(), memUploader{}, "x", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("PublishFiles() should fail for a missing file")
	}
}
