package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	keys    []string
	objects map[string]string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3SourceLoad(t *testing.T) {
	client := &fakeS3{objects: map[string]string{}}
	for table, body := range fixture {
		client.objects["exports/latest/"+table+".csv"] = body
	}

	src := NewS3Source(client, "campaign-data", "exports/latest")
	ds, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Tracking, 2)
	assert.Equal(t, "s3://campaign-data/exports/latest", src.Name())
	assert.Contains(t, client.keys, "campaign-data/exports/latest/payouts.csv")
}

func TestS3SourceMissingObject(t *testing.T) {
	src := NewS3Source(&fakeS3{}, "campaign-data", "")

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
	assert.Contains(t, err.Error(), "influencers.csv")
}
