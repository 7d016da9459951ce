package s3archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

type fakeS3 struct {
	key    string
	bucket string
	body   []byte
	meta   map[string]string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.bucket = aws.ToString(in.Bucket)
	f.meta = in.Metadata
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestSink_DeliverWritesDatedKey(t *testing.T) {
	client := &fakeS3{}
	sink := newSink(client, "leads-bucket", "/archive/")

	l := lead.Lead{
		ID:             "lead-9",
		CreatedAt:      time.Date(2024, 11, 5, 23, 30, 0, 0, time.FixedZone("PST", -8*3600)),
		Source:         lead.SourceAPI,
		Recommendation: assessment.CareRecommendation{Type: assessment.CareTypeAssistedLiving},
	}
	require.NoError(t, sink.Deliver(context.Background(), l))

	assert.Equal(t, "leads-bucket", client.bucket)
	assert.Equal(t, "archive/2024/11/06/lead-9.json", client.key)
	assert.Equal(t, "Assisted Living", client.meta["care-type"])

	var decoded lead.Lead
	require.NoError(t, json.Unmarshal(client.body, &decoded))
	assert.Equal(t, "lead-9", decoded.ID)
}

func TestSink_KeyWithoutPrefix(t *testing.T) {
	sink := newSink(&fakeS3{}, "b", "")
	key := sink.Key(lead.Lead{ID: "x", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, "2024/01/02/x.json", key)
}

func TestSink_DeliverWrapsErrors(t *testing.T) {
	sink := newSink(&fakeS3{err: errors.New("access denied")}, "b", "")
	err := sink.Deliver(context.Background(), lead.Lead{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
