package s3object

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(params.Bucket), aws.ToString(params.Key))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestParseLocation(t *testing.T) {
	bucket, key, err := ParseLocation("s3://marketing/data/campaigns.csv")
	require.NoError(t, err)
	assert.Equal(t, "marketing", bucket)
	assert.Equal(t, "data/campaigns.csv", key)

	for _, bad := range []string{"marketing/campaigns.csv", "s3://marketing", "s3:///key", "http://x/y"} {
		_, _, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestObjectSource_Load(t *testing.T) {
	client := new(mockClient)
	body := "Channel,Spend,Revenue,Impressions,Clicks,Conversions\nEmail,100,300,1000,100,10\n"
	client.On("GetObject", mock.Anything, "marketing", "campaigns.csv").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil)

	src := NewSource(client, "marketing", "campaigns.csv")
	assert.Equal(t, "s3://marketing/campaigns.csv", src.Name())

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Email", records[0].Channel)
	assert.Equal(t, 300.0, records[0].Revenue)
	client.AssertExpectations(t)
}

func TestObjectSource_LoadError(t *testing.T) {
	client := new(mockClient)
	client.On("GetObject", mock.Anything, "marketing", "missing.csv").
		Return(nil, errors.New("NoSuchKey"))

	_, err := NewSource(client, "marketing", "missing.csv").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
}
