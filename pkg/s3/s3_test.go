package s3

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, cfg *aws.Config) *Client {
	sess, err := session.NewSession(cfg)
	assert.NoError(t, err)
	return &Client{s3Client: awss3.New(sess), bucket: "archive"}
}

func TestObjectURL_AWS(t *testing.T) {
	c := newTestClient(t, &aws.Config{Region: aws.String("eu-west-1")})
	assert.Equal(t, "https://archive.s3.eu-west-1.amazonaws.com/prize-results/l-1.json", c.objectURL("prize-results/l-1.json"))
}

func TestObjectURL_MinIO(t *testing.T) {
	c := newTestClient(t, &aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String("http://localhost:9000"),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(true),
	})
	assert.Equal(t, "http://localhost:9000/archive/k.json", c.objectURL("k.json"))
}
