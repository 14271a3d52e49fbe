package storage

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"docmarket/internal/config"
)

func TestNewMinIO_RequiresSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{name: "endpoint", cfg: config.MinIOConfig{}, want: "endpoint"},
		{name: "credentials", cfg: config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "docs"}, want: "credentials"},
		{name: "bucket", cfg: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, want: "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSpanName(t *testing.T) {
	r := httptest.NewRequest("PUT", "http://localhost:9000/docs/documents/a.pdf", nil)
	assert.Equal(t, "minio PUT", spanName("", r))
}
