package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://finance/exports/2024.csv", "finance", "exports/2024.csv", false},
		{"gs://finance/t.xlsx", "finance", "t.xlsx", false},
		{"gs://finance", "", "", true},
		{"gs://finance/", "", "", true},
		{"gs:///file.csv", "", "", true},
		{"s3://finance/t.csv", "", "", true},
		{"/tmp/t.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "2024.csv", Filename("gs://finance/exports/2024.csv"))
	assert.Equal(t, "t.xlsx", Filename("gs://finance/t.xlsx"))
	assert.Equal(t, "finance", Filename("gs://finance"))
}

func TestIsURI(t *testing.T) {
	assert.True(t, IsURI("gs://b/o"))
	assert.False(t, IsURI("./local.csv"))
}

func TestNewClient_CredentialsFile(t *testing.T) {
	assert.Empty(t, NewClient("").opts)
	assert.Len(t, NewClient("/etc/creds.json").opts, 1)
}
