package hosting

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("key"))

		decoded, err := base64.StdEncoding.DecodeString(r.PostForm.Get("image"))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(decoded))

		_, _ = w.Write([]byte(`{"data":{"url":"https://i.ibb.co/abc/chair.png"},"success":true}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithUploadURL(server.URL))

	url, err := client.Upload(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/chair.png", url)
}

func TestUploadMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{},"success":false}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithUploadURL(server.URL))

	_, err := client.Upload(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URL")
}

func TestIsHosted(t *testing.T) {
	assert.True(t, IsHosted("https://i.ibb.co/abc/x.png"))
	assert.True(t, IsHosted("https://ibb.co/abc"))
	assert.False(t, IsHosted("https://imgur.com/x.png"))
	assert.False(t, IsHosted(""))
}
