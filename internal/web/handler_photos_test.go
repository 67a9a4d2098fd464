package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureRejectsNonImage(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{})

	resp := postFrame(t, ts, []byte("just some text"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, listPhotos(t, ts))
}

func TestCaptureRequiresImageField(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/photos", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditCaptionRejectsBadBody(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{})
	photo := capturePhoto(t, ts, pngFrame)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/photos/"+photo.ID+"/caption", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOperationsOnAbsentIDAreNoOps(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{})

	resp := doJSON(t, http.MethodPut, ts.URL+"/photos/no-such-id/caption", `{"caption":"x"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/photos/no-such-id/position", `{"x":1,"y":2}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/photos/no-such-id/front", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/photos/no-such-id", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, listPhotos(t, ts))
}
