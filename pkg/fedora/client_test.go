package fedora

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStream(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("<oai_dc:dc/>"))
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL, nil).GetStream(context.Background(), "vudl:5", "DC")
	require.NoError(t, err)
	assert.Equal(t, "<oai_dc:dc/>", string(data))
	assert.Equal(t, "/objects/vudl:5/datastreams/DC/content", gotPath)
}

func TestGetStream_Missing(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		status int
	}{
		{"empty body", 200, "", 200},
		{"not found", 404, "Object not found", 404},
		{"server error with body", 500, "stack trace", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).GetStream(context.Background(), "vudl:5", "DC")
			var ms *MissingStreamError
			require.ErrorAs(t, err, &ms)
			assert.EqualValues(t, "vudl:5", ms.ObjectID)
			assert.EqualValues(t, "DC", ms.Stream)
			assert.Equal(t, tt.status, ms.StatusCode)
			assert.Contains(t, ms.Error(), "no DC stream on vudl:5")
		})
	}
}

func TestGetStream_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, nil).GetStream(context.Background(), "vudl:5", "DC")
	var ms *MissingStreamError
	require.ErrorAs(t, err, &ms)
	assert.Error(t, ms.Unwrap())
}

func TestPutStream(t *testing.T) {
	var (
		gotMethod, gotPath, gotCT, gotMime string
		gotBody                            []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotMime = r.URL.Query().Get("mimeType")
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, nil).PutStream(context.Background(), "vudl:5", "DC", []byte("<new/>"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/objects/vudl:5/datastreams/DC", gotPath)
	assert.Equal(t, "application/xml", gotMime)
	assert.Equal(t, "application/xml", gotCT)
	assert.Equal(t, []byte("<new/>"), gotBody)
}

func TestPutStream_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, nil).PutStream(context.Background(), "vudl:5", "DC", []byte("<new/>"))
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, 500, we.StatusCode)
	assert.Contains(t, we.Error(), "error 500 PUT-ing DC to ")
	assert.Contains(t, we.URL, "?mimeType=application/xml")
}

func TestPutStream_NoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	err := NewClient(base, nil).PutStream(context.Background(), "vudl:5", "DC", []byte("x"))
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Zero(t, we.StatusCode)
	assert.Error(t, we.Unwrap())
}
