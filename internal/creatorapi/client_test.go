package creatorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensfolio/lensfolio/internal/photo"
	"github.com/lensfolio/lensfolio/internal/registration"
)

func samplePayload() registration.Payload {
	return registration.Payload{
		CreatorType: registration.Photographer,
		Profile: registration.Profile{
			FullName:     "Asha Rao",
			Email:        "asha@example.com",
			Phone:        "+91 98450 00000",
			Location:     "Bengaluru",
			Availability: "weekends",
		},
		Services: []registration.ServiceSelection{
			{ServiceName: "wedding_photography", Price: 500, Unit: registration.UnitPerSession},
		},
		Portfolio:      []string{"https://example.com/a"},
		PaymentMethods: []string{"upi"},
	}
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestRegister_SendsJSONAndReturnsNumericID(t *testing.T) {
	var got map[string]any
	var reqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		reqID = r.Header.Get(RequestIDHeader)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success": true, "message": "Creator registered successfully", "creator_id": 42}`)
	}))
	defer srv.Close()

	id, err := New(srv.URL).Register(context.Background(), samplePayload())
	require.NoError(t, err)
	require.Equal(t, "42", id)

	_, err = uuid.Parse(reqID)
	require.NoError(t, err, "request id should be a uuid")

	require.Equal(t, "photographer", got["creator_type"])
	require.Equal(t, "asha@example.com", got["email"], "profile fields are flattened")
	services := got["services"].([]any)
	require.Len(t, services, 1)
	svc := services[0].(map[string]any)
	require.Equal(t, "wedding_photography", svc["service_name"])
	require.Equal(t, float64(500), svc["price"])
	require.Equal(t, "per session", svc["unit"])
	require.Equal(t, []any{"https://example.com/a"}, got["portfolio"])
	require.Equal(t, []any{"upi"}, got["payment_methods"])
}

func TestRegister_StringID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success": true, "creator_id": "c-9"}`)
	}))
	defer srv.Close()

	id, err := New(srv.URL + "/").Register(context.Background(), samplePayload())
	require.NoError(t, err)
	require.Equal(t, "c-9", id)
}

func TestRegister_RejectedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "duplicate email"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Register(context.Background(), samplePayload())
	var rej *registration.RejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, http.StatusBadRequest, rej.Status)
	require.Equal(t, "duplicate email", rej.Message)
}

func TestRegister_RejectedWithoutErrorFieldUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Register(context.Background(), samplePayload())
	var rej *registration.RejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Internal Server Error", rej.Message)
}

func TestRegister_UndecodableSuccessIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Register(context.Background(), samplePayload())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "register", te.Op)
}

func TestRegister_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Register(context.Background(), samplePayload())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.False(t, te.Timeout())
}

func TestRegister_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Register(context.Background(), samplePayload())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.True(t, te.Timeout())
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestRegister_CustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/register" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"creator_id": 7}`)
	}))
	defer srv.Close()

	id, err := New(srv.URL, WithPaths("/api/v1/register", "")).Register(context.Background(), samplePayload())
	require.NoError(t, err)
	require.Equal(t, "7", id)
}

func TestUploadProfilePhoto_SendsMultipart(t *testing.T) {
	path := writePNG(t, t.TempDir(), "me.png")
	want, err := os.ReadFile(path)
	require.NoError(t, err)

	var (
		gotCreator string
		gotName    string
		gotType    string
		gotBytes   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload_profile_photo", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		gotCreator = r.FormValue("creator_id")
		f, hdr, err := r.FormFile("profile_photo")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		gotName = hdr.Filename
		gotType = hdr.Header.Get("Content-Type")
		gotBytes, _ = io.ReadAll(f)
		_, _ = io.WriteString(w, `{"success": true}`)
	}))
	defer srv.Close()

	err = New(srv.URL).UploadProfilePhoto(context.Background(), "42", path)
	require.NoError(t, err)
	require.Equal(t, "42", gotCreator)
	require.Equal(t, "me.png", gotName)
	require.Equal(t, "image/png", gotType)
	require.Equal(t, want, gotBytes)
}

func TestUploadProfilePhoto_Rejected(t *testing.T) {
	path := writePNG(t, t.TempDir(), "me.png")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "Invalid file type"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).UploadProfilePhoto(context.Background(), "42", path)
	var rej *registration.RejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Invalid file type", rej.Message)
}

func TestUploadProfilePhoto_RejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.bmp")
	require.NoError(t, os.WriteFile(path, []byte("BM"), 0600))

	err := New("http://127.0.0.1:0").UploadProfilePhoto(context.Background(), "42", path)
	require.ErrorIs(t, err, photo.ErrUnsupportedType)
}

func TestUploadProfilePhoto_MissingFile(t *testing.T) {
	err := New("http://127.0.0.1:0").UploadProfilePhoto(context.Background(), "42",
		filepath.Join(t.TempDir(), "gone.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUploadProfilePhoto_RejectsOversizedFile(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "huge.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(photo.MaxFileSize+1))
	require.NoError(t, f.Close())

	err = New(srv.URL).UploadProfilePhoto(context.Background(), "42", path)
	require.ErrorIs(t, err, photo.ErrTooLarge)
	require.Zero(t, hits, "nothing is sent")
}

func TestCreatorID_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want CreatorID
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`null`, ""},
		{`1.5e3`, "1.5e3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id CreatorID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			require.Equal(t, tt.want, id)
		})
	}

	var id CreatorID
	require.Error(t, json.Unmarshal([]byte(`{}`), &id))
}
