package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func readParts(t *testing.T, r io.Reader, contentType string) map[string]string {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}

	parts := map[string]string{}
	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts[part.FormName()] = string(data)
	}
	return parts
}

func TestMultipartBody_Encode_FieldsInKeyOrder(t *testing.T) {
	mp := (&MultipartBody{}).
		SetField("title", "Portfolio").
		SetField("technologies", "Go, React").
		SetField("popular", "true")

	reader, _, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	data, _ := io.ReadAll(reader)

	popular := bytes.Index(data, []byte(`name="popular"`))
	technologies := bytes.Index(data, []byte(`name="technologies"`))
	title := bytes.Index(data, []byte(`name="title"`))
	if popular < 0 || !(popular < technologies && technologies < title) {
		t.Errorf("expected fields in key order, got offsets %d %d %d", popular, technologies, title)
	}
}

func TestMultipartBody_Encode_WithFile(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	mp := (&MultipartBody{}).
		SetField("title", "Portfolio").
		AddFile(FileField{FieldName: "image", FileName: "shot.png", ContentType: "image/png", Data: img})

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}

	raw, _ := io.ReadAll(reader)
	if !bytes.Contains(raw, []byte("Content-Type: image/png")) {
		t.Error("expected Content-Type: image/png in multipart body")
	}

	parts := readParts(t, bytes.NewReader(raw), contentType)
	if parts["title"] != "Portfolio" {
		t.Errorf("title = %q", parts["title"])
	}
	if parts["image"] != string(img) {
		t.Errorf("image = %q, want %q", parts["image"], img)
	}
}

func TestMultipartBody_Encode_WithReader(t *testing.T) {
	mp := &MultipartBody{
		Files: []FileField{
			{FieldName: "image", FileName: "a.txt", Reader: bytes.NewReader([]byte("streamed content"))},
		},
	}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, reader, contentType)
	if parts["image"] != "streamed content" {
		t.Errorf("file content = %q", parts["image"])
	}
}

func TestAdapter_Do_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm error: %v", err)
		}
		if got := r.FormValue("title"); got != "Portfolio" {
			t.Errorf("title field = %q, want %q", got, "Portfolio")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile error: %v", err)
		}
		defer file.Close()
		if header.Filename != "shot.png" {
			t.Errorf("filename = %q, want %q", header.Filename, "shot.png")
		}

		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"message":"Project updated successfully!"}`))
	}))
	defer srv.Close()

	adapter, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	resp, err := adapter.Do(t.Context(), Request{
		Method: http.MethodPut,
		Path:   "/api/projects/1",
		Body: (&MultipartBody{}).
			SetField("title", "Portfolio").
			AddFile(FileField{FieldName: "image", FileName: "shot.png", Data: []byte("png")}),
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}
