package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vodscribe/internal/services"
)

func TestFetchMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
			t.Errorf("oembed url param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Test Video","author_name":"Test Channel","thumbnail_url":"https://i.ytimg.com/t.jpg"}`))
	}))
	defer server.Close()

	client := New(WithOEmbedURL(server.URL), WithHTTPClient(server.Client()))
	meta, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Test Video" || meta.Channel != "Test Channel" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", meta.VideoID)
	}
}

func TestFetchMetadataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(WithOEmbedURL(server.URL), WithHTTPClient(server.Client()))
	_, err := client.FetchMetadata(context.Background(), "gone")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestFetchCaptionsParsesJSON3(t *testing.T) {
	payload := `{"events":[
		{"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":"hello "},{"utf8":"world"}]},
		{"tStartMs":2000,"dDurationMs":1500,"segs":[{"utf8":"\n"}]},
		{"tStartMs":3500,"dDurationMs":1000,"segs":[{"utf8":"again"}]}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("fmt param = %q", r.URL.Query().Get("fmt"))
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := New(WithTimedtextURL(server.URL), WithHTTPClient(server.Client()))
	segments, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", []string{"en"})
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2 (whitespace event dropped)", len(segments))
	}
	if segments[0].Text != "hello world" {
		t.Errorf("first segment = %q", segments[0].Text)
	}
	if segments[0].Start != 0 || segments[0].End != 2 {
		t.Errorf("first segment bounds = %v..%v", segments[0].Start, segments[0].End)
	}
	if segments[1].Start != 3.5 {
		t.Errorf("second segment start = %v", segments[1].Start)
	}
}

func TestFetchCaptionsEmptyTrackFallsThroughLanguages(t *testing.T) {
	var langs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		langs = append(langs, lang)
		if lang == "de" {
			w.Write([]byte(`{"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"hallo"}]}]}`))
			return
		}
		// empty body means no track for that language
	}))
	defer server.Close()

	client := New(WithTimedtextURL(server.URL), WithHTTPClient(server.Client()))
	segments, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", []string{"en", "de"})
	if err != nil {
		t.Fatal(err)
	}
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "de" {
		t.Errorf("language order = %v", langs)
	}
	if len(segments) != 1 || segments[0].Text != "hallo" {
		t.Errorf("segments = %+v", segments)
	}
}

func TestFetchCaptionsNoTrackAnywhere(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	client := New(WithTimedtextURL(server.URL), WithHTTPClient(server.Client()))
	_, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", []string{"en"})
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
