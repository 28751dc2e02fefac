package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch with extras", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts", "https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"empty", "", "", true},
		{"wrong host", "https://vimeo.com/12345", "", true},
		{"short id", "https://www.youtube.com/watch?v=short", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlaylistURLDetection(t *testing.T) {
	if !IsPlaylistURL("https://www.youtube.com/playlist?list=PLabc123") {
		t.Error("playlist url not detected")
	}
	if IsPlaylistURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123") {
		t.Error("video-with-list url must count as a video")
	}
	id, err := ExtractPlaylistID("https://www.youtube.com/playlist?list=PLabc123")
	if err != nil || id != "PLabc123" {
		t.Errorf("playlist id = %q, err = %v", id, err)
	}
	if _, err := ExtractPlaylistID("https://www.youtube.com/watch?v=dQw4w9WgXcQ"); err == nil {
		t.Error("expected error without list parameter")
	}
}
