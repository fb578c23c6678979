package storage

import "testing"

func TestFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"avatar.PNG", "png"},
		{"photo.jpeg", "jpeg"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := fileExtension(tt.filename); got != tt.want {
			t.Errorf("fileExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"jpg", "image/jpeg"},
		{"JPEG", "image/jpeg"},
		{"png", "image/png"},
		{"webp", "image/webp"},
		{"gif", "image/gif"},
		{"pdf", "application/pdf"},
		{"exe", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := contentType(tt.ext); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestExtractKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://my-bucket.s3.ap-southeast-1.amazonaws.com/avatars/1/2026/08/31/abc123.png", "avatars/1/2026/08/31/abc123.png"},
		{"https://example.com/not-s3.png", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractKeyFromURL(tt.url); got != tt.want {
			t.Errorf("extractKeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
