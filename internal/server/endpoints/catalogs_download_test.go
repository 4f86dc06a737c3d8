package endpoints

import "testing"

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Catalogue Printemps 2024", "catalogue_printemps_2024.pdf"},
		{"Guide Technique 2024", "guide_technique_2024.pdf"},
		{"A/B: Test!", "a_b__test_.pdf"},
		{"", ".pdf"},
	}
	for _, tt := range tests {
		if got := downloadFilename(tt.title); got != tt.want {
			t.Errorf("downloadFilename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
