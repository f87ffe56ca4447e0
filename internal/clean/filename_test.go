package clean

import (
	"path/filepath"
	"testing"
)

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"session uuid",
			"/s/9c4c1a42-1f6d-42ae-ac6d-239d2e110282.jsonl",
			"/s/9c4c1a42-1f6d-42ae-ac6d-00effaced001.jsonl",
		},
		{
			"already cleaned bumps the sequence",
			"/s/9c4c1a42-1f6d-42ae-ac6d-00effaced001.jsonl",
			"/s/9c4c1a42-1f6d-42ae-ac6d-00effaced002.jsonl",
		},
		{
			"non-uuid stem keeps its name",
			"/s/scratch.jsonl",
			"/s/scratch-00effaced001.jsonl",
		},
		{
			"non-jsonl extension",
			"/s/notes.txt",
			"/s/notes.txt-00effaced001.jsonl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveOutputPath(tt.in); got != filepath.FromSlash(tt.want) {
				t.Errorf("DeriveOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionID(t *testing.T) {
	got := SessionID("/s/9c4c1a42-1f6d-42ae-ac6d-00effaced001.jsonl")
	if got != "9c4c1a42-1f6d-42ae-ac6d-00effaced001" {
		t.Errorf("SessionID = %q", got)
	}
}

func TestIsCleaned(t *testing.T) {
	if !IsCleaned("/s/9c4c1a42-1f6d-42ae-ac6d-00effaced003.jsonl") {
		t.Error("cleaned file not recognized")
	}
	if IsCleaned("/s/9c4c1a42-1f6d-42ae-ac6d-239d2e110282.jsonl") {
		t.Error("original misrecognized as cleaned")
	}
}
