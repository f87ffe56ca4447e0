package clean

import (
	"bytes"
	"testing"

	"github.com/tidwall/gjson"
)

func TestBasenameOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/user/project/src/main.ext", "main.ext"},
		{"relative/name.ext", "name.ext"},
		{"main.ext", "main.ext"}, // already bare: idempotent
		{"", ""},
		{"prose mentioning a/b in passing", "prose mentioning a/b in passing"},
	}
	for _, tt := range tests {
		if got := basenameOnly(tt.in); got != tt.want {
			t.Errorf("basenameOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePathsBoundToKnownPositions(t *testing.T) {
	c := New("")
	line := []byte(`{"type":"assistant","uuid":"a1","message":{"content":[{"type":"tool_use","name":"Read","input":{"file_path":"/tmp/proj/src/app.go"}},{"type":"text","text":"see /tmp/proj/src/app.go"}]}}`)
	out := c.CleanLine(line)

	if got := gjson.GetBytes(out, "message.content.0.input.file_path").String(); got != "app.go" {
		t.Errorf("file_path = %q, want %q", got, "app.go")
	}
	// prose is not a known position and keeps its slashes
	if got := gjson.GetBytes(out, "message.content.1.text").String(); got != "see /tmp/proj/src/app.go" {
		t.Errorf("prose modified: %q", got)
	}
}

func TestNormalizePathsToolUseResult(t *testing.T) {
	c := New("")
	line := []byte(`{"type":"user","uuid":"u1","toolUseResult":{"filePath":"/a/b/c.txt","file":{"filePath":"/a/b/c.txt","numLines":3}}}`)
	out := c.CleanLine(line)

	if got := gjson.GetBytes(out, "toolUseResult.filePath").String(); got != "c.txt" {
		t.Errorf("filePath = %q, want %q", got, "c.txt")
	}
	if got := gjson.GetBytes(out, "toolUseResult.file.filePath").String(); got != "c.txt" {
		t.Errorf("file.filePath = %q, want %q", got, "c.txt")
	}
}

func TestNormalizePathsIdempotent(t *testing.T) {
	line := []byte(`{"type":"assistant","uuid":"a1","message":{"content":[{"type":"tool_use","name":"Write","input":{"file_path":"notes.md"}}]}}`)
	once := New("").CleanLine(line)
	twice := New("").CleanLine(once)
	if !bytes.Equal(once, twice) {
		t.Errorf("second pass changed output:\n once: %s\ntwice: %s", once, twice)
	}
}
