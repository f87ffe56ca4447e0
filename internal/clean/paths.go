package clean

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Tools whose input carries a path argument worth shortening.
var pathArgTools = map[string]bool{
	"Read":         true,
	"Write":        true,
	"Edit":         true,
	"NotebookEdit": true,
}

// normalizePaths rewrites file-path values to their final segment. The
// rewrite is bound to known positions (tool path arguments and the
// toolUseResult mirrors), never applied to free text: prose that happens to
// contain a slash must not be corrupted.
func (c *Cleaner) normalizePaths(line []byte) []byte {
	content := gjson.GetBytes(line, "message.content")
	if content.IsArray() {
		for i, item := range content.Array() {
			if item.Get("type").String() != "tool_use" || !pathArgTools[item.Get("name").String()] {
				continue
			}
			base := elem("message.content", i) + ".input"
			line = c.normalizeAt(line, base+".file_path")
			line = c.normalizeAt(line, base+".notebook_path")
		}
	}

	line = c.normalizeAt(line, "toolUseResult.filePath")
	line = c.normalizeAt(line, "toolUseResult.file.filePath")
	return line
}

func (c *Cleaner) normalizeAt(line []byte, path string) []byte {
	v := gjson.GetBytes(line, path)
	if v.Type != gjson.String {
		return line
	}
	norm := basenameOnly(v.String())
	if norm == v.String() {
		return line
	}
	c.stats.Paths.add(len(v.String()) - len(norm))
	return setString(line, path, norm)
}

// basenameOnly reduces a path-shaped value to its final segment. Bare
// filenames come back unchanged, so the rewrite is idempotent. Values with
// whitespace are left alone: that is prose, not a path.
func basenameOnly(s string) string {
	if s == "" || !strings.Contains(s, "/") {
		return s
	}
	if strings.ContainsAny(s, " \t\n") {
		return s
	}
	return filepath.Base(s)
}
