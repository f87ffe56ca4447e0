package clean

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	markerOpen  = "<clean>"
	markerClose = "</clean>"
)

// scrubMarkers deletes user-requested spans from user-authored text.
// Only records of type "user" are touched, and within them only plain text:
// the message.content string form, or content blocks of type "text".
// Tool results and assistant output are never scanned.
func (c *Cleaner) scrubMarkers(line []byte) []byte {
	if gjson.GetBytes(line, "type").String() != "user" {
		return line
	}
	content := gjson.GetBytes(line, "message.content")
	switch {
	case content.Type == gjson.String:
		if cleaned, n := deleteMarkedSpans(content.String()); n > 0 {
			c.stats.Marked.Count += n
			c.stats.Marked.Bytes += len(content.String()) - len(cleaned)
			line = setString(line, "message.content", cleaned)
		}
	case content.IsArray():
		for i, item := range content.Array() {
			if item.Get("type").String() != "text" {
				continue
			}
			text := item.Get("text")
			if text.Type != gjson.String {
				continue
			}
			if cleaned, n := deleteMarkedSpans(text.String()); n > 0 {
				c.stats.Marked.Count += n
				c.stats.Marked.Bytes += len(text.String()) - len(cleaned)
				line = setString(line, elem("message.content", i)+".text", cleaned)
			}
		}
	}
	return line
}

// deleteMarkedSpans removes every <clean>...</clean> span, markers included,
// with a single forward scan. Markers do not nest: the first closer after an
// opener ends that span, and an opener inside a span is deleted with it.
// An opener with no closer leaves the rest of the text untouched, marker
// text included, so a stray tag never eats unrelated content.
func deleteMarkedSpans(s string) (string, int) {
	open := strings.Index(s, markerOpen)
	if open < 0 {
		return s, 0
	}

	var b strings.Builder
	count := 0
	i := 0
	for {
		open := strings.Index(s[i:], markerOpen)
		if open < 0 {
			b.WriteString(s[i:])
			break
		}
		open += i
		rest := open + len(markerOpen)
		end := strings.Index(s[rest:], markerClose)
		if end < 0 {
			// unmatched opener: keep everything from the marker on
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i:open])
		i = rest + end + len(markerClose)
		count++
	}
	return b.String(), count
}
