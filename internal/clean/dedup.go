package clean

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/tidwall/gjson"
)

// Bodies shorter than this are not worth collapsing: the reference marker
// would be as large as the payload it replaces.
const dedupMinSize = 64

// collapseDuplicates replaces a tool-result body that was already seen in
// this pass with a reference to the record that carries the first copy.
// Matching is exact (SHA-256 of the body bytes), never fuzzy: results that
// merely look similar stay distinct.
//
// Runs last in the per-record pipeline, so the signature is computed on the
// stripped body. Placeholdered bodies are skipped outright.
func (c *Cleaner) collapseDuplicates(line []byte) []byte {
	uuid := gjson.GetBytes(line, "uuid").String()

	content := gjson.GetBytes(line, "message.content")
	if content.IsArray() {
		for i, item := range content.Array() {
			if item.Get("type").String() != "tool_result" {
				continue
			}
			line = c.collapseAt(line, elem("message.content", i)+".content", uuid)
		}
	}

	// toolUseResult mirrors the tool_result body. Collapsing it in the same
	// record turns the mirror into a reference to the copy above, so at most
	// one full copy of any body survives the pass.
	result := gjson.GetBytes(line, "toolUseResult")
	switch {
	case result.IsArray():
		line = c.collapseAt(line, "toolUseResult", uuid)
	case result.IsObject() && result.Get("content").IsArray():
		// Task and MCP results: {status, content: [{type, text}, ...]}
		t := result.Get("type").String()
		if t != "create" && t != "update" && !result.Get("task").Exists() {
			line = c.collapseAt(line, "toolUseResult.content", uuid)
		}
	}
	return line
}

// collapseAt deduplicates the body at path, which is either a plain string
// or an array of text blocks. Array structure is preserved: the first block
// gets the reference, later blocks are emptied, keys stay.
func (c *Cleaner) collapseAt(line []byte, path, uuid string) []byte {
	body := gjson.GetBytes(line, path)

	switch {
	case body.Type == gjson.String:
		s := body.String()
		first, ok := c.lookup(s, uuid)
		if !ok {
			return line
		}
		ref := duplicateRef(first)
		c.stats.Duplicates.add(len(s) - len(ref))
		return setString(line, path, ref)

	case body.IsArray():
		parts := body.Array()
		var texts []string
		var idx []int
		for i, p := range parts {
			if p.Get("text").Type == gjson.String {
				texts = append(texts, p.Get("text").String())
				idx = append(idx, i)
			}
		}
		if len(texts) == 0 {
			return line
		}
		joined := strings.Join(texts, "\n")
		first, ok := c.lookup(joined, uuid)
		if !ok {
			return line
		}
		ref := duplicateRef(first)
		saved := 0
		for n, i := range idx {
			repl := ""
			if n == 0 {
				repl = ref
			}
			saved += len(texts[n]) - len(repl)
			line = setString(line, elem(path, i)+".text", repl)
		}
		c.stats.Duplicates.add(saved)
		return line
	}
	return line
}

// lookup reports whether body was seen before and under which record uuid,
// recording it for later records otherwise.
func (c *Cleaner) lookup(body, uuid string) (string, bool) {
	if len(body) < dedupMinSize || strings.HasPrefix(body, placeholderPrefix) {
		return "", false
	}
	sum := sha256.Sum256([]byte(body))
	key := hex.EncodeToString(sum[:])
	if first, ok := c.seen[key]; ok {
		return first, true
	}
	if uuid != "" {
		c.seen[key] = uuid
	}
	return "", false
}

func duplicateRef(uuid string) string {
	return placeholderPrefix + " duplicate of " + uuid + "]"
}
