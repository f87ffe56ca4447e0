// Package clean rewrites a Claude Code session transcript (JSONL) into a
// smaller copy that keeps the conversation thread but drops the bulk:
// thinking blocks, embedded file contents, diffs, captured command output,
// and repeated tool results.
//
// Every transform edits the raw line in place via sjson, so keys are never
// deleted and untouched fields survive byte-for-byte. Resume assumes every
// key exists; values are only ever replaced.
package clean

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// Cleaner holds the state of one filtering pass over one transcript. The
// duplicate-collapser map is the only cross-record state; a Cleaner must not
// be reused across files.
type Cleaner struct {
	newSessionID string
	seen         map[string]string // tool-result body signature -> first-seen record uuid
	stats        Stats
}

func New(newSessionID string) *Cleaner {
	return &Cleaner{
		newSessionID: newSessionID,
		seen:         map[string]string{},
	}
}

func (c *Cleaner) Stats() *Stats { return &c.stats }

// Result describes one completed pass.
type Result struct {
	OutputPath  string
	SessionID   string
	InputBytes  int64
	OutputBytes int64
	Stats       *Stats
}

// CleanFile runs one filtering pass over src and writes the cleaned
// transcript to dst. An empty dst derives the output path next to src
// (see DeriveOutputPath). The input is never modified; the output appears
// atomically via a temp file and rename.
func CleanFile(src, dst string) (*Result, error) {
	if dst == "" {
		dst = DeriveOutputPath(src)
	}
	sessionID := SessionID(dst)

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat transcript: %w", err)
	}

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	c := New(sessionID)
	w := bufio.NewWriter(out)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if _, err := w.Write(c.CleanLine(line)); err != nil {
			out.Close()
			os.Remove(tmp)
			return nil, fmt.Errorf("write output: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			out.Close()
			os.Remove(tmp)
			return nil, fmt.Errorf("write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("flush output: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("rename output: %w", err)
	}

	outInfo, err := os.Stat(dst)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}

	return &Result{
		OutputPath:  dst,
		SessionID:   sessionID,
		InputBytes:  info.Size(),
		OutputBytes: outInfo.Size(),
		Stats:       &c.stats,
	}, nil
}

// CleanLine transforms a single transcript line. Lines that are not JSON
// objects (blank lines, corrupt records) pass through verbatim: one broken
// line never fails the pass, and the line count is preserved.
func (c *Cleaner) CleanLine(line []byte) []byte {
	if !gjson.ValidBytes(line) || !gjson.ParseBytes(line).IsObject() {
		return line
	}
	line = c.updateSessionID(line)
	line = c.scrubMarkers(line)
	line = c.stripRecord(line)
	line = c.normalizePaths(line)
	line = c.collapseDuplicates(line)
	return line
}

// updateSessionID points the record at the new session id so resume finds
// the cleaned file. uuid/parentUuid are never touched: the parent chain is
// an opaque contract with the consumer.
func (c *Cleaner) updateSessionID(line []byte) []byte {
	if c.newSessionID == "" {
		return line
	}
	id := gjson.GetBytes(line, "sessionId")
	if id.Exists() && id.String() != c.newSessionID {
		c.stats.SessionIDs++
		line = setString(line, "sessionId", c.newSessionID)
	}
	return line
}

// setString replaces a string value at path, leaving the line untouched if
// sjson rejects the path. Anomalies degrade to pass-through, never abort.
func setString(line []byte, path, val string) []byte {
	out, err := sjson.SetBytes(line, path, val)
	if err != nil {
		return line
	}
	return out
}

func setRaw(line []byte, path, raw string) []byte {
	out, err := sjson.SetRawBytes(line, path, []byte(raw))
	if err != nil {
		return line
	}
	return out
}

func elem(path string, i int) string {
	return path + "." + fmt.Sprint(i)
}

// replaceVal swaps the string value at path for a placeholder and returns
// the bytes saved. No-op when the value is empty or already the placeholder,
// which is what makes a second pass over a cleaned file byte-stable.
func replaceVal(line []byte, path, placeholder string) ([]byte, int) {
	v := gjson.GetBytes(line, path)
	if !v.Exists() {
		return line, 0
	}
	s := v.String()
	if s == "" || s == placeholder {
		return line, 0
	}
	return setString(line, path, placeholder), len(s) - len(placeholder)
}

// replace is replaceVal plus counting, for the one-field categories.
func (c *Cleaner) replace(line []byte, path, placeholder string, ctr *counter) []byte {
	line, saved := replaceVal(line, path, placeholder)
	if saved != 0 {
		ctr.add(saved)
	}
	return line
}
