package clean

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Cleaned transcripts are written next to the source with the last 12
// characters of the stem (the final group of the session UUID) replaced by
// this tag plus a 3-digit sequence, e.g.
//
//	9c4c1a42-1f6d-42ae-ac6d-239d2e110282.jsonl
//	9c4c1a42-1f6d-42ae-ac6d-00effaced001.jsonl
//
// Rerunning on an already-cleaned file bumps the sequence, so originals are
// never overwritten and each pass stays inspectable.
const (
	effacedTag = "00effaced"
	jsonlExt   = ".jsonl"
)

// DeriveOutputPath returns the output path for src when the caller does not
// pick one.
func DeriveOutputPath(src string) string {
	dir := filepath.Dir(src)
	base := filepath.Base(src)

	if !strings.HasSuffix(base, jsonlExt) {
		return filepath.Join(dir, base+"-"+effacedTag+"001"+jsonlExt)
	}
	stem := strings.TrimSuffix(base, jsonlExt)

	if seq, ok := effacedSeq(stem); ok {
		next := fmt.Sprintf("%s%03d", effacedTag, seq+1)
		return filepath.Join(dir, stem[:len(stem)-12]+next+jsonlExt)
	}

	// Session files are named by UUID; the final group is exactly 12 hex
	// characters, which is what the tag replaces. Anything else gets the
	// tag appended instead of losing part of its name.
	if _, err := uuid.Parse(stem); err != nil {
		return filepath.Join(dir, stem+"-"+effacedTag+"001"+jsonlExt)
	}
	return filepath.Join(dir, stem[:len(stem)-12]+effacedTag+"001"+jsonlExt)
}

// SessionID is the session id implied by a transcript path: the file stem.
func SessionID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), jsonlExt)
}

// IsCleaned reports whether path names a transcript this tool produced.
func IsCleaned(path string) bool {
	_, ok := effacedSeq(SessionID(path))
	return ok
}

// effacedSeq extracts the sequence number when the stem ends in
// 00effaced{NNN}.
func effacedSeq(stem string) (int, bool) {
	if len(stem) < 12 {
		return 0, false
	}
	last12 := stem[len(stem)-12:]
	if !strings.HasPrefix(last12, effacedTag) {
		return 0, false
	}
	seq, err := strconv.Atoi(last12[len(effacedTag):])
	if err != nil {
		return 0, false
	}
	return seq, true
}
