package clean

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func toolResultLine(uuid, body string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"user","uuid":%q,"parentUuid":"p0","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":%q}]}}`,
		uuid, body))
}

func TestCollapseDuplicates(t *testing.T) {
	body := strings.Repeat("build output line\n", 20)
	c := New("")

	first := c.CleanLine(toolResultLine("u1", body))
	if got := gjson.GetBytes(first, "message.content.0.content").String(); got != body {
		t.Fatalf("first occurrence modified: %q", got)
	}

	second := c.CleanLine(toolResultLine("u2", body))
	got := gjson.GetBytes(second, "message.content.0.content").String()
	if !strings.Contains(got, "duplicate of u1") {
		t.Errorf("second occurrence = %q, want reference to u1", got)
	}
	if len(got) >= len(body) {
		t.Errorf("collapsed payload not smaller: %d >= %d", len(got), len(body))
	}
}

func TestCollapseExactMatchOnly(t *testing.T) {
	body := strings.Repeat("x", 200)
	c := New("")
	c.CleanLine(toolResultLine("u1", body))

	almost := body[:199] + "y" // one byte different
	out := c.CleanLine(toolResultLine("u2", almost))
	if got := gjson.GetBytes(out, "message.content.0.content").String(); got != almost {
		t.Errorf("near-duplicate collapsed: %q", got)
	}
}

func TestCollapseSkipsSmallBodies(t *testing.T) {
	c := New("")
	c.CleanLine(toolResultLine("u1", "ok"))
	out := c.CleanLine(toolResultLine("u2", "ok"))
	if got := gjson.GetBytes(out, "message.content.0.content").String(); got != "ok" {
		t.Errorf("small body collapsed: %q", got)
	}
}

func TestCollapseTextBlockArray(t *testing.T) {
	body := strings.Repeat("result text ", 30)
	line := func(uuid string) []byte {
		return []byte(fmt.Sprintf(
			`{"type":"user","uuid":%q,"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":[{"type":"text","text":%q}]}]}}`,
			uuid, body))
	}

	c := New("")
	c.CleanLine(line("u1"))
	out := c.CleanLine(line("u2"))

	got := gjson.GetBytes(out, "message.content.0.content.0.text").String()
	if !strings.Contains(got, "duplicate of u1") {
		t.Errorf("array body = %q, want reference to u1", got)
	}
	// block structure survives
	if gjson.GetBytes(out, "message.content.0.content.0.type").String() != "text" {
		t.Error("text block lost its type key")
	}
}

func TestCollapseMirrorWithinRecord(t *testing.T) {
	body := strings.Repeat("same payload ", 20)
	line := []byte(fmt.Sprintf(
		`{"type":"user","uuid":"u1","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":%q}]},"toolUseResult":[{"type":"text","text":%q}]}`,
		body, body))

	out := New("").CleanLine(line)

	// the canonical copy in message.content stays
	if got := gjson.GetBytes(out, "message.content.0.content").String(); got != body {
		t.Errorf("canonical copy modified: %q", got)
	}
	// the mirror collapses to a reference into the same record
	if got := gjson.GetBytes(out, "toolUseResult.0.text").String(); !strings.Contains(got, "duplicate of u1") {
		t.Errorf("mirror = %q, want reference to u1", got)
	}
}

func TestNoSignatureLeakAcrossCleaners(t *testing.T) {
	body := strings.Repeat("shared ", 20)
	a := New("")
	a.CleanLine(toolResultLine("u1", body))

	// a fresh pass over another file must not see u1's payloads
	b := New("")
	out := b.CleanLine(toolResultLine("u9", body))
	if got := gjson.GetBytes(out, "message.content.0.content").String(); got != body {
		t.Errorf("signature leaked across passes: %q", got)
	}
}
