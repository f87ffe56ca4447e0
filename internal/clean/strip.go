package clean

import (
	"regexp"

	"github.com/tidwall/gjson"
)

// Placeholders follow one convention so a consumer (and a second pass) can
// tell "content was stripped here" from an absent or empty field.
const (
	placeholderPrefix = "[cctrim:"

	cleanedThinking    = "[cctrim: thinking]"
	cleanedFileContent = "[cctrim: Read]"
	cleanedWrite       = "[cctrim: Write]"
	cleanedEdit        = "[cctrim: Edit]"
	cleanedBashOutput  = "[cctrim: Bash output]"
	cleanedPlan        = "[cctrim: plan]"
	cleanedTaskOutput  = "[cctrim: task output]"
	cleanedProgress    = "[cctrim: progress]"
	cleanedPrompt      = "[cctrim: prompt]"
	cleanedMeta        = "[cctrim: meta]"
	cleanedCmdOutput   = "[cctrim: command output]"

	// 1x1 transparent PNG. Image blocks keep their structure but resume
	// does not need the pixels back.
	cleanedImageData = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAAC0lEQVR4nGNgAAIAAAUAAXpeqz8AAAAASUVORK5CYII="
)

// Local command output captured into message text:
// <local-command-caveat>..</local-command-caveat><bash-input>CMD</bash-input>
// <bash-stdout>OUT</bash-stdout><bash-stderr>ERR</bash-stderr>
var bashTagsRE = regexp.MustCompile(
	`(?s)(<local-command-caveat>.*?</local-command-caveat>\s*)?` +
		`(<bash-input>.*?</bash-input>\s*)?` +
		`<bash-stdout>.*?</bash-stdout>\s*<bash-stderr>.*?</bash-stderr>`)

// stripRecord applies every value-replacement rule to one record. The rules
// are independent and key their own shape, so unrecognized records fall
// through every one of them unchanged.
func (c *Cleaner) stripRecord(line []byte) []byte {
	line = c.stripThinking(line)
	line = c.stripToolInputs(line)
	line = c.stripToolUseResult(line)
	line = c.stripProgress(line)
	line = c.stripMeta(line)
	line = c.stripImages(line)
	line = c.stripBashTags(line)
	return line
}

// stripThinking blanks reasoning blocks: message.content[i].thinking.
func (c *Cleaner) stripThinking(line []byte) []byte {
	content := gjson.GetBytes(line, "message.content")
	if !content.IsArray() {
		return line
	}
	for i, item := range content.Array() {
		if item.Get("type").String() != "thinking" {
			continue
		}
		if !item.Get("thinking").Exists() {
			continue
		}
		line = c.replace(line, elem("message.content", i)+".thinking", cleanedThinking, &c.stats.Thinking)
	}
	return line
}

// stripToolInputs blanks the bulky arguments of tool_use blocks on
// assistant records: Write bodies, Edit old/new strings, ExitPlanMode plans.
// Commands and small arguments stay, they carry the flow of the session.
func (c *Cleaner) stripToolInputs(line []byte) []byte {
	content := gjson.GetBytes(line, "message.content")
	if !content.IsArray() {
		return line
	}
	for i, item := range content.Array() {
		if item.Get("type").String() != "tool_use" {
			continue
		}
		base := elem("message.content", i) + ".input"
		switch item.Get("name").String() {
		case "Write":
			line = c.replace(line, base+".content", cleanedWrite, &c.stats.WriteInput)
		case "Edit":
			var saved, n int
			line, n = replaceVal(line, base+".old_string", cleanedEdit)
			saved += n
			line, n = replaceVal(line, base+".new_string", cleanedEdit)
			saved += n
			if saved != 0 {
				c.stats.EditInput.add(saved)
			}
		case "ExitPlanMode":
			line = c.replace(line, base+".plan", cleanedPlan, &c.stats.Plan)
		}
	}
	return line
}

// stripToolUseResult blanks the heavy parts of the mirrored toolUseResult
// field on user records: file bodies, pre-edit originals, diffs, stdout.
func (c *Cleaner) stripToolUseResult(line []byte) []byte {
	result := gjson.GetBytes(line, "toolUseResult")
	if !result.Exists() || !result.IsObject() {
		return line
	}

	// Read: the whole file body is stored in the transcript.
	if result.Get("file.content").Exists() {
		line = c.replace(line, "toolUseResult.file.content", cleanedFileContent, &c.stats.ReadContent)
	}

	// Write: created/updated file body plus the pre-write original.
	if t := result.Get("type").String(); t == "create" || t == "update" {
		var saved, n int
		line, n = replaceVal(line, "toolUseResult.content", cleanedWrite)
		saved += n
		line, n = replaceVal(line, "toolUseResult.originalFile", cleanedWrite)
		saved += n
		line, n = emptyPatch(line)
		saved += n
		if saved != 0 {
			c.stats.WriteResult.add(saved)
		}
	}

	// Edit: oldString/newString diff pair plus the pre-edit original.
	if result.Get("oldString").Exists() {
		var saved, n int
		line, n = replaceVal(line, "toolUseResult.oldString", cleanedEdit)
		saved += n
		line, n = replaceVal(line, "toolUseResult.newString", cleanedEdit)
		saved += n
		line, n = replaceVal(line, "toolUseResult.originalFile", cleanedEdit)
		saved += n
		line, n = emptyPatch(line)
		saved += n
		if saved != 0 {
			c.stats.EditResult.add(saved)
		}
	}

	// Bash: captured stdout/stderr.
	if result.Get("stdout").Exists() || result.Get("stderr").Exists() {
		var saved, n int
		line, n = replaceVal(line, "toolUseResult.stdout", cleanedBashOutput)
		saved += n
		line, n = replaceVal(line, "toolUseResult.stderr", cleanedBashOutput)
		saved += n
		if saved != 0 {
			c.stats.BashOutput.add(saved)
		}
	}

	// Grep/Glob: the matched file list.
	if names := result.Get("filenames"); names.IsArray() && len(names.Array()) > 0 {
		if !(len(names.Array()) == 1 && names.Array()[0].String() == "") {
			saved := len(names.Raw) - len(`[""]`)
			c.stats.Filenames.add(saved)
			line = setRaw(line, "toolUseResult.filenames", `[""]`)
		}
	}

	// Task: the delegated agent's full output. Its description stays so the
	// thread still says what was delegated.
	if result.Get("task").IsObject() {
		line = c.replace(line, "toolUseResult.task.output", cleanedTaskOutput, &c.stats.TaskOutput)
	}

	// Agent results carry the original prompt verbatim.
	if result.Get("prompt").Type == gjson.String {
		line = c.replace(line, "toolUseResult.prompt", cleanedPrompt, &c.stats.Prompt)
	}

	return line
}

// emptyPatch replaces a structuredPatch array with []. The key must survive
// (resume parses it), the hunks need not.
func emptyPatch(line []byte) ([]byte, int) {
	patch := gjson.GetBytes(line, "toolUseResult.structuredPatch")
	if !patch.IsArray() || len(patch.Array()) == 0 {
		return line, 0
	}
	saved := len(patch.Raw) - len("[]")
	return setRaw(line, "toolUseResult.structuredPatch", "[]"), saved
}

// stripProgress blanks streamed output carried by progress records, both
// plain bash progress and the wrapped sub-agent variety.
func (c *Cleaner) stripProgress(line []byte) []byte {
	if gjson.GetBytes(line, "type").String() != "progress" {
		return line
	}
	switch gjson.GetBytes(line, "data.type").String() {
	case "bash_progress":
		var saved, n int
		line, n = replaceVal(line, "data.output", cleanedProgress)
		saved += n
		line, n = replaceVal(line, "data.fullOutput", cleanedProgress)
		saved += n
		if saved != 0 {
			c.stats.Progress.add(saved)
		}
	case "agent_progress":
		line = c.stripAgentProgress(line)
	}
	return line
}

// stripAgentProgress handles data.message.message.content[i] inside an
// agent_progress record: the same tool-result bodies as a top-level record,
// one nesting level down.
func (c *Cleaner) stripAgentProgress(line []byte) []byte {
	if gjson.GetBytes(line, "data.prompt").Type == gjson.String {
		line = c.replace(line, "data.prompt", cleanedPrompt, &c.stats.Prompt)
	}
	content := gjson.GetBytes(line, "data.message.message.content")
	if !content.IsArray() {
		return line
	}
	for i, item := range content.Array() {
		base := elem("data.message.message.content", i)
		body := item.Get("content")
		switch {
		case body.Type == gjson.String:
			line = c.replace(line, base+".content", cleanedProgress, &c.stats.Progress)
		case body.IsArray():
			for j, part := range body.Array() {
				if part.Get("text").Type != gjson.String {
					continue
				}
				line = c.replace(line, elem(base+".content", j)+".text", cleanedProgress, &c.stats.Progress)
			}
		}
	}
	return line
}

// stripMeta blanks injected text on isMeta records (skill bodies and other
// machinery the user never typed).
func (c *Cleaner) stripMeta(line []byte) []byte {
	if !gjson.GetBytes(line, "isMeta").Bool() {
		return line
	}
	content := gjson.GetBytes(line, "message.content")
	if !content.IsArray() {
		return line
	}
	for i, item := range content.Array() {
		if item.Get("text").Type != gjson.String {
			continue
		}
		line = c.replace(line, elem("message.content", i)+".text", cleanedMeta, &c.stats.Meta)
	}
	return line
}

// stripImages swaps base64 image data for a single transparent pixel,
// keeping source.type and media_type intact.
func (c *Cleaner) stripImages(line []byte) []byte {
	content := gjson.GetBytes(line, "message.content")
	if !content.IsArray() {
		return line
	}
	for i, item := range content.Array() {
		if item.Get("type").String() != "image" {
			continue
		}
		data := item.Get("source.data")
		if data.Type != gjson.String || data.String() == "" || data.String() == cleanedImageData {
			continue
		}
		c.stats.Images.add(len(data.String()) - len(cleanedImageData))
		line = setString(line, elem("message.content", i)+".source.data", cleanedImageData)
	}
	return line
}

// stripBashTags removes captured terminal output embedded in message text
// as <bash-stdout>/<bash-stderr> tag pairs.
func (c *Cleaner) stripBashTags(line []byte) []byte {
	content := gjson.GetBytes(line, "message.content")
	switch {
	case content.Type == gjson.String:
		if cleaned, n := scrubBashTags(content.String()); n > 0 {
			c.stats.BashTags.Count += n
			c.stats.BashTags.Bytes += len(content.String()) - len(cleaned)
			line = setString(line, "message.content", cleaned)
		}
	case content.IsArray():
		for i, item := range content.Array() {
			text := item.Get("text")
			if text.Type != gjson.String {
				continue
			}
			if cleaned, n := scrubBashTags(text.String()); n > 0 {
				c.stats.BashTags.Count += n
				c.stats.BashTags.Bytes += len(text.String()) - len(cleaned)
				line = setString(line, elem("message.content", i)+".text", cleaned)
			}
		}
	}
	return line
}

func scrubBashTags(s string) (string, int) {
	if !bashTagsRE.MatchString(s) {
		return s, 0
	}
	n := len(bashTagsRE.FindAllStringIndex(s, -1))
	return bashTagsRE.ReplaceAllString(s, cleanedCmdOutput), n
}
