// Package frontmatter extracts tags and a title from raw note text.
//
// A note may open with a YAML block fenced by "---" lines. Only the "tags"
// key is interpreted; it may be a flow list, a block list or a single
// comma-separated scalar. Anything that does not parse degrades to "no tags"
// and is never reported as an error to the caller.
package frontmatter

import (
	"bytes"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	delimiter = "---"
	tagsKey   = "tags"

	// Untitled is used when neither a heading nor a filename is available.
	Untitled = "Untitled"
)

// Result holds the output of parsing one note.
type Result struct {
	Tags  []string
	Title string
	// Body is the text with the front-matter block and a leading "# Title"
	// heading removed. When the front matter is malformed, Body is the full
	// original text.
	Body           string
	HasFrontMatter bool
	Malformed      bool
}

// Parse splits raw into front matter and body. path is only used for the
// filename-stem title fallback and may be empty.
func Parse(raw, path string) Result {
	block, rest, found := split(raw)
	if !found {
		title, body := extractTitle(raw)
		return Result{Title: titleOrStem(title, path), Body: body}
	}

	doc, ok := decode(block)
	if !ok {
		title, _ := extractTitle(raw)
		return Result{
			Title:          titleOrStem(title, path),
			Body:           raw,
			HasFrontMatter: true,
			Malformed:      true,
		}
	}

	title, body := extractTitle(rest)
	return Result{
		Tags:           tagsFrom(doc),
		Title:          titleOrStem(title, path),
		Body:           body,
		HasFrontMatter: true,
	}
}

// SetTags returns raw with its front-matter "tags" replaced by tags (flow
// style). Other front-matter keys and the body are preserved. A block is
// inserted when raw has none; an empty tag list removes the key, and the
// whole block when nothing else is left in it.
func SetTags(raw string, tags []string) string {
	tags = Normalize(tags)

	block, rest, found := split(raw)
	var doc *yaml.Node
	if found {
		if d, ok := decode(block); ok {
			doc = d
		} else {
			// Keep the unreadable block as body text rather than discarding it.
			rest = raw
		}
	} else {
		rest = raw
	}
	if doc == nil {
		doc = &yaml.Node{Kind: yaml.MappingNode}
	}

	setTags(doc, tags)
	if len(doc.Content) == 0 {
		return strings.TrimLeft(rest, "\r\n")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return raw
	}
	_ = enc.Close()

	var out strings.Builder
	out.WriteString(delimiter + "\n")
	out.Write(buf.Bytes())
	out.WriteString(delimiter + "\n")
	out.WriteString(rest)
	return out.String()
}

// Normalize trims tags, drops empty ones and removes duplicates while keeping
// first-seen order.
func Normalize(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// split separates a leading "---" fenced block from the rest of raw. The
// closing fence must be on its own line.
func split(raw string) (block, rest string, found bool) {
	line, remaining := cutLine(raw)
	if line != delimiter {
		return "", raw, false
	}

	var b strings.Builder
	for remaining != "" {
		line, next := cutLine(remaining)
		if line == delimiter {
			return b.String(), strings.TrimLeft(next, "\r\n"), true
		}
		b.WriteString(line)
		b.WriteByte('\n')
		remaining = next
	}
	return "", raw, false
}

func cutLine(s string) (line, rest string) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return strings.TrimRight(s, " \t\r"), ""
	}
	return strings.TrimRight(s[:i], " \t\r"), s[i+1:]
}

// decode parses the front-matter block into a mapping node. An empty block is
// a valid, empty mapping; anything that is not a mapping is malformed.
func decode(block string) (*yaml.Node, bool) {
	if strings.TrimSpace(block) == "" {
		return &yaml.Node{Kind: yaml.MappingNode}, true
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, false
	}
	n := &doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, false
	}
	return n, true
}

func tagsFrom(m *yaml.Node) []string {
	v := lookup(m, tagsKey)
	if v == nil {
		return []string{}
	}

	var raw []string
	switch v.Kind {
	case yaml.SequenceNode:
		for _, item := range v.Content {
			if item.Kind == yaml.ScalarNode {
				raw = append(raw, item.Value)
			}
		}
	case yaml.ScalarNode:
		if v.Tag != "!!null" {
			raw = strings.Split(v.Value, ",")
		}
	}
	return Normalize(raw)
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := m.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setTags(m *yaml.Node, tags []string) {
	idx := -1
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := m.Content[i]; k.Kind == yaml.ScalarNode && k.Value == tagsKey {
			idx = i
			break
		}
	}

	if len(tags) == 0 {
		if idx >= 0 {
			m.Content = append(m.Content[:idx], m.Content[idx+2:]...)
		}
		return
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, t := range tags {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t})
	}
	if idx >= 0 {
		m.Content[idx+1] = seq
		return
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: tagsKey}
	m.Content = append([]*yaml.Node{key, seq}, m.Content...)
}

// extractTitle finds the first "# text" line. The heading is removed from the
// returned body only when it is the first non-blank line.
func extractTitle(body string) (title, rest string) {
	leading := true
	offset := 0
	for offset <= len(body) {
		line, next := cutLine(body[offset:])
		trimmed := strings.TrimSpace(line)
		if text, ok := heading(trimmed); ok {
			if leading {
				return text, strings.TrimLeft(next, "\r\n")
			}
			return text, body
		}
		if trimmed != "" {
			leading = false
		}
		if next == "" {
			break
		}
		offset = len(body) - len(next)
	}
	return "", body
}

func heading(line string) (string, bool) {
	if !strings.HasPrefix(line, "# ") {
		return "", false
	}
	text := strings.TrimSpace(line[2:])
	return text, text != ""
}

func titleOrStem(title, path string) string {
	if title != "" {
		return title
	}
	return Stem(path)
}

// Stem returns the file name of path without its extension, or Untitled.
func Stem(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return Untitled
	}
	return stem
}
