// Package frontmatter splits, parses and serializes the YAML block at the top of a note.
package frontmatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/zettel/internal/apperr"
)

const delim = "---"

// ErrMalformed is returned when a frontmatter block is not a YAML mapping.
var ErrMalformed = fmt.Errorf("frontmatter: %w", apperr.ErrMalformedInput)

var tagSplitRe = regexp.MustCompile(`[\s,]+`)

// Document is a note split into its frontmatter and body.
type Document struct {
	// Keys holds the frontmatter keys in source order.
	Keys []string
	// Fields values are string, []string, or a decoded nested value.
	Fields  map[string]any
	Body    string
	Present bool

	block   string
	mapping *yaml.Node
}

// Parse splits text into frontmatter and body. The block must open with a
// "---" line at offset 0 and close with a second "---" line; otherwise the
// whole text is body.
func Parse(text string) (*Document, error) {
	block, body, ok := split(text)
	if !ok {
		return &Document{Fields: map[string]any{}, Body: text}, nil
	}
	doc := &Document{Fields: map[string]any{}, Body: body, Present: true, block: block}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if root.Kind == 0 {
		return doc, nil
	}
	mapping := &root
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		mapping = root.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformed)
	}
	doc.mapping = mapping

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		val, err := nodeValue(mapping.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformed, key, err)
		}
		if _, dup := doc.Fields[key]; !dup {
			doc.Keys = append(doc.Keys, key)
		}
		doc.Fields[key] = val
	}
	return doc, nil
}

// split returns the raw YAML block and the body after the closing delimiter.
func split(text string) (string, string, bool) {
	first, rest, found := strings.Cut(text, "\n")
	if strings.TrimRight(first, "\r") != delim || !found {
		return "", text, false
	}
	offset := 0
	for {
		line, tail, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, "\r") == delim {
			return rest[:offset], tail, true
		}
		if !more {
			return "", text, false
		}
		offset += len(line) + 1
	}
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				out = append(out, item.Value)
				continue
			}
			var v any
			if err := item.Decode(&v); err != nil {
				return nil, err
			}
			out = append(out, fmt.Sprint(v))
		}
		return out, nil
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Strings coerces a frontmatter value to a list of strings.
func Strings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	default:
		return []string{fmt.Sprint(t)}
	}
}

// Tags coerces a "tags" value: lists are kept, scalars are split on commas
// and whitespace.
func Tags(v any) []string {
	if list, ok := v.([]string); ok {
		return list
	}
	var out []string
	for _, s := range Strings(v) {
		for _, part := range tagSplitRe.Split(s, -1) {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Mergeable reports whether key is absent or holds a scalar or a flat list,
// the shapes Set can extend without losing structure.
func (d *Document) Mergeable(key string) bool {
	n := d.value(key)
	if n == nil {
		return true
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return true
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return false
			}
		}
		return true
	}
	return false
}

// Set returns the note with each of keys holding values[key] and body as
// its body. Existing keys are rewritten where they stand and new keys follow
// them in the given order. Every other entry keeps its source text.
// A single value is written as a scalar, several as a list.
func (d *Document) Set(keys []string, values map[string][]string, body string) (string, error) {
	var b strings.Builder
	b.WriteString(delim + "\n")

	fresh := keys
	if d.Present && d.mapping != nil {
		block, rest, err := d.rewrite(keys, values)
		if err != nil {
			return "", err
		}
		b.WriteString(block)
		fresh = rest
	} else if d.Present {
		b.WriteString(d.block)
	}
	if len(fresh) > 0 {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range fresh {
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, valueNode(values[k]))
		}
		out, err := encode(m)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}

	b.WriteString(delim + "\n")
	b.WriteString(body)
	return b.String(), nil
}

// rewrite replaces the entries of keys already in the block and returns the
// new block with the keys it did not find.
func (d *Document) rewrite(keys []string, values map[string][]string) (string, []string, error) {
	content := d.mapping.Content
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	block := d.mapping.Style&yaml.FlowStyle == 0
	for i := 2; block && i < len(content); i += 2 {
		if content[i].Line <= content[i-2].Line {
			block = false
		}
	}
	if !block {
		return d.reencode(keys, values)
	}

	lines := strings.SplitAfter(d.block, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var b strings.Builder
	cursor := 0
	done := make(map[string]bool, len(keys))
	for i := 0; i < len(content); i += 2 {
		key := content[i].Value
		start := content[i].Line - 1
		end := len(lines)
		if i+2 < len(content) {
			end = content[i+2].Line - 1
		}
		// trailing blank and comment lines stay with the block
		for end > start+1 && isFiller(lines[end-1]) {
			end--
		}
		if !want[key] || done[key] {
			continue
		}
		done[key] = true
		entry := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: key}, valueNode(values[key]),
		}}
		out, err := encode(entry)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(strings.Join(lines[cursor:start], ""))
		b.WriteString(out)
		cursor = end
	}
	b.WriteString(strings.Join(lines[cursor:], ""))

	var rest []string
	for _, k := range keys {
		if !done[k] {
			rest = append(rest, k)
		}
	}
	return b.String(), rest, nil
}

// reencode handles flow mappings, whose entries share lines, by editing the
// node tree and writing the whole block again.
func (d *Document) reencode(keys []string, values map[string][]string) (string, []string, error) {
	m := *d.mapping
	m.Content = append([]*yaml.Node(nil), d.mapping.Content...)
	for _, k := range keys {
		found := false
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == k {
				m.Content[i+1] = valueNode(values[k])
				found = true
				break
			}
		}
		if !found {
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, valueNode(values[k]))
		}
	}
	out, err := encode(&m)
	return out, nil, err
}

func (d *Document) value(key string) *yaml.Node {
	if d.mapping == nil {
		return nil
	}
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		if d.mapping.Content[i].Value == key {
			return d.mapping.Content[i+1]
		}
	}
	return nil
}

func isFiller(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

func valueNode(values []string) *yaml.Node {
	if len(values) == 1 {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: values[0]}
	}
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: v})
	}
	return n
}

func encode(n *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	return buf.String(), nil
}
