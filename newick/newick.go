// Package newick parses and serializes Newick-formatted trees into a flat,
// index-addressed intermediate form that the tree package converts into a
// rooted binary time-tree.
package newick

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Node is one parsed Newick node. Root has Parent == -1.
type Node struct {
	Parent     int
	Name       string
	Distance   *float64
	Attributes map[string]string
}

// Tree is a flat, parent-pointer forest parsed from a single Newick
// statement. Index 0 is always the root.
type Tree struct {
	Nodes []Node
}

// Root returns the index of the root node.
func (t *Tree) Root() int {
	return 0
}

// Children returns the indices of i's direct children, in the order they
// appeared in the input.
func (t *Tree) Children(i int) []int {
	var out []int
	for j, n := range t.Nodes {
		if n.Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// ParseError reports a malformed Newick statement.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("newick: %s", e.Reason)
}

// Parse parses a single Newick tree statement, including its trailing ';'.
func Parse(s string) (*Tree, error) {
	t := &Tree{}
	rest := strings.TrimSpace(s)
	rest = strings.TrimSuffix(rest, ";")

	_, err := parseNode(rest, t, -1)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseNode parses one node (and, recursively, its descendant clade) from
// the front of s, appends it and its descendants to t, and returns what
// remains of s after the node's trailing comma (if any) is consumed.
func parseNode(s string, t *Tree, parent int) (string, error) {
	s = strings.TrimSpace(s)

	thisIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Parent: parent})

	if strings.HasPrefix(s, "(") {
		s = s[1:]
		for {
			s = strings.TrimSpace(s)
			if strings.HasPrefix(s, ")") || s == "" {
				break
			}
			var err error
			s, err = parseNode(s, t, thisIdx)
			if err != nil {
				return "", err
			}
		}
		if !strings.HasPrefix(s, ")") {
			return "", &ParseError{Reason: "unclosed '('"}
		}
		s = s[1:]
	}

	name, s, err := parseName(s)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)

	var attrs map[string]string
	if strings.HasPrefix(s, "[") {
		var raw string
		raw, s, err = parseAttributes(s)
		if err != nil {
			return "", err
		}
		attrs = parseAttributePairs(raw)
	}

	s = strings.TrimSpace(s)
	var dist *float64
	if strings.HasPrefix(s, ":") {
		var d float64
		d, s, err = parseDistance(s[1:])
		if err != nil {
			return "", err
		}
		dist = &d
	}

	t.Nodes[thisIdx].Name = name
	t.Nodes[thisIdx].Attributes = attrs
	t.Nodes[thisIdx].Distance = dist

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ",")
	return strings.TrimSpace(s), nil
}

// parseName consumes a bare or double-quoted node name from the front of
// s, returning the name and what remains.
func parseName(s string) (string, string, error) {
	if strings.HasPrefix(s, `"`) {
		body := s[1:]
		var sb strings.Builder
		for {
			idx := strings.IndexByte(body, '"')
			if idx < 0 {
				return "", "", &ParseError{Reason: "unterminated quoted name"}
			}
			sb.WriteString(body[:idx])
			body = body[idx+1:]
			if strings.HasPrefix(body, `"`) {
				// "" is an escaped quote; keep scanning.
				sb.WriteByte('"')
				body = body[1:]
				continue
			}
			return sb.String(), body, nil
		}
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return strings.ContainsRune(",:()[;", r) || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if end < 0 {
		end = len(s)
	}
	return s[:end], s[end:], nil
}

// parseAttributes consumes a single non-nested '[...]' block.
func parseAttributes(s string) (string, string, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", "", &ParseError{Reason: "unclosed '['"}
	}
	raw := s[1:end]
	if strings.ContainsRune(raw, '[') {
		return "", "", &ParseError{Reason: "nested '[' in attribute block"}
	}
	return raw, s[end+1:], nil
}

// parseAttributePairs splits a comma-separated "key=value" attribute
// string into a map. A token with no '=' is stored under its own text as
// both key and value, preserving it without discarding it.
func parseAttributePairs(raw string) map[string]string {
	out := map[string]string{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if k, v, ok := strings.Cut(tok, "="); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else {
			out[tok] = tok
		}
	}
	return out
}

// parseDistance consumes a floating point branch length from the front of
// s.
func parseDistance(s string) (float64, string, error) {
	end := 0
	for end < len(s) {
		ch := s[end]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == 'e' || ch == 'E' || ch == '-' || ch == '+' {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, "", &ParseError{Reason: fmt.Sprintf("invalid branch length %q", s[:end])}
	}
	return v, s[end:], nil
}

// String serializes t back to a Newick statement.
func (t *Tree) String() string {
	var sb strings.Builder
	writeNode(&sb, t, t.Root())
	sb.WriteByte(';')
	return sb.String()
}

func writeNode(sb *strings.Builder, t *Tree, i int) {
	children := t.Children(i)
	if len(children) > 0 {
		sb.WriteByte('(')
		for j, c := range children {
			if j > 0 {
				sb.WriteByte(',')
			}
			writeNode(sb, t, c)
		}
		sb.WriteByte(')')
	}

	n := t.Nodes[i]
	sb.WriteString(quoteName(n.Name))

	if len(n.Attributes) > 0 {
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('[')
		for j, k := range keys {
			if j > 0 {
				sb.WriteByte(',')
			}
			v := n.Attributes[k]
			if k == v {
				sb.WriteString(k)
			} else {
				sb.WriteString(k)
				sb.WriteByte('=')
				sb.WriteString(v)
			}
		}
		sb.WriteByte(']')
	}

	if n.Distance != nil {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(*n.Distance, 'g', -1, 64))
	}
}

// quoteName quotes name if it contains a character that would otherwise
// terminate a bare name.
func quoteName(name string) string {
	if name == "" {
		return ""
	}
	if strings.ContainsAny(name, ",:()[];") || strings.ContainsAny(name, " \t") {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}
