package dna

import "strings"

// Sequence is an ordered sequence of DNA characters, case-normalized to
// upper case.
type Sequence []Base

// Parse reads a sequence from its rendered textual form. Whitespace is
// skipped. parse(render(s)) == s for any legal s.
func Parse(s string) (Sequence, error) {
	out := make(Sequence, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			continue
		}
		b, err := ParseBase(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// String renders the sequence back to its canonical textual form.
func (s Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, b := range s {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Equal reports elementwise equality.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Len returns the number of characters (alignment columns) in s.
func (s Sequence) Len() int {
	return len(s)
}

// Append mutates s by appending the characters of more, used by the
// multiline FASTA reader to assemble a record body across lines.
func (s *Sequence) Append(more Sequence) {
	*s = append(*s, more...)
}
