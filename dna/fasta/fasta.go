// Package fasta reads and writes FASTA-formatted alignments of DNA
// sequences.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aspartik-go/b3/dna"
)

// Record is one FASTA entry: a description line and its sequence body.
type Record struct {
	Description string
	Sequence    dna.Sequence
}

// Reader reads successive Records from a FASTA stream. Lines starting with
// ';' are comments and are skipped; a record's body may span multiple
// lines, which are concatenated in order.
type Reader struct {
	scanner *bufio.Scanner
	current *Record
	done    bool
}

// NewReader wraps r as a FASTA Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Read returns the next Record, or io.EOF once the stream is exhausted.
func (fr *Reader) Read() (Record, error) {
	if fr.done {
		return Record{}, io.EOF
	}
	for {
		if !fr.scanner.Scan() {
			if err := fr.scanner.Err(); err != nil {
				return Record{}, err
			}
			fr.done = true
			if fr.current != nil {
				out := *fr.current
				fr.current = nil
				return out, nil
			}
			return Record{}, io.EOF
		}

		line := fr.scanner.Text()
		if strings.HasPrefix(line, ";") || strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			out := fr.current
			rec := &Record{Description: strings.TrimSpace(line[1:])}
			fr.current = rec
			if out != nil {
				return *out, nil
			}
			continue
		}

		seq, err := dna.Parse(strings.ToUpper(strings.TrimSpace(line)))
		if err != nil {
			return Record{}, fmt.Errorf("fasta: %w", err)
		}
		if fr.current == nil {
			return Record{}, fmt.Errorf("fasta: sequence data before any %q header", ">")
		}
		fr.current.Sequence.Append(seq)
	}
}

// ReadAll reads every Record in the stream.
func ReadAll(r io.Reader) ([]Record, error) {
	fr := NewReader(r)
	var out []Record
	for {
		rec, err := fr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// Writer writes Records in FASTA format, wrapping sequence bodies at a
// fixed line width.
type Writer struct {
	w         io.Writer
	LineWidth int
}

// NewWriter wraps w as a FASTA Writer with the conventional 60-column body
// width.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, LineWidth: 60}
}

// Write emits one Record.
func (fw *Writer) Write(rec Record) error {
	if _, err := fmt.Fprintf(fw.w, ">%s\n", rec.Description); err != nil {
		return err
	}
	body := rec.Sequence.String()
	width := fw.LineWidth
	if width <= 0 {
		width = len(body)
		if width == 0 {
			width = 1
		}
	}
	for i := 0; i < len(body); i += width {
		end := i + width
		if end > len(body) {
			end = len(body)
		}
		if _, err := fmt.Fprintln(fw.w, body[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every Record in recs.
func WriteAll(w io.Writer, recs []Record) error {
	fw := NewWriter(w)
	for _, rec := range recs {
		if err := fw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
