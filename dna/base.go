// Package dna implements the IUPAC DNA nucleobase alphabet and aligned
// sequences of it.
//
// Pure bases are bit flags (A=0b0001, C=0b0010, G=0b0100, T=0b1000).
// Ambiguity codes are the bitwise union of the pure bases they stand for,
// and Gap is a distinguished fifth bit outside that union. This fixes the
// bit-layout ambiguity present in the corpus this engine was modeled on,
// where two conventions disagreed on which bit belongs to Guanine; see
// DESIGN.md.
package dna

import "fmt"

// Base is an IUPAC nucleobase code, including ambiguity codes and the gap
// symbol, encoded as a bitmask over the four pure bases.
type Base uint8

const (
	Adenine  Base = 1 << 0
	Cytosine Base = 1 << 1
	Guanine  Base = 1 << 2
	Thymine  Base = 1 << 3

	Weak       = Adenine | Thymine    // W
	Strong     = Cytosine | Guanine   // S
	Amino      = Adenine | Cytosine   // M
	Ketone     = Guanine | Thymine    // K
	Purine     = Adenine | Guanine    // R
	Pyrimidine = Cytosine | Thymine   // Y

	NotAdenine  = Cytosine | Guanine | Thymine // B
	NotCytosine = Adenine | Guanine | Thymine  // D
	NotGuanine  = Adenine | Cytosine | Thymine // H
	NotThymine  = Adenine | Cytosine | Guanine // V

	Any Base = Adenine | Cytosine | Guanine | Thymine // N

	// Gap is a distinguished symbol outside the pure-base bitmask.
	Gap Base = 1 << 4
)

// numPureBases is the size of the underlying alphabet (N in spec
// terminology).
const numPureBases = 4

// ParseBase parses a single IUPAC DNA character, case-insensitively.
func ParseBase(ch byte) (Base, error) {
	switch ch {
	case 'A', 'a':
		return Adenine, nil
	case 'C', 'c':
		return Cytosine, nil
	case 'G', 'g':
		return Guanine, nil
	case 'T', 't':
		return Thymine, nil
	case 'W', 'w':
		return Weak, nil
	case 'S', 's':
		return Strong, nil
	case 'M', 'm':
		return Amino, nil
	case 'K', 'k':
		return Ketone, nil
	case 'R', 'r':
		return Purine, nil
	case 'Y', 'y':
		return Pyrimidine, nil
	case 'B', 'b':
		return NotAdenine, nil
	case 'D', 'd':
		return NotCytosine, nil
	case 'H', 'h':
		return NotGuanine, nil
	case 'V', 'v':
		return NotThymine, nil
	case 'N', 'n':
		return Any, nil
	case '-':
		return Gap, nil
	default:
		return 0, &InvalidCharacterError{Char: rune(ch)}
	}
}

// InvalidCharacterError is returned when parsing an illegal IUPAC code.
type InvalidCharacterError struct {
	Char rune
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("%q is not a valid IUPAC nucleobase character", e.Char)
}

// String renders the base back to its canonical IUPAC letter.
func (b Base) String() string {
	switch b {
	case Adenine:
		return "A"
	case Cytosine:
		return "C"
	case Guanine:
		return "G"
	case Thymine:
		return "T"
	case Weak:
		return "W"
	case Strong:
		return "S"
	case Amino:
		return "M"
	case Ketone:
		return "K"
	case Purine:
		return "R"
	case Pyrimidine:
		return "Y"
	case NotAdenine:
		return "B"
	case NotCytosine:
		return "D"
	case NotGuanine:
		return "H"
	case NotThymine:
		return "V"
	case Any:
		return "N"
	case Gap:
		return "-"
	default:
		return fmt.Sprintf("Base(%#02x)", uint8(b))
	}
}

// Complement returns the Watson-Crick complement of b. Any and Gap are
// self-complementary.
func (b Base) Complement() Base {
	switch b {
	case Adenine:
		return Thymine
	case Thymine:
		return Adenine
	case Cytosine:
		return Guanine
	case Guanine:
		return Cytosine
	default:
		// For ambiguity codes, complement each constituent pure
		// base and re-union the flags.
		var out Base
		if b&Adenine != 0 {
			out |= Thymine
		}
		if b&Thymine != 0 {
			out |= Adenine
		}
		if b&Cytosine != 0 {
			out |= Guanine
		}
		if b&Guanine != 0 {
			out |= Cytosine
		}
		if b&Gap != 0 {
			out |= Gap
		}
		return out
	}
}

// Includes reports whether other is a subset of the pure bases that b
// stands for: a ⊇ b iff a&b == b.
func (b Base) Includes(other Base) bool {
	return b&other == other
}

// PureBases returns the pure bases (excluding Gap) that b stands for, in
// index order A,C,G,T.
func (b Base) PureBases() []Base {
	var out []Base
	for _, p := range [numPureBases]Base{Adenine, Cytosine, Guanine, Thymine} {
		if b&p != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Index returns the 0..3 alphabet index of a pure base (A=0, C=1, G=2,
// T=3). It panics if b is not a single pure base.
func (b Base) Index() int {
	switch b {
	case Adenine:
		return 0
	case Cytosine:
		return 1
	case Guanine:
		return 2
	case Thymine:
		return 3
	default:
		panic(fmt.Sprintf("dna: %v is not a pure base", b))
	}
}

// Row returns the length-4 probability vector for this character, used to
// seed a leaf's conditional likelihood: a pure base is one-hot, and an
// ambiguity code or Gap is uniform (summing to 1) over its included pure
// bases, Gap behaving as Any.
func (b Base) Row() [numPureBases]float64 {
	var row [numPureBases]float64
	if b == Gap {
		b = Any
	}

	pures := b.PureBases()
	if len(pures) == 0 {
		return row
	}
	weight := 1.0 / float64(len(pures))
	for _, p := range pures {
		row[p.Index()] = weight
	}
	return row
}
