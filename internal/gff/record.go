// Package gff provides parsing for miniprot protein-to-genome alignment
// records in GFF3 format.
package gff

import (
	"fmt"
	"strings"
)

// Terminus identifies which end of the aligned protein a record covers.
type Terminus int

const (
	// NTD is the N-terminal domain of a spidroin.
	NTD Terminus = iota
	// CTD is the C-terminal domain of a spidroin.
	CTD
)

// String returns the terminus label as it appears in the Target attribute.
func (t Terminus) String() string {
	if t == CTD {
		return "CTD"
	}
	return "NTD"
}

// Attributes holds the parsed key=value attribute column of a miniprot
// alignment record.
type Attributes struct {
	ID       string
	Rank     int
	Identity float64
	Positive float64
	Target   []string // pipe-delimited target descriptor tokens
}

// Record is a single alignment feature line. Coordinates are 1-based
// inclusive. Records are immutable once parsed.
type Record struct {
	SeqID      string
	Source     string
	Type       string
	Start      int64
	End        int64
	Score      float64
	Strand     string
	Frame      string
	Attributes Attributes
}

// Terminus classifies the record by the leading word of the last Target
// token. Any value other than NTD or CTD is an error, not a silent skip:
// misclassified records would corrupt downstream vote counts.
func (r *Record) Terminus() (Terminus, error) {
	if len(r.Attributes.Target) == 0 {
		return 0, fmt.Errorf("record %s: empty Target attribute", r.Attributes.ID)
	}
	last := r.Attributes.Target[len(r.Attributes.Target)-1]
	word, _, _ := strings.Cut(last, " ")
	switch word {
	case "NTD":
		return NTD, nil
	case "CTD":
		return CTD, nil
	default:
		return 0, fmt.Errorf("record %s: unknown terminus %q", r.Attributes.ID, word)
	}
}

// Family returns the spidroin family name encoded in the Target attribute
// (the second-to-last pipe-delimited token), or "" if absent.
func (r *Record) Family() string {
	if len(r.Attributes.Target) < 2 {
		return ""
	}
	return r.Attributes.Target[len(r.Attributes.Target)-2]
}
