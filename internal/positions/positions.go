// Package positions aggregates terminus alignment evidence into
// per-chromosome-strand boundary vote sets.
package positions

import (
	"sort"
	"strings"

	"github.com/luxiangze/spider-silkome/internal/gff"
)

// Set holds the boundary votes collected for one (chromosome, strand)
// combination. Start and End map a genomic position to the number of
// qualifying alignments anchored there; entries are only created on the
// first vote, so stored counts are always >= 1. A Set is built once by
// Extract and read-only afterwards.
type Set struct {
	Chr    string
	Strand string
	Start  map[int64]int
	End    map[int64]int
}

// HasValidPair reports whether both boundary sides received votes.
func (s *Set) HasValidPair() bool {
	return len(s.Start) > 0 && len(s.End) > 0
}

// Combinations returns the number of possible start-end pairings.
func (s *Set) Combinations() int {
	return len(s.Start) * len(s.End)
}

// StartPositions returns the start coordinates in ascending order.
func (s *Set) StartPositions() []int64 {
	return sortedKeys(s.Start)
}

// EndPositions returns the end coordinates in ascending order.
func (s *Set) EndPositions() []int64 {
	return sortedKeys(s.End)
}

func sortedKeys(m map[int64]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Extract classifies alignment records into boundary votes and groups them
// by (chromosome, strand).
//
// Records whose Positive fraction is strictly below positiveThreshold are
// discarded. The terminus of each remaining record decides which side the
// vote lands on:
//
//	CTD on + -> end      (C-terminus closes a sense-strand gene)
//	CTD on - -> start    (antisense gene: C-terminus at the lower coordinate)
//	NTD on + -> start
//	NTD on - -> end
//
// Aggregation is a commutative sum, so record order never changes the
// result. Returned sets are ordered by the numeric value extracted from
// the chromosome label, then by strand; labels without digits sort after
// all numeric ones, by raw text.
func Extract(records []*gff.Record, positiveThreshold float64) ([]*Set, error) {
	type key struct {
		chr    string
		strand string
	}
	groups := make(map[key]*Set)

	for _, r := range records {
		if r.Attributes.Positive < positiveThreshold {
			continue
		}

		terminus, err := r.Terminus()
		if err != nil {
			return nil, err
		}

		k := key{chr: r.SeqID, strand: r.Strand}
		set, ok := groups[k]
		if !ok {
			set = &Set{
				Chr:    r.SeqID,
				Strand: r.Strand,
				Start:  make(map[int64]int),
				End:    make(map[int64]int),
			}
			groups[k] = set
		}

		switch {
		case terminus == gff.CTD && r.Strand == "+":
			set.End[r.End]++
		case terminus == gff.CTD && r.Strand == "-":
			set.Start[r.Start]++
		case terminus == gff.NTD && r.Strand == "+":
			set.Start[r.Start]++
		default: // NTD on -
			set.End[r.End]++
		}
	}

	sets := make([]*Set, 0, len(groups))
	for _, set := range groups {
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		if c := CompareChrom(a.Chr, b.Chr); c != 0 {
			return c < 0
		}
		return a.Strand < b.Strand
	})

	return sets, nil
}

// ChromNumber extracts the first run of decimal digits from a chromosome
// label, e.g. "Chr12" -> 12. ok is false when the label has no digits.
func ChromNumber(label string) (n int64, ok bool) {
	start := -1
	for i, c := range label {
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			n = n*10 + int64(c-'0')
		} else if start >= 0 {
			break
		}
	}
	return n, start >= 0
}

// CompareChrom orders chromosome labels by their extracted number;
// labels without digits sort after all numeric ones, by raw text.
func CompareChrom(a, b string) int {
	na, aok := ChromNumber(a)
	nb, bok := ChromNumber(b)
	switch {
	case aok && bok:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
