// Package predict turns boundary vote sets into scored gene-boundary
// hypotheses.
package predict

import (
	"fmt"

	"github.com/luxiangze/spider-silkome/internal/positions"
)

// Reason codes attached to every prediction. ReasonTooShort and
// ReasonTooLong carry the offending length, e.g. "too_short_412".
const (
	ReasonValid        = "valid"
	ReasonInvalidOrder = "invalid_order"
	ReasonNoStart      = "no_start"
	ReasonNoEnd        = "no_end"
	ReasonIntermediate = "has_intermediate_positions"
)

// Config holds the thresholds applied during boundary inference.
// Length bounds are inclusive. ExtensionLength is only used to synthesize
// the missing side of one-sided fallback predictions; no genome-length
// clamping is applied (chromosome lengths are unknown here).
type Config struct {
	PositiveThreshold float64
	MinLength         int64
	MaxLength         int64
	ExtensionLength   int64
}

// DefaultConfig returns the thresholds used by the curation pipeline.
func DefaultConfig() Config {
	return Config{
		PositiveThreshold: 0.75,
		MinLength:         1000,
		MaxLength:         100000,
		ExtensionLength:   10000,
	}
}

// Prediction is one scored gene-boundary hypothesis. Valid is true only
// when Reason is ReasonValid; order violations zero both Length and Score.
//
// HasIntermediate marks a length-valid pair whose window strictly contains
// another candidate boundary. It bars the pair from the gene output but
// leaves Valid and Reason untouched: the audit table reports the
// length-bound verdict.
type Prediction struct {
	Chr             string
	Strand          string
	StartPosition   int64
	StartCount      int
	EndPosition     int64
	EndCount        int
	Length          int64
	Score           int
	Valid           bool
	Reason          string
	HasIntermediate bool
}

// Accepted reports whether the prediction belongs in the gene GFF output:
// length-valid pairs with no intermediate positions, plus one-sided
// fallbacks. Everything else only appears in the audit table.
func (p Prediction) Accepted() bool {
	if p.Fallback() {
		return true
	}
	return p.Valid && !p.HasIntermediate
}

// EffectiveReason is the reason code for the prediction in its gene-output
// role: a valid pair held back by an intermediate position reports
// has_intermediate_positions.
func (p Prediction) EffectiveReason() string {
	if p.Valid && p.HasIntermediate {
		return ReasonIntermediate
	}
	return p.Reason
}

// Fallback reports whether the prediction was synthesized from one-sided
// evidence.
func (p Prediction) Fallback() bool {
	return p.Reason == ReasonNoStart || p.Reason == ReasonNoEnd
}

// New creates a prediction for a start-end candidate pair, applying the
// ordering and length-bound checks.
func New(chr, strand string, startPos int64, startCount int, endPos int64, endCount int, cfg Config) Prediction {
	p := Prediction{
		Chr:           chr,
		Strand:        strand,
		StartPosition: startPos,
		StartCount:    startCount,
		EndPosition:   endPos,
		EndCount:      endCount,
	}

	if startPos >= endPos {
		p.Reason = ReasonInvalidOrder
		return p
	}

	p.Length = endPos - startPos
	p.Score = startCount + endCount

	switch {
	case p.Length < cfg.MinLength:
		p.Reason = fmt.Sprintf("too_short_%d", p.Length)
	case p.Length > cfg.MaxLength:
		p.Reason = fmt.Sprintf("too_long_%d", p.Length)
	default:
		p.Valid = true
		p.Reason = ReasonValid
	}

	return p
}

// PairIter lazily enumerates the candidate predictions for one vote set.
// The full case walks the |S|x|E| Cartesian product one pair at a time, so
// degenerate inputs with many tied boundary votes never force the whole
// product into memory.
type PairIter struct {
	set    *positions.Set
	cfg    Config
	starts []int64
	ends   []int64
	i, j   int
}

// Pairs returns an iterator over all candidate predictions for the set,
// ordered by start position then end position. A set with no votes on
// either side yields nothing; a set with votes on only one side yields
// one synthesized fallback per position on that side.
func Pairs(set *positions.Set, cfg Config) *PairIter {
	return &PairIter{
		set:    set,
		cfg:    cfg,
		starts: set.StartPositions(),
		ends:   set.EndPositions(),
	}
}

// Next returns the next prediction, or ok=false when the enumeration is
// exhausted.
func (it *PairIter) Next() (Prediction, bool) {
	switch {
	case len(it.starts) == 0 && len(it.ends) == 0:
		return Prediction{}, false

	case len(it.starts) == 0:
		// no_start fallback: extend backwards from each end.
		if it.j >= len(it.ends) {
			return Prediction{}, false
		}
		end := it.ends[it.j]
		it.j++
		start := end - it.cfg.ExtensionLength
		if start < 1 {
			start = 1
		}
		return Prediction{
			Chr:           it.set.Chr,
			Strand:        it.set.Strand,
			StartPosition: start,
			EndPosition:   end,
			EndCount:      it.set.End[end],
			Length:        end - start,
			Score:         it.set.End[end],
			Reason:        ReasonNoStart,
		}, true

	case len(it.ends) == 0:
		// no_end fallback: extend forwards from each start.
		if it.i >= len(it.starts) {
			return Prediction{}, false
		}
		start := it.starts[it.i]
		it.i++
		return Prediction{
			Chr:           it.set.Chr,
			Strand:        it.set.Strand,
			StartPosition: start,
			StartCount:    it.set.Start[start],
			EndPosition:   start + it.cfg.ExtensionLength,
			Length:        it.cfg.ExtensionLength,
			Score:         it.set.Start[start],
			Reason:        ReasonNoEnd,
		}, true
	}

	if it.i >= len(it.starts) {
		return Prediction{}, false
	}

	start := it.starts[it.i]
	end := it.ends[it.j]
	it.j++
	if it.j >= len(it.ends) {
		it.j = 0
		it.i++
	}

	p := New(it.set.Chr, it.set.Strand, start, it.set.Start[start], end, it.set.End[end], it.cfg)

	// A length-valid pair that strictly contains another candidate boundary
	// is a nested or duplicate call from the same evidence cluster; keep
	// only the innermost tight window for the gene output.
	if p.Valid && hasIntermediate(start, end, it.starts, it.ends) {
		p.HasIntermediate = true
	}

	return p, true
}

// hasIntermediate reports whether any other start or end coordinate lies
// strictly between start and end.
func hasIntermediate(start, end int64, starts, ends []int64) bool {
	for _, s := range starts {
		if start < s && s < end {
			return true
		}
	}
	for _, e := range ends {
		if start < e && e < end {
			return true
		}
	}
	return false
}

// All collects every prediction from the iterator. Tests and the audit
// sorter use it; the exporters consume iterators directly.
func (it *PairIter) All() []Prediction {
	var preds []Prediction
	for {
		p, ok := it.Next()
		if !ok {
			return preds
		}
		preds = append(preds, p)
	}
}
