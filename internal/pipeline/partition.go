package pipeline

import "sort"

// Segment is a contiguous slice of source text assigned to one generation
// task. Index is the segment's position in the retained set and drives
// global question numbering.
type Segment struct {
	Index int
	Text  string
}

// partition truncates the source text to the leading TruncateFraction, then
// splits it into n contiguous near-equal segments (the last absorbs the
// remainder). If n*subN would exceed the question ceiling, it keeps only
// ceiling/subN segments (minimum 1), chosen by uniform sampling without
// replacement with original order preserved. Never fails; n <= 1 yields a
// single segment covering the truncated text.
func (p *Pipeline) partition(text string, n, subN int) []Segment {
	runes := []rune(text)
	cut := int(float64(len(runes)) * p.opts.TruncateFraction)
	reduced := runes[:cut]

	if n <= 1 {
		return []Segment{{Index: 0, Text: string(reduced)}}
	}

	partLen := len(reduced) / n
	segments := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		start := i * partLen
		end := start + partLen
		if i == n-1 {
			end = len(reduced)
		}
		segments = append(segments, Segment{Index: i, Text: string(reduced[start:end])})
	}

	ceiling := p.opts.MaxQuestions
	if n*subN > ceiling {
		partsNeeded := ceiling / subN
		if partsNeeded < 1 {
			partsNeeded = 1
		}
		if partsNeeded < n {
			picked := p.perm(n)[:partsNeeded]
			sort.Ints(picked)

			reduced := make([]Segment, 0, partsNeeded)
			for i, idx := range picked {
				seg := segments[idx]
				seg.Index = i // renumber into the retained set
				reduced = append(reduced, seg)
			}
			segments = reduced
		}
	}

	return segments
}
