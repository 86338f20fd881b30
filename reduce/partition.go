package reduce

// Span is a half-open [Start, End) index range over the input.
type Span struct {
	Start, End int
}

// Len returns the number of indices covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Partitions splits n indices into min(workers, n) contiguous,
// non-overlapping spans whose union covers [0, n) exactly. Sizes differ by
// at most one; the remainder of the integer division goes to the first
// spans. Returns nil when n <= 0 or workers <= 0.
func Partitions(n, workers int) []Span {
	if n <= 0 || workers <= 0 {
		return nil
	}
	p := workers
	if n < p {
		p = n
	}
	base, rem := n/p, n%p

	spans := make([]Span, p)
	start := 0
	for i := range spans {
		size := base
		if i < rem {
			size++
		}
		spans[i] = Span{Start: start, End: start + size}
		start += size
	}
	return spans
}
