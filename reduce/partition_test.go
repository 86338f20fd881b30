package reduce

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitions_CoverInputExactly(t *testing.T) {
	tests := []struct {
		name       string
		n, workers int
		wantSpans  int
	}{
		{name: "even split", n: 100, workers: 4, wantSpans: 4},
		{name: "remainder to first spans", n: 10, workers: 3, wantSpans: 3},
		{name: "one element per worker", n: 4, workers: 4, wantSpans: 4},
		{name: "fewer elements than workers", n: 3, workers: 8, wantSpans: 3},
		{name: "single worker", n: 17, workers: 1, wantSpans: 1},
		{name: "single element", n: 1, workers: 6, wantSpans: 1},
		{name: "large uneven", n: 1_000_003, workers: 8, wantSpans: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Partitions(tt.n, tt.workers)
			require.Len(t, spans, tt.wantSpans)

			// Contiguous, disjoint, jointly covering [0, n).
			require.Equal(t, 0, spans[0].Start)
			for i := 1; i < len(spans); i++ {
				require.Equal(t, spans[i-1].End, spans[i].Start, "spans must be contiguous")
			}
			require.Equal(t, tt.n, spans[len(spans)-1].End)

			// Sizes differ by at most one and the larger ones come first.
			minLen, maxLen := spans[0].Len(), spans[0].Len()
			for i, s := range spans {
				require.Positive(t, s.Len(), "span %d must not be empty", i)
				if s.Len() < minLen {
					minLen = s.Len()
				}
				if s.Len() > maxLen {
					maxLen = s.Len()
				}
			}
			require.LessOrEqual(t, maxLen-minLen, 1)
			for i := 1; i < len(spans); i++ {
				require.GreaterOrEqual(t, spans[i-1].Len(), spans[i].Len(),
					"the remainder goes to the first spans")
			}
		})
	}
}

func TestPartitions_DegenerateInputs(t *testing.T) {
	require.Nil(t, Partitions(0, 4))
	require.Nil(t, Partitions(-1, 4))
	require.Nil(t, Partitions(10, 0))
	require.Nil(t, Partitions(10, -2))
}
