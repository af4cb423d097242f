package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		size     int
		expected []int
	}{
		{name: "empty input", n: 0, size: 25, expected: []int{}},
		{name: "smaller than size", n: 3, size: 25, expected: []int{3}},
		{name: "exact multiple", n: 50, size: 25, expected: []int{25, 25}},
		{name: "remainder", n: 51, size: 25, expected: []int{25, 25, 1}},
		{name: "size one", n: 3, size: 1, expected: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			batches, err := Split(items, tt.size)
			require.NoError(t, err)

			sizes := make([]int, 0, len(batches))
			var joined []int
			for _, b := range batches {
				sizes = append(sizes, len(b))
				joined = append(joined, b...)
			}
			assert.Equal(t, tt.expected, sizes)
			assert.Len(t, batches, (tt.n+tt.size-1)/tt.size)
			if tt.n > 0 {
				assert.Equal(t, items, joined, "concatenated batches must equal the input")
			}
		})
	}
}

func TestSplit_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split([]int{1, 2}, size)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	}
}

func TestSplit_AppendDoesNotClobberNextBatch(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	batches, err := Split(items, 2)
	require.NoError(t, err)

	first := append(batches[0], "x")
	assert.Equal(t, []string{"a", "b", "x"}, first)
	assert.Equal(t, []string{"c", "d"}, batches[1])
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
}
