package infra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedLess(t *testing.T) {
	less := Less[int](OrderedLess[int])
	require.True(t, less(1, 2))
	require.False(t, less(2, 1))
	require.False(t, less(2, 2))

	desc := less.Reverse()
	require.True(t, desc(2, 1))
	require.False(t, desc(1, 2))

	require.True(t, less.Equivalent(3, 3))
	require.False(t, less.Equivalent(3, 4))
}

func TestLessComparator(t *testing.T) {
	cmp := Less[string](OrderedLess[string]).Comparator()
	testcases := []struct {
		i, j string
		want int64
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"abc", "abc", 0},
		{"", "a", -1},
	}
	for _, tc := range testcases {
		require.Equalf(t, tc.want, cmp(tc.i, tc.j), "compare %q with %q", tc.i, tc.j)
	}

	gt := Less[float64](OrderedGreater[float64]).Comparator()
	require.Equal(t, int64(-1), gt(2.5, 1.5))
}
