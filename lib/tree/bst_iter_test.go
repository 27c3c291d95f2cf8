package tree

import (
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var allOrders = []TraversalOrder{InOrder, PreOrder, PostOrder, LevelOrder}

func TestIterator_NextPrevSymmetry(t *testing.T) {
	for _, strategy := range []Strategy{Unbalanced, HeightBalanced, MoveToRoot} {
		tree := NewTree[int, int](strategy, func(i, j int) bool { return i < j })
		for _, key := range lo.Shuffle(lo.Range(200)) {
			tree.Insert(key, key)
		}
		for _, order := range allOrders {
			t.Run(strategy.String()+" "+order.String(), func(tt *testing.T) {
				forward := make([]int, 0, 200)
				for it := tree.Begin(order); it.Valid(); it.Next() {
					forward = append(forward, it.Key())
				}
				require.Len(tt, forward, 200)
				require.Equal(tt, keysOf(tree, order), forward)

				backward := make([]int, 0, 200)
				it := tree.End(order)
				for it.Prev(); it.Valid(); it.Prev() {
					backward = append(backward, it.Key())
				}
				slices.Reverse(backward)
				require.Equal(tt, forward, backward)

				// next(prev(x)) == x at every position.
				for it = tree.Begin(order); it.Valid(); it.Next() {
					probe := it
					probe.Prev()
					if !probe.Valid() {
						require.True(tt, it.Equal(tree.Begin(order)))
						continue
					}
					probe.Next()
					require.True(tt, probe.Equal(it))
				}
				require.Equal(tt, tree.Last(order).Key(), forward[len(forward)-1])
			})
		}
	}
}

func TestIterator_EndPosition(t *testing.T) {
	tree := sampleTree(t, Unbalanced)
	for _, order := range allOrders {
		end := tree.End(order)
		require.False(t, end.Valid())
		require.Nil(t, end.Node())
		require.Equal(t, order, end.Order())
		require.Panics(t, func() { end.Next() })
		require.Panics(t, func() { end.Key() })
		require.Panics(t, func() { end.Val() })
		require.Panics(t, func() { end.SetVal("x") })

		end.Prev()
		require.True(t, end.Equal(tree.Last(order)))

		first := tree.Begin(order)
		first.Prev()
		require.False(t, first.Valid())
		require.True(t, first.Equal(tree.End(order)))
	}

	empty := NewBSTree[int, int]()
	it := empty.End(InOrder)
	it.Prev()
	require.False(t, it.Valid())
	require.False(t, empty.Begin(LevelOrder).Valid())

	var detached Iterator[int, int]
	require.False(t, detached.Valid())
	require.Panics(t, func() { detached.Prev() })
	require.Panics(t, func() { detached.Next() })
}

func TestIterator_Reorder(t *testing.T) {
	tree := sampleTree(t, Unbalanced)
	it := tree.Find(3)
	require.Equal(t, InOrder, it.Order())

	in := it
	in.Next()
	require.Equal(t, 4, in.Key())

	pre := it.Reorder(PreOrder)
	pre.Next()
	require.Equal(t, 1, pre.Key())

	post := it.Reorder(PostOrder)
	post.Next()
	require.Equal(t, 7, post.Key())

	level := it.Reorder(LevelOrder)
	level.Next()
	require.Equal(t, 8, level.Key())
	level.Prev()
	level.Prev()
	require.Equal(t, 5, level.Key())

	require.Equal(t, 3, it.Key())
	require.Panics(t, func() { it.Reorder(_orderMax) })
}

func TestIterator_StableAcrossRotations(t *testing.T) {
	for _, strategy := range []Strategy{HeightBalanced, MoveToRoot} {
		t.Run(strategy.String(), func(tt *testing.T) {
			tree := NewTree[int, string](strategy, func(i, j int) bool { return i < j })
			tree.Insert(1, "1")
			tree.Insert(2, "2")
			it := tree.Find(1)
			node := it.Node()

			observer := countingObserver{}
			tree.(*bsTree[int, string]).observer = observer
			for _, key := range []int{3, 4, 5, 6, 7, 0} {
				tree.Insert(key, "")
			}
			require.Positive(tt, observer[OpRotate])
			require.Equal(tt, 1, it.Key())
			require.Equal(tt, "1", it.Val())
			require.Equal(tt, node, it.Node())
			it.Next()
			require.Equal(tt, 2, it.Key())
			it.Prev()
			it.Prev()
			require.Equal(tt, 0, it.Key())
			require.NoError(tt, Validate(tree))
		})
	}
}

func TestIterator_Backward(t *testing.T) {
	tree := sampleTree(t, HeightBalanced)
	keys := make([]int, 0, 3)
	for key := range tree.Backward(InOrder) {
		keys = append(keys, key)
		if len(keys) == 3 {
			break
		}
	}
	require.Equal(t, []int{9, 8, 7}, keys)

	values := make([]string, 0, 2)
	for _, val := range tree.All(LevelOrder) {
		values = append(values, val)
		if len(values) == 2 {
			break
		}
	}
	require.Equal(t, []string{"5", "3"}, values)
}

func TestTraversal_Degenerate(t *testing.T) {
	// Link-only walks over a long chain.
	tree := NewBSTree[int, int]()
	total := 50_000
	tree.InsertRange(func(yield func(int, int) bool) {
		for i := 1; i <= total; i++ {
			if !yield(i, i) {
				return
			}
		}
	})
	require.Equal(t, int64(total), tree.Len())
	require.Equal(t, 1, tree.Root().Key())
	require.Equal(t, total-1, tree.Height())

	count := 0
	for key := range tree.All(PostOrder) {
		count++
		if count == 1 {
			require.Equal(t, total, key)
		}
	}
	require.Equal(t, total, count)

	count = 0
	for key := range tree.Backward(PreOrder) {
		count++
		if count == 1 {
			require.Equal(t, total, key)
		}
	}
	require.Equal(t, total, count)
	tree.Release()
}
