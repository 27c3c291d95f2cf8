package tree

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRotation_ContentPreserved(t *testing.T) {
	tree := NewBSTree[int, int]().(*bsTree[int, int])
	for _, key := range lo.Shuffle(lo.Range(64)) {
		tree.Insert(key, key)
	}
	inOrder := keysOf[int](tree, InOrder)
	levelOrder := keysOf[int](tree, LevelOrder)

	nodes := make([]*bstNode[int, int], 0, 64)
	levelOrderScan(tree.root, func(x *bstNode[int, int]) bool {
		if x.left != nil && x.right != nil {
			nodes = append(nodes, x)
		}
		return true
	})
	require.NotEmpty(t, nodes)

	for _, x := range nodes {
		y := tree.rotateLeft(x)
		require.Equal(t, x, y.left)
		require.Equal(t, y, x.parent)
		require.Equal(t, inOrder, keysOf[int](tree, InOrder))
		require.NoError(t, ParentLinkViolationValidate[int, int](tree))
		require.NoError(t, MinMaxViolationValidate[int, int](tree))

		require.Equal(t, x, tree.rotateRight(y))
		require.Equal(t, levelOrder, keysOf[int](tree, LevelOrder))

		y = tree.rotateRight(x)
		require.Equal(t, x, y.right)
		require.Equal(t, inOrder, keysOf[int](tree, InOrder))
		require.NoError(t, ParentLinkViolationValidate[int, int](tree))

		require.Equal(t, x, tree.rotateLeft(y))
		require.Equal(t, levelOrder, keysOf[int](tree, LevelOrder))
	}
	require.NoError(t, Validate[int, int](tree))
}

func TestRotation_Root(t *testing.T) {
	tree := sampleTree(t, Unbalanced).(*bsTree[int, string])
	root := tree.root
	y := tree.rotateRight(root)
	require.Equal(t, 3, y.key)
	require.Equal(t, y, tree.root)
	require.Nil(t, y.parent)
	// 4 moved under 5.
	require.Equal(t, 4, root.left.key)
	require.Equal(t, root, root.left.parent)
	require.Equal(t, []int{3, 1, 5, 4, 8, 7, 9}, keysOf[string](tree, LevelOrder))

	require.Panics(t, func() {
		tree.rotateRight(tree.min)
	})
	require.Panics(t, func() {
		tree.rotateLeft(tree.max)
	})
}
