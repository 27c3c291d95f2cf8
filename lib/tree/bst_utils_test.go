package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type foreignTree struct {
	Tree[int, string]
}

func TestValidate_Violations(t *testing.T) {
	testcases := []struct {
		name     string
		strategy Strategy
		corrupt  func(tree *bsTree[int, string])
		check    func(tree Tree[int, string]) error
	}{
		{
			name:     "order",
			strategy: Unbalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.left.right.key = 6
			},
			check: OrderViolationValidate[int, string],
		},
		{
			name:     "duplicate key",
			strategy: Unbalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.left.right.key = 5
			},
			check: OrderViolationValidate[int, string],
		},
		{
			name:     "size",
			strategy: HeightBalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.count++
			},
			check: SizeViolationValidate[int, string],
		},
		{
			name:     "min",
			strategy: MoveToRoot,
			corrupt: func(tree *bsTree[int, string]) {
				tree.min = tree.root
			},
			check: MinMaxViolationValidate[int, string],
		},
		{
			name:     "max",
			strategy: Unbalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.max = tree.root.right
			},
			check: MinMaxViolationValidate[int, string],
		},
		{
			name:     "parent link",
			strategy: HeightBalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.right.left.parent = tree.root
			},
			check: ParentLinkViolationValidate[int, string],
		},
		{
			name:     "root parent",
			strategy: HeightBalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.parent = tree.root.left
			},
			check: ParentLinkViolationValidate[int, string],
		},
		{
			name:     "recorded height",
			strategy: HeightBalanced,
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.left.height = 5
			},
			check: HeightViolationValidate[int, string],
		},
		{
			name:     "balance factor",
			strategy: HeightBalanced,
			corrupt: func(tree *bsTree[int, string]) {
				// 5 keeps a left chain 3-1 only.
				tree.root.right = nil
				tree.root.left.right = nil
				tree.root.left.height = 1
				tree.root.height = 2
				tree.count = 3
				tree.max = tree.root
			},
			check: HeightViolationValidate[int, string],
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := sampleTree(tt, tc.strategy)
			require.NoError(tt, tc.check(tree))
			tc.corrupt(tree.(*bsTree[int, string]))
			err := tc.check(tree)
			require.ErrorIs(tt, err, ErrViolation)
			require.ErrorIs(tt, Validate(tree), ErrViolation)
		})
	}
}

func TestValidate_Combined(t *testing.T) {
	tree := sampleTree(t, HeightBalanced)
	engine := tree.(*bsTree[int, string])
	engine.count = 100
	engine.root.height = 7
	errs := multierr.Errors(Validate(tree))
	require.Len(t, errs, 2)
	for _, err := range errs {
		require.ErrorIs(t, err, ErrViolation)
	}

	// Heights are only tracked by the height-balanced strategy.
	require.NoError(t, HeightViolationValidate(sampleTree(t, Unbalanced)))
	require.NoError(t, Validate(NewSplayTree[int, int]()))
}

func TestValidate_BrokenParentLinks(t *testing.T) {
	testcases := []struct {
		name    string
		corrupt func(tree *bsTree[int, string])
	}{
		{
			// 7 points back at the root, walking up from 7 never ends.
			name: "child points at grandparent",
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.right.left.parent = tree.root
			},
		},
		{
			name: "root points at its child",
			corrupt: func(tree *bsTree[int, string]) {
				tree.root.parent = tree.root.left
			},
		},
		{
			name: "leaf points at itself",
			corrupt: func(tree *bsTree[int, string]) {
				tree.min.parent = tree.min
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := sampleTree(tt, HeightBalanced)
			engine := tree.(*bsTree[int, string])
			tc.corrupt(engine)
			errs := multierr.Errors(Validate(tree))
			require.Len(tt, errs, 1)
			require.ErrorIs(tt, errs[0], ErrViolation)
			require.NoError(tt, HeightViolationValidate(tree))

			// Other violations are still reported.
			engine.count++
			engine.root.height = 9
			require.Len(tt, multierr.Errors(Validate(tree)), 3)
		})
	}
}

func TestValidate_ForeignTree(t *testing.T) {
	err := Validate[int, string](foreignTree{})
	require.ErrorIs(t, err, ErrViolation)
	require.Len(t, multierr.Errors(err), 1)
	require.ErrorIs(t, OrderViolationValidate[int, string](foreignTree{}), ErrViolation)
	require.ErrorIs(t, HeightViolationValidate[int, string](foreignTree{}), ErrViolation)
}
