package tree

import (
	"fmt"

	"go.uber.org/multierr"
)

// Tree invariant validation utilities, used by the tests and by the
// xtree command after each workload.

func engineOf[K any, V any](tree Tree[K, V]) (*bsTree[K, V], error) {
	t, ok := tree.(*bsTree[K, V])
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: unsupported tree implementation %T", ErrViolation, tree)
	}
	return t, nil
}

// OrderViolationValidate checks that the in-order sequence is increasing,
// or non-decreasing when duplicates are allowed. The walk follows parent
// links, check them first with ParentLinkViolationValidate.
func OrderViolationValidate[K any, V any](tree Tree[K, V]) error {
	t, err := engineOf(tree)
	if err != nil {
		return err
	}
	var prev *bstNode[K, V]
	idx := 0
	for aux := t.root.minimum(); aux != nil; aux = aux.succ() {
		if prev != nil {
			if t.less(aux.key, prev.key) {
				return fmt.Errorf("%w: order, element %d precedes element %d", ErrViolation, idx, idx-1)
			}
			if !t.allowDup && !t.less(prev.key, aux.key) {
				return fmt.Errorf("%w: order, duplicate key at element %d", ErrViolation, idx)
			}
		}
		prev = aux
		idx++
	}
	return nil
}

func SizeViolationValidate[K any, V any](tree Tree[K, V]) error {
	t, err := engineOf(tree)
	if err != nil {
		return err
	}
	count := int64(0)
	levelOrderScan(t.root, func(*bstNode[K, V]) bool {
		count++
		return true
	})
	if count != t.count {
		return fmt.Errorf("%w: size, counted %d nodes, recorded %d", ErrViolation, count, t.count)
	}
	return nil
}

func MinMaxViolationValidate[K any, V any](tree Tree[K, V]) error {
	t, err := engineOf(tree)
	if err != nil {
		return err
	}
	if leftmost := t.root.minimum(); leftmost != t.min {
		return fmt.Errorf("%w: minimum is not the leftmost node", ErrViolation)
	}
	if rightmost := t.root.maximum(); rightmost != t.max {
		return fmt.Errorf("%w: maximum is not the rightmost node", ErrViolation)
	}
	return nil
}

func ParentLinkViolationValidate[K any, V any](tree Tree[K, V]) error {
	t, err := engineOf(tree)
	if err != nil {
		return err
	}
	if t.root != nil && t.root.parent != nil {
		return fmt.Errorf("%w: root has a parent", ErrViolation)
	}
	var violation error
	levelOrderScan(t.root, func(aux *bstNode[K, V]) bool {
		if (aux.left != nil && aux.left.parent != aux) || (aux.right != nil && aux.right.parent != aux) {
			violation = fmt.Errorf("%w: broken parent link below a node", ErrViolation)
			return false
		}
		return true
	})
	return violation
}

// HeightViolationValidate checks the recorded heights and the balance
// factors of a height-balanced tree, other strategies always pass.
func HeightViolationValidate[K any, V any](tree Tree[K, V]) error {
	t, err := engineOf(tree)
	if err != nil {
		return err
	}
	if t.balancer.strategy() != HeightBalanced || t.root == nil {
		return nil
	}

	// Children are queued after their parents, the reversed level
	// order visits them first. Only child links are followed.
	nodes := make([]*bstNode[K, V], 0, max(t.count, 0))
	levelOrderScan(t.root, func(aux *bstNode[K, V]) bool {
		nodes = append(nodes, aux)
		return true
	})
	heights := make(map[*bstNode[K, V]]int32, len(nodes))
	defer func() {
		clear(nodes)
		clear(heights)
	}()
	height := func(x *bstNode[K, V]) int32 {
		if x == nil {
			return -1
		}
		return heights[x]
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		aux := nodes[i]
		l, r := height(aux.left), height(aux.right)
		h := 1 + max(l, r)
		if h != aux.height {
			return fmt.Errorf("%w: recorded height %d, real height %d", ErrViolation, aux.height, h)
		}
		if bf := r - l; bf < -1 || bf > 1 {
			return fmt.Errorf("%w: balance factor %d", ErrViolation, bf)
		}
		heights[aux] = h
	}
	return nil
}

// Validate runs every applicable check and combines the violations.
// The order check walks parent links, it is skipped once they are broken.
func Validate[K any, V any](tree Tree[K, V]) error {
	if _, err := engineOf(tree); err != nil {
		return err
	}
	linkErr := ParentLinkViolationValidate(tree)
	merr := multierr.Combine(
		linkErr,
		SizeViolationValidate(tree),
		MinMaxViolationValidate(tree),
		HeightViolationValidate(tree),
	)
	if linkErr != nil {
		return merr
	}
	return multierr.Append(OrderViolationValidate(tree), merr)
}
