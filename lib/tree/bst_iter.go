package tree

import (
	"iter"
)

// Iterator is a cursor over a tree in one traversal order. It only keeps
// the current node, every step is derived from the live links, so the
// position survives rotations done by other operations.
// The end position is the absent node.
type Iterator[K any, V any] struct {
	tree  *bsTree[K, V]
	node  *bstNode[K, V]
	order TraversalOrder
}

func (it Iterator[K, V]) Valid() bool {
	return it.node != nil
}

func (it Iterator[K, V]) Order() TraversalOrder {
	return it.order
}

func (it Iterator[K, V]) mustValid(action string) {
	if it.node == nil {
		panic("[xtree] " + action + " on the end iterator")
	}
}

func (it Iterator[K, V]) mustBelongTo(tree *bsTree[K, V]) {
	if it.tree != nil && it.tree != tree {
		panic("[xtree] iterator belongs to another tree")
	}
}

// mustLive rejects an element already removed from its tree. Only the
// root of a live tree has no parent.
func (it Iterator[K, V]) mustLive(action string) {
	if it.node != nil && it.node.parent == nil && (it.tree == nil || it.node != it.tree.root) {
		panic("[xtree] " + action + " on a removed element")
	}
}

func (it Iterator[K, V]) Key() K {
	it.mustValid("dereference")
	return it.node.key
}

func (it Iterator[K, V]) Val() V {
	it.mustValid("dereference")
	return it.node.val
}

// SetVal replaces the value in place, the key is immutable.
func (it Iterator[K, V]) SetVal(val V) {
	it.mustValid("assign")
	it.mustLive("assign")
	it.node.val = val
}

// Node returns nil at the end position.
func (it Iterator[K, V]) Node() BSTNode[K, V] {
	if it.node == nil {
		return nil
	}
	return it.node
}

func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

// Reorder keeps the position and continues in another order.
func (it Iterator[K, V]) Reorder(order TraversalOrder) Iterator[K, V] {
	if order >= _orderMax {
		panic("[xtree] unknown traversal order " + order.String())
	}
	it.order = order
	return it
}

// Next moves to the successor, advancing the end iterator panics.
func (it *Iterator[K, V]) Next() {
	it.mustValid("advance")
	it.node = it.tree.next(it.node, it.order)
}

// Prev moves to the predecessor. The end iterator moves to the last
// node and the first node moves to the end.
func (it *Iterator[K, V]) Prev() {
	if it.tree == nil {
		panic("[xtree] retreat a detached iterator")
	}
	if it.node == nil {
		it.node = it.tree.last(it.order)
		return
	}
	it.node = it.tree.prev(it.node, it.order)
}

func (tree *bsTree[K, V]) Begin(order TraversalOrder) Iterator[K, V] {
	return tree.iterator(tree.first(order), order)
}

func (tree *bsTree[K, V]) Last(order TraversalOrder) Iterator[K, V] {
	return tree.iterator(tree.last(order), order)
}

func (tree *bsTree[K, V]) End(order TraversalOrder) Iterator[K, V] {
	return tree.iterator(nil, order)
}

func (tree *bsTree[K, V]) All(order TraversalOrder) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for aux := tree.first(order); aux != nil; aux = tree.next(aux, order) {
			if !yield(aux.key, aux.val) {
				return
			}
		}
	}
}

func (tree *bsTree[K, V]) Backward(order TraversalOrder) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for aux := tree.last(order); aux != nil; aux = tree.prev(aux, order) {
			if !yield(aux.key, aux.val) {
				return
			}
		}
	}
}

func (tree *bsTree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for aux := tree.min; aux != nil; aux = aux.succ() {
			if !yield(aux.key) {
				return
			}
		}
	}
}

func (tree *bsTree[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for aux := tree.min; aux != nil; aux = aux.succ() {
			if !yield(aux.val) {
				return
			}
		}
	}
}

// Foreach is a read only walk, the level-order walk runs a single
// breadth first scan instead of one scan per step.
func (tree *bsTree[K, V]) Foreach(order TraversalOrder, action func(idx int64, key K, val V) bool) {
	if action == nil || tree.root == nil {
		return
	}
	idx := int64(0)
	if order == LevelOrder {
		levelOrderScan(tree.root, func(aux *bstNode[K, V]) bool {
			ok := action(idx, aux.key, aux.val)
			idx++
			return ok
		})
		return
	}
	for aux := tree.first(order); aux != nil; aux = tree.next(aux, order) {
		if !action(idx, aux.key, aux.val) {
			return
		}
		idx++
	}
}
