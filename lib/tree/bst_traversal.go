package tree

// Successor and predecessor per traversal order. Apart from level-order
// they only follow the left/right/parent links: no recursion, no stack,
// so a degenerate tree is walked in constant space.

/*
Pre-order (N L R):

	    5
	   / \      5 3 1 4 8 7 9
	  3   8
	 / \ / \
	1  4 7  9
*/
func preOrderFirst[K any, V any](root *bstNode[K, V]) *bstNode[K, V] {
	return root
}

// The deepest node reached by preferring the right child.
func preOrderLast[K any, V any](root *bstNode[K, V]) *bstNode[K, V] {
	aux := root
	for aux != nil {
		if aux.right != nil {
			aux = aux.right
		} else if aux.left != nil {
			aux = aux.left
		} else {
			break
		}
	}
	return aux
}

func preOrderSucc[K any, V any](x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left
	}
	if x.right != nil {
		return x.right
	}
	// Backtrack to the first ancestor entered from the left whose
	// right sibling is still unvisited.
	for aux := x; aux.parent != nil; aux = aux.parent {
		if aux == aux.parent.left && aux.parent.right != nil {
			return aux.parent.right
		}
	}
	return nil
}

func preOrderPred[K any, V any](x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil || x.parent == nil {
		return nil
	}
	p := x.parent
	if x == p.left || p.left == nil {
		return p
	}
	return preOrderLast(p.left)
}

/*
Post-order (L R N):

	    5
	   / \      1 4 3 7 9 8 5
	  3   8
	 / \ / \
	1  4 7  9
*/

// The deepest node reached by preferring the left child.
func postOrderFirst[K any, V any](root *bstNode[K, V]) *bstNode[K, V] {
	aux := root
	for aux != nil {
		if aux.left != nil {
			aux = aux.left
		} else if aux.right != nil {
			aux = aux.right
		} else {
			break
		}
	}
	return aux
}

func postOrderLast[K any, V any](root *bstNode[K, V]) *bstNode[K, V] {
	return root
}

func postOrderSucc[K any, V any](x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil || x.parent == nil {
		return nil
	}
	p := x.parent
	if x == p.right || p.right == nil {
		return p
	}
	return postOrderFirst(p.right)
}

func postOrderPred[K any, V any](x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right
	}
	if x.left != nil {
		return x.left
	}
	for aux := x; aux.parent != nil; aux = aux.parent {
		if aux == aux.parent.right && aux.parent.left != nil {
			return aux.parent.left
		}
	}
	return nil
}

/*
Level-order (breadth first, left before right):

	    5
	   / \      5 3 8 1 4 7 9
	  3   8
	 / \ / \
	1  4 7  9

Nothing is kept per node, every step rescans from the root in O(n).
*/
func levelOrderScan[K any, V any](root *bstNode[K, V], visit func(x *bstNode[K, V]) bool) {
	if root == nil {
		return
	}
	queue := make([]*bstNode[K, V], 0, 64)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, root)
	for head := 0; head < len(queue); head++ {
		aux := queue[head]
		if !visit(aux) {
			return
		}
		if aux.left != nil {
			queue = append(queue, aux.left)
		}
		if aux.right != nil {
			queue = append(queue, aux.right)
		}
	}
}

func levelOrderSucc[K any, V any](root, x *bstNode[K, V]) (succ *bstNode[K, V]) {
	if x == nil {
		return nil
	}
	found := false
	levelOrderScan(root, func(aux *bstNode[K, V]) bool {
		if found {
			succ = aux
			return false
		}
		found = aux == x
		return true
	})
	return succ
}

func levelOrderPred[K any, V any](root, x *bstNode[K, V]) (pred *bstNode[K, V]) {
	if x == nil {
		return nil
	}
	var prev *bstNode[K, V]
	levelOrderScan(root, func(aux *bstNode[K, V]) bool {
		if aux == x {
			pred = prev
			return false
		}
		prev = aux
		return true
	})
	return pred
}

func levelOrderLast[K any, V any](root *bstNode[K, V]) (last *bstNode[K, V]) {
	levelOrderScan(root, func(aux *bstNode[K, V]) bool {
		last = aux
		return true
	})
	return last
}

// subtreeHeight counts the levels below x, -1 for an empty subtree.
func subtreeHeight[K any, V any](x *bstNode[K, V]) int {
	if x == nil {
		return -1
	}
	height := -1
	level := []*bstNode[K, V]{x}
	for len(level) > 0 {
		height++
		next := make([]*bstNode[K, V], 0, len(level)<<1)
		for _, aux := range level {
			if aux.left != nil {
				next = append(next, aux.left)
			}
			if aux.right != nil {
				next = append(next, aux.right)
			}
		}
		level = next
	}
	return height
}

func (tree *bsTree[K, V]) first(order TraversalOrder) *bstNode[K, V] {
	switch order {
	case InOrder:
		return tree.min
	case PreOrder:
		return preOrderFirst(tree.root)
	case PostOrder:
		return postOrderFirst(tree.root)
	case LevelOrder:
		return tree.root
	default:
	}
	panic("[xtree] unknown traversal order " + order.String())
}

func (tree *bsTree[K, V]) last(order TraversalOrder) *bstNode[K, V] {
	switch order {
	case InOrder:
		return tree.max
	case PreOrder:
		return preOrderLast(tree.root)
	case PostOrder:
		return postOrderLast(tree.root)
	case LevelOrder:
		return levelOrderLast(tree.root)
	default:
	}
	panic("[xtree] unknown traversal order " + order.String())
}

func (tree *bsTree[K, V]) next(x *bstNode[K, V], order TraversalOrder) *bstNode[K, V] {
	switch order {
	case InOrder:
		return x.succ()
	case PreOrder:
		return preOrderSucc(x)
	case PostOrder:
		return postOrderSucc(x)
	case LevelOrder:
		return levelOrderSucc(tree.root, x)
	default:
	}
	panic("[xtree] unknown traversal order " + order.String())
}

func (tree *bsTree[K, V]) prev(x *bstNode[K, V], order TraversalOrder) *bstNode[K, V] {
	switch order {
	case InOrder:
		return x.pred()
	case PreOrder:
		return preOrderPred(x)
	case PostOrder:
		return postOrderPred(x)
	case LevelOrder:
		return levelOrderPred(tree.root, x)
	default:
	}
	panic("[xtree] unknown traversal order " + order.String())
}
