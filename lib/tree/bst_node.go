package tree

// bstNode owns its children, the parent link is only used to
// navigate upward and never to release a node.
type bstNode[K any, V any] struct {
	parent *bstNode[K, V]
	left   *bstNode[K, V]
	right  *bstNode[K, V]
	key    K
	val    V
	// Maintained by the height-balanced strategy only.
	height int32
}

var _ BSTNode[int, struct{}] = (*bstNode[int, struct{}])(nil)

func (node *bstNode[K, V]) Key() K {
	return node.key
}

func (node *bstNode[K, V]) Val() V {
	return node.val
}

func (node *bstNode[K, V]) Left() BSTNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[K, V]) Right() BSTNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[K, V]) Parent() BSTNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *bstNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *bstNode[K, V]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *bstNode[K, V]) direction() Direction {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *bstNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *bstNode[K, V]) minimum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[K, V]) maximum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *bstNode[K, V]) pred() *bstNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to the first ancestor reached from its right subtree.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *bstNode[K, V]) succ() *bstNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor reached from its left subtree.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// detach drops every link of a node that is no longer reachable.
func (node *bstNode[K, V]) detach() {
	node.parent = nil
	node.left = nil
	node.right = nil
	node.height = 0
}
