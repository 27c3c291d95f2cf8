package tree

var _ balancer[int, struct{}] = (*avlBalancer[int, struct{}])(nil)

// avlBalancer keeps |height(right) - height(left)| <= 1 at every node.
// The height of an empty subtree is -1 and of a leaf is 0.
type avlBalancer[K any, V any] struct {
	tree *bsTree[K, V]
}

func (b *avlBalancer[K, V]) strategy() Strategy { return HeightBalanced }

func (b *avlBalancer[K, V]) nodeHeight(x *bstNode[K, V]) int {
	return int(avlHeight(x))
}

func avlHeight[K any, V any](x *bstNode[K, V]) int32 {
	if x == nil {
		return -1
	}
	return x.height
}

func avlUpdateHeight[K any, V any](x *bstNode[K, V]) {
	x.height = 1 + max(avlHeight(x.left), avlHeight(x.right))
}

// Balance factor, right-subtree height minus left-subtree height.
func avlBalanceFactor[K any, V any](x *bstNode[K, V]) int32 {
	return avlHeight(x.right) - avlHeight(x.left)
}

/*
a1: left-left, x is left-heavy by 2 and its left child is not right-heavy.

	     X              L
	    /              / \
	   L    ======>  Ll   X
	  /
	Ll

a2: left-right, x is left-heavy by 2 and its left child is right-heavy.
Rotate the child left to turn into a1.

	  X            X            Lr
	 /            /            /  \
	L   ======>  Lr  ======>  L    X
	 \          /
	  Lr       L

a3, a4: right-right and right-left, the mirrors of a1 and a2.
*/
func (b *avlBalancer[K, V]) rebalance(x *bstNode[K, V]) (subRoot *bstNode[K, V], rotated bool) {
	avlUpdateHeight(x)
	switch bf := avlBalanceFactor(x); {
	case bf < -1:
		if l := x.left; /* a2 */ avlBalanceFactor(l) > 0 {
			lr := b.tree.rotateLeft(l)
			avlUpdateHeight(l)
			avlUpdateHeight(lr)
		}
		/* a1 */
		subRoot = b.tree.rotateRight(x)
	case bf > 1:
		if r := x.right; /* a4 */ avlBalanceFactor(r) < 0 {
			rl := b.tree.rotateRight(r)
			avlUpdateHeight(r)
			avlUpdateHeight(rl)
		}
		/* a3 */
		subRoot = b.tree.rotateLeft(x)
	default:
		return x, false
	}
	avlUpdateHeight(x)
	avlUpdateHeight(subRoot)
	return subRoot, true
}

// A single rotation restores the balance after an insertion.
func (b *avlBalancer[K, V]) onInsert(x *bstNode[K, V]) {
	x.height = 0
	for aux := x.parent; aux != nil; aux = aux.parent {
		subRoot, rotated := b.rebalance(aux)
		if rotated {
			return
		}
		aux = subRoot
	}
}

// A removal may require a rotation at every ancestor level.
func (b *avlBalancer[K, V]) onRemove(start *bstNode[K, V]) {
	for aux := start; aux != nil; {
		subRoot, _ := b.rebalance(aux)
		aux = subRoot.parent
	}
}

func (b *avlBalancer[K, V]) onAccess(x *bstNode[K, V])    {}
func (b *avlBalancer[K, V]) onSearch(last *bstNode[K, V]) {}

func (b *avlBalancer[K, V]) remove(z *bstNode[K, V]) {
	b.onRemove(b.tree.spliceOut(z))
}
