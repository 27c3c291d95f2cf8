package tree

var _ balancer[int, struct{}] = (*splayBalancer[int, struct{}])(nil)

// splayBalancer moves every accessed node to the root. There is no shape
// invariant, the cost is amortized O(log n) per operation.
type splayBalancer[K any, V any] struct {
	tree *bsTree[K, V]
}

func (b *splayBalancer[K, V]) strategy() Strategy { return MoveToRoot }

func (b *splayBalancer[K, V]) nodeHeight(x *bstNode[K, V]) int {
	return subtreeHeight(x)
}

/*
s1 (zig): the parent P is the root.

	  P            X
	 /    ====>     \
	X                P

s2 (zig-zig): X and P are children on the same side, rotate G then P.

	    G          X
	   /            \
	  P     ====>    P
	 /                \
	X                  G

s3 (zig-zag): X and P are children on opposite sides, rotate P then G.

	  G             X
	 /             / \
	P     ====>   P   G
	 \
	  X
*/
func (b *splayBalancer[K, V]) splay(x *bstNode[K, V]) {
	for x != nil && x.parent != nil {
		p := x.parent
		g := p.parent
		xDir := x.direction()
		switch {
		case /* s1 */ g == nil:
			b.rotateUp(p, xDir)
		case /* s2 */ xDir == p.direction():
			b.rotateUp(g, xDir)
			b.rotateUp(p, xDir)
		default /* s3 */ :
			b.rotateUp(p, xDir)
			b.rotateUp(g, x.direction())
		}
	}
}

// rotateUp lifts the child of x on the dir side into x's place.
func (b *splayBalancer[K, V]) rotateUp(x *bstNode[K, V], dir Direction) {
	switch dir {
	case Left:
		b.tree.rotateRight(x)
	case Right:
		b.tree.rotateLeft(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] splay rotate without direction")
	}
}

func (b *splayBalancer[K, V]) onInsert(x *bstNode[K, V])     { b.splay(x) }
func (b *splayBalancer[K, V]) onAccess(x *bstNode[K, V])     { b.splay(x) }
func (b *splayBalancer[K, V]) onSearch(last *bstNode[K, V])  { b.splay(last) }
func (b *splayBalancer[K, V]) onRemove(start *bstNode[K, V]) {}

/*
Split and join:
 1. splay z to the root and cut off both subtrees.
 2. splay the maximum of the left subtree to its root, it has no
    right child afterward.
 3. attach the right subtree as that maximum's right child.
*/
func (b *splayBalancer[K, V]) remove(z *bstNode[K, V]) {
	b.splay(z)
	l, r := z.left, z.right
	z.left, z.right = nil, nil
	if r != nil {
		r.parent = nil
	}
	if l == nil {
		b.tree.root = r
		return
	}

	l.parent = nil
	b.tree.root = l
	m := l.maximum()
	b.splay(m)
	m.right = r
	m.fixLink()
}
