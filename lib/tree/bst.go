package tree

import (
	"iter"

	"go.uber.org/zap"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/xlog"
)

var _ Tree[int, struct{}] = (*bsTree[int, struct{}])(nil)

// bsTree is the engine shared by every balancing strategy.
// root, min and max are cached references into the owned node graph.
type bsTree[K any, V any] struct {
	root     *bstNode[K, V]
	min      *bstNode[K, V]
	max      *bstNode[K, V]
	count    int64
	less     infra.Less[K]
	balancer balancer[K, V]
	logger   xlog.XLogger
	observer Observer
	allowDup bool
	isDesc   bool
}

func (tree *bsTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *bsTree[K, V]) IsEmpty() bool {
	return tree.count == 0
}

func (tree *bsTree[K, V]) Root() BSTNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *bsTree[K, V]) Min() BSTNode[K, V] {
	if tree.min == nil {
		return nil
	}
	return tree.min
}

func (tree *bsTree[K, V]) Max() BSTNode[K, V] {
	if tree.max == nil {
		return nil
	}
	return tree.max
}

func (tree *bsTree[K, V]) Height() int {
	return tree.balancer.nodeHeight(tree.root)
}

func (tree *bsTree[K, V]) Strategy() Strategy {
	return tree.balancer.strategy()
}

func (tree *bsTree[K, V]) AllowDuplicates() bool {
	return tree.allowDup
}

func (tree *bsTree[K, V]) observe(op Op, delta int64) {
	if tree.observer != nil {
		tree.observer.Observe(tree.balancer.strategy(), op, delta)
	}
}

func (tree *bsTree[K, V]) debug(msg string, fields ...zap.Field) {
	if tree.logger != nil {
		tree.logger.Debug(msg, fields...)
	}
}

func (tree *bsTree[K, V]) equivalent(i, j K) bool {
	return !tree.less(i, j) && !tree.less(j, i)
}

func (tree *bsTree[K, V]) iterator(node *bstNode[K, V], order TraversalOrder) Iterator[K, V] {
	return Iterator[K, V]{tree: tree, node: node, order: order}
}

// Lookup & bound engine.

// lowerBound returns the first node whose key is not less than key,
// and the last node visited by the walk.
func (tree *bsTree[K, V]) lowerBound(key K) (bound, last *bstNode[K, V]) {
	for aux := tree.root; aux != nil; {
		last = aux
		if tree.less(aux.key, key) {
			aux = aux.right
		} else {
			bound = aux
			aux = aux.left
		}
	}
	return bound, last
}

// upperBound returns the first node whose key is greater than key,
// and the last node visited by the walk.
func (tree *bsTree[K, V]) upperBound(key K) (bound, last *bstNode[K, V]) {
	for aux := tree.root; aux != nil; {
		last = aux
		if tree.less(key, aux.key) {
			bound = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return bound, last
}

// lookup resolves equivalent keys to the leftmost one.
func (tree *bsTree[K, V]) lookup(key K) (found, last *bstNode[K, V]) {
	bound, last := tree.lowerBound(key)
	if bound != nil && !tree.less(key, bound.key) {
		return bound, last
	}
	return nil, last
}

// search runs the strategy hooks after a lookup, a hit is an access.
func (tree *bsTree[K, V]) search(key K) *bstNode[K, V] {
	found, last := tree.lookup(key)
	tree.observe(OpSearch, 1)
	if found != nil {
		tree.balancer.onAccess(found)
	} else {
		tree.balancer.onSearch(last)
	}
	return found
}

func (tree *bsTree[K, V]) Find(key K) Iterator[K, V] {
	return tree.iterator(tree.search(key), InOrder)
}

func (tree *bsTree[K, V]) Get(key K) (V, bool) {
	if x := tree.search(key); x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

func (tree *bsTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *bsTree[K, V]) Count(key K) int64 {
	first, last := tree.lowerBound(key)
	tree.observe(OpSearch, 1)
	count := int64(0)
	for aux := first; aux != nil && !tree.less(key, aux.key); aux = aux.succ() {
		count++
	}
	if first != nil {
		tree.balancer.onSearch(first)
	} else {
		tree.balancer.onSearch(last)
	}
	return count
}

func (tree *bsTree[K, V]) LowerBound(key K) Iterator[K, V] {
	bound, last := tree.lowerBound(key)
	tree.observe(OpSearch, 1)
	if bound != nil {
		tree.balancer.onSearch(bound)
	} else {
		tree.balancer.onSearch(last)
	}
	return tree.iterator(bound, InOrder)
}

func (tree *bsTree[K, V]) UpperBound(key K) Iterator[K, V] {
	bound, last := tree.upperBound(key)
	tree.observe(OpSearch, 1)
	if bound != nil {
		tree.balancer.onSearch(bound)
	} else {
		tree.balancer.onSearch(last)
	}
	return tree.iterator(bound, InOrder)
}

// EqualRange returns [first, last) of the equivalent keys.
func (tree *bsTree[K, V]) EqualRange(key K) (first, last Iterator[K, V]) {
	lb, _ := tree.lowerBound(key)
	ub, _ := tree.upperBound(key)
	tree.observe(OpSearch, 1)
	if lb != nil && !tree.less(key, lb.key) {
		tree.balancer.onAccess(lb)
	}
	return tree.iterator(lb, InOrder), tree.iterator(ub, InOrder)
}

// findInsertLocation returns the parent and the side to link a new key to,
// or the existing equivalent node when duplicates are rejected.
// With a hint it first checks whether key falls between pred(hint) and
// hint, a nil hint is the end position.
func (tree *bsTree[K, V]) findInsertLocation(
	hint *bstNode[K, V],
	hinted bool,
	key K,
) (parent *bstNode[K, V], dir Direction, dup *bstNode[K, V]) {
	if tree.root == nil {
		return nil, Root, nil
	}

	if hinted {
		if hint == nil {
			if /* append after max */ (!tree.allowDup && tree.less(tree.max.key, key)) ||
				(tree.allowDup && !tree.less(key, tree.max.key)) {
				return tree.max, Right, nil
			}
		} else {
			p := hint.pred()
			var fits bool
			if tree.allowDup {
				fits = (p == nil || !tree.less(key, p.key)) && !tree.less(hint.key, key)
			} else {
				if tree.equivalent(key, hint.key) {
					return nil, Root, hint
				}
				if p != nil && tree.equivalent(key, p.key) {
					return nil, Root, p
				}
				fits = (p == nil || tree.less(p.key, key)) && tree.less(key, hint.key)
			}
			if fits {
				if hint.left == nil {
					return hint, Left, nil
				}
				// p is the maximum of the hint's left subtree.
				return p, Right, nil
			}
		}
	}

	var x, y *bstNode[K, V] = tree.root, nil
	for x != nil {
		y = x
		if /* less */ tree.less(key, x.key) {
			dir = Left
			x = x.left
		} else if /* equal */ !tree.allowDup && !tree.less(x.key, key) {
			return nil, Root, x
		} else /* greater or equal placed after */ {
			dir = Right
			x = x.right
		}
	}
	return y, dir, nil
}

func (tree *bsTree[K, V]) link(parent *bstNode[K, V], dir Direction, z *bstNode[K, V]) {
	z.parent = parent
	switch dir {
	case Root:
		tree.root = z
		tree.min, tree.max = z, z
	case Left:
		parent.left = z
		if parent == tree.min {
			tree.min = z
		}
	case Right:
		parent.right = z
		if parent == tree.max {
			tree.max = z
		}
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] unknown direction to link")
	}
	tree.count++
}

func (tree *bsTree[K, V]) insert(
	hint *bstNode[K, V],
	hinted bool,
	key K,
	ctor func(K) V,
) (*bstNode[K, V], bool) {
	parent, dir, dup := tree.findInsertLocation(hint, hinted, key)
	if dup != nil {
		tree.observe(OpReject, 1)
		tree.debug("[xtree] duplicate key rejected",
			zap.Stringer("strategy", tree.balancer.strategy()),
			zap.Any("key", key),
		)
		tree.balancer.onAccess(dup)
		return dup, false
	}

	// The value is built before any link changes, a panicking
	// constructor leaves the tree untouched.
	z := &bstNode[K, V]{key: key, val: ctor(key)}
	tree.link(parent, dir, z)
	tree.observe(OpInsert, 1)
	tree.balancer.onInsert(z)
	return z, true
}

func (tree *bsTree[K, V]) Insert(key K, val V) (Iterator[K, V], bool) {
	z, ok := tree.insert(nil, false, key, func(K) V { return val })
	return tree.iterator(z, InOrder), ok
}

func (tree *bsTree[K, V]) InsertHint(hint Iterator[K, V], key K, val V) (Iterator[K, V], bool) {
	hint.mustBelongTo(tree)
	hint.mustLive("insert hint")
	z, ok := tree.insert(hint.node, true, key, func(K) V { return val })
	return tree.iterator(z, InOrder), ok
}

// Emplace calls ctor only when a new node is created.
func (tree *bsTree[K, V]) Emplace(key K, ctor func(K) V) (Iterator[K, V], bool) {
	z, ok := tree.insert(nil, false, key, ctor)
	return tree.iterator(z, InOrder), ok
}

func (tree *bsTree[K, V]) InsertOrAssign(key K, val V) (Iterator[K, V], bool) {
	z, ok := tree.insert(nil, false, key, func(K) V { return val })
	if !ok {
		z.val = val
	}
	return tree.iterator(z, InOrder), ok
}

// InsertRange hints every element at the end position, so a sorted
// sequence is appended without walking down from the root.
func (tree *bsTree[K, V]) InsertRange(seq iter.Seq2[K, V]) int {
	if seq == nil {
		return 0
	}
	inserted := 0
	for key, val := range seq {
		if _, ok := tree.insert(nil, true, key, func(K) V { return val }); ok {
			inserted++
		}
	}
	return inserted
}

// Rotation primitives.

// rotateLeft lifts the right child of x into the position of x and
// returns it.
//
//	  |                        |
//	  X                        S
//	 / \    rotateLeft(X)     / \
//	L   S   ============>    X   Sd
//	   / \                  / \
//	 Sc   Sd               L   Sc
func (tree *bsTree[K, V]) rotateLeft(x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.observe(OpRotate, 1)
	return y
}

// rotateRight is the mirror of rotateLeft.
//
//	     |                      |
//	     X                      L
//	    / \   rotateRight(X)   / \
//	   L   R  ============>  Lc   X
//	  / \                        / \
//	Lc   Ld                     Ld  R
func (tree *bsTree[K, V]) rotateRight(x *bstNode[K, V]) *bstNode[K, V] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.observe(OpRotate, 1)
	return y
}

// Mutation engine.

// transplant puts v (may be nil) at u's position.
func (tree *bsTree[K, V]) transplant(u, v *bstNode[K, V]) {
	switch u.direction() {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	case Right:
		u.parent.right = v
	default:
	}
	if v != nil {
		v.parent = u.parent
	}
}

/*
r1: z has at most one child, the child (or nil) takes z's place.
The rebalance starts from z's former parent.

r2: z has two children. Its in-order predecessor y is the maximum of the
left subtree, so y has no right child. y is spliced out by r1 first, then
relinked at z's position.

	    |                   |
	    Z                   Y
	   / \                 / \
	  L   R   ======>     L   R
	 / \                 / \
	..  P               ..  P
	     \                   \
	      Y                   Yl
	     /
	   Yl

The rebalance starts from y's former parent, or from y itself when
y was z's left child.
*/
func (tree *bsTree[K, V]) spliceOut(z *bstNode[K, V]) (start *bstNode[K, V]) {
	switch {
	case /* r1 */ z.left == nil:
		start = z.parent
		tree.transplant(z, z.right)
	case /* r1 */ z.right == nil:
		start = z.parent
		tree.transplant(z, z.left)
	default /* r2 */ :
		y := z.left.maximum()
		if y.parent != z {
			start = y.parent
			tree.transplant(y, y.left)
			y.left = z.left
			y.left.parent = y
		} else {
			start = y
		}
		tree.transplant(z, y)
		y.right = z.right
		y.right.parent = y
	}
	return start
}

// removeNode keeps min and max valid, then hands the structural work
// to the strategy.
func (tree *bsTree[K, V]) removeNode(z *bstNode[K, V]) {
	if z == tree.min {
		tree.min = z.succ()
	}
	if z == tree.max {
		tree.max = z.pred()
	}
	tree.balancer.remove(z)
	z.detach()
	tree.count--
	tree.observe(OpRemove, 1)
	if tree.count == 0 {
		tree.root, tree.min, tree.max = nil, nil, nil
	}
}

func (tree *bsTree[K, V]) Remove(key K) (BSTNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrTreeEmpty
	}
	z, last := tree.lookup(key)
	if z == nil {
		tree.balancer.onSearch(last)
		return nil, ErrKeyNotFound
	}
	tree.removeNode(z)
	return z, nil
}

func (tree *bsTree[K, V]) RemoveAll(key K) int {
	removed := 0
	for tree.count > 0 {
		z, _ := tree.lookup(key)
		if z == nil {
			break
		}
		tree.removeNode(z)
		removed++
	}
	return removed
}

// RemoveAt removes the element at it and returns its in-order successor.
func (tree *bsTree[K, V]) RemoveAt(it Iterator[K, V]) (Iterator[K, V], error) {
	it.mustBelongTo(tree)
	if it.node == nil {
		return tree.iterator(nil, InOrder), ErrInvalidIterator
	}
	it.mustLive("remove")
	next := it.node.succ()
	tree.removeNode(it.node)
	return tree.iterator(next, InOrder), nil
}

func (tree *bsTree[K, V]) RemoveMin() (BSTNode[K, V], error) {
	if tree.count <= 0 || tree.min == nil {
		return nil, ErrTreeEmpty
	}
	z := tree.min
	tree.removeNode(z)
	return z, nil
}

func (tree *bsTree[K, V]) RemoveMax() (BSTNode[K, V], error) {
	if tree.count <= 0 || tree.max == nil {
		return nil, ErrTreeEmpty
	}
	z := tree.max
	tree.removeNode(z)
	return z, nil
}

// Release destroys every node in post-order, children before parents,
// without recursion or an auxiliary stack.
func (tree *bsTree[K, V]) Release() {
	size := tree.count
	aux := postOrderFirst(tree.root)
	for aux != nil {
		next := postOrderSucc(aux)
		switch aux.direction() {
		case Left:
			aux.parent.left = nil
		case Right:
			aux.parent.right = nil
		default:
		}
		aux.detach()
		aux = next
	}
	tree.root, tree.min, tree.max = nil, nil, nil
	tree.count = 0
	tree.observe(OpRelease, size)
	tree.debug("[xtree] released",
		zap.Stringer("strategy", tree.balancer.strategy()),
		zap.Int64("nodes", size),
	)
}

// Clone copies the shape as is, the strategy invariants hold in the
// copy because they hold in the source.
func (tree *bsTree[K, V]) Clone() Tree[K, V] {
	dup := &bsTree[K, V]{
		less:     tree.less,
		logger:   tree.logger,
		observer: tree.observer,
		allowDup: tree.allowDup,
		isDesc:   tree.isDesc,
	}
	dup.balancer = newBalancer(tree.balancer.strategy(), dup)
	dup.root = cloneNodes(tree.root)
	dup.min, dup.max = dup.root.minimum(), dup.root.maximum()
	dup.count = tree.count
	return dup
}

func cloneNodes[K any, V any](src *bstNode[K, V]) *bstNode[K, V] {
	if src == nil {
		return nil
	}
	newNode := func(from, parent *bstNode[K, V]) *bstNode[K, V] {
		return &bstNode[K, V]{key: from.key, val: from.val, height: from.height, parent: parent}
	}

	root := newNode(src, nil)
	// src and dst move in lockstep in pre-order.
	dst := root
	for {
		if src.left != nil {
			src = src.left
			dst.left = newNode(src, dst)
			dst = dst.left
			continue
		}
		if src.right != nil {
			src = src.right
			dst.right = newNode(src, dst)
			dst = dst.right
			continue
		}
		for {
			p := src.parent
			if p == nil || dst.parent == nil {
				return root
			}
			if src == p.left && p.right != nil {
				src, dst = p.right, dst.parent
				dst.right = newNode(src, dst)
				dst = dst.right
				break
			}
			src, dst = p, dst.parent
		}
	}
}

type TreeOption[K any, V any] func(*bsTree[K, V])

// WithTreeDuplicates keeps equivalent keys, in insertion order.
func WithTreeDuplicates[K any, V any]() TreeOption[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.allowDup = true
	}
}

func WithTreeDesc[K any, V any]() TreeOption[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.isDesc = true
	}
}

func WithTreeLogger[K any, V any](logger xlog.XLogger) TreeOption[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.logger = logger
	}
}

func WithTreeObserver[K any, V any](observer Observer) TreeOption[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.observer = observer
	}
}

func newTree[K any, V any](strategy Strategy, less infra.Less[K], opts ...TreeOption[K, V]) *bsTree[K, V] {
	if less == nil {
		panic("[xtree] nil comparator")
	}
	tree := &bsTree[K, V]{
		less: less,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		tree.less = tree.less.Reverse()
	}
	tree.balancer = newBalancer(strategy, tree)
	return tree
}

func newBalancer[K any, V any](strategy Strategy, tree *bsTree[K, V]) balancer[K, V] {
	switch strategy {
	case HeightBalanced:
		return &avlBalancer[K, V]{tree: tree}
	case MoveToRoot:
		return &splayBalancer[K, V]{tree: tree}
	case Unbalanced:
		fallthrough
	default:
	}
	return &plainBalancer[K, V]{tree: tree}
}

func NewBSTree[K infra.OrderedKey, V any](opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](Unbalanced, infra.OrderedLess[K], opts...)
}

func NewBSTreeFunc[K any, V any](less infra.Less[K], opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](Unbalanced, less, opts...)
}

func NewAVLTree[K infra.OrderedKey, V any](opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](HeightBalanced, infra.OrderedLess[K], opts...)
}

func NewAVLTreeFunc[K any, V any](less infra.Less[K], opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](HeightBalanced, less, opts...)
}

func NewSplayTree[K infra.OrderedKey, V any](opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](MoveToRoot, infra.OrderedLess[K], opts...)
}

func NewSplayTreeFunc[K any, V any](less infra.Less[K], opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](MoveToRoot, less, opts...)
}

// NewTree builds an empty tree for the given strategy.
func NewTree[K any, V any](strategy Strategy, less infra.Less[K], opts ...TreeOption[K, V]) Tree[K, V] {
	return newTree[K, V](strategy, less, opts...)
}

// Equal reports whether both trees hold the same in-order sequence.
// Keys are compared with a's comparator, or b's when a is another
// implementation. Without any comparator the trees are not equal.
func Equal[K any, V any](a, b Tree[K, V], eq func(V, V) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	var less infra.Less[K]
	if t, ok := a.(*bsTree[K, V]); ok {
		less = t.less
	} else if t, ok := b.(*bsTree[K, V]); ok {
		less = t.less
	} else {
		return false
	}
	nextB, stop := iter.Pull2(b.All(InOrder))
	defer stop()
	for key, val := range a.All(InOrder) {
		bKey, bVal, ok := nextB()
		if !ok || less(key, bKey) || less(bKey, key) {
			return false
		}
		if eq != nil && !eq(val, bVal) {
			return false
		}
	}
	_, _, more := nextB()
	return !more
}
