package tree

var _ balancer[int, struct{}] = (*plainBalancer[int, struct{}])(nil)

// plainBalancer never restructures the tree.
type plainBalancer[K any, V any] struct {
	tree *bsTree[K, V]
}

func (b *plainBalancer[K, V]) strategy() Strategy              { return Unbalanced }
func (b *plainBalancer[K, V]) onInsert(x *bstNode[K, V])       {}
func (b *plainBalancer[K, V]) onRemove(start *bstNode[K, V])   {}
func (b *plainBalancer[K, V]) onAccess(x *bstNode[K, V])       {}
func (b *plainBalancer[K, V]) onSearch(last *bstNode[K, V])    {}
func (b *plainBalancer[K, V]) nodeHeight(x *bstNode[K, V]) int { return subtreeHeight(x) }

func (b *plainBalancer[K, V]) remove(z *bstNode[K, V]) {
	b.onRemove(b.tree.spliceOut(z))
}
