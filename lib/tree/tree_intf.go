package tree

import (
	"errors"
	"iter"
)

type TraversalOrder uint8

const (
	InOrder TraversalOrder = iota
	PreOrder
	PostOrder
	LevelOrder
	_orderMax
)

func (order TraversalOrder) String() string {
	switch order {
	case InOrder:
		return "in-order"
	case PreOrder:
		return "pre-order"
	case PostOrder:
		return "post-order"
	case LevelOrder:
		return "level-order"
	default:
	}
	return "unknown-order"
}

// Strategy is the balancing discipline hosted by the engine.
type Strategy uint8

const (
	Unbalanced Strategy = iota
	HeightBalanced
	MoveToRoot
)

func (s Strategy) String() string {
	switch s {
	case Unbalanced:
		return "bst"
	case HeightBalanced:
		return "avl"
	case MoveToRoot:
		return "splay"
	default:
	}
	return "unknown"
}

type Direction int8

const (
	Left Direction = -1 + iota
	Root
	Right
)

// Op is an engine event reported to the Observer.
type Op uint8

const (
	OpInsert Op = iota
	OpReject
	OpRemove
	OpSearch
	OpRotate
	OpRelease
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpReject:
		return "reject"
	case OpRemove:
		return "remove"
	case OpSearch:
		return "search"
	case OpRotate:
		return "rotate"
	case OpRelease:
		return "release"
	default:
	}
	return "unknown"
}

// Observer receives operation counters, e.g. to export metrics.
// It is called synchronously on the mutating goroutine.
type Observer interface {
	Observe(strategy Strategy, op Op, delta int64)
}

var (
	ErrTreeEmpty       = errors.New("[xtree] empty tree")
	ErrKeyNotFound     = errors.New("[xtree] key not found")
	ErrInvalidIterator = errors.New("[xtree] invalid iterator")
	ErrMalformedDump   = errors.New("[xtree] malformed dump")
	ErrViolation       = errors.New("[xtree] invariant violation")
)

type BSTNode[K any, V any] interface {
	Key() K
	Val() V
	Left() BSTNode[K, V]
	Right() BSTNode[K, V]
	Parent() BSTNode[K, V]
}

// Tree is a binary search tree ordered by the comparator fixed at
// construction. It is not safe for concurrent use, and in a move-to-root
// tree even the lookups restructure the tree.
type Tree[K any, V any] interface {
	Len() int64
	IsEmpty() bool
	Root() BSTNode[K, V]
	Min() BSTNode[K, V]
	Max() BSTNode[K, V]
	// Height of the root, -1 for an empty tree.
	Height() int
	Strategy() Strategy
	AllowDuplicates() bool

	Find(key K) Iterator[K, V]
	Get(key K) (V, bool)
	Contains(key K) bool
	Count(key K) int64
	LowerBound(key K) Iterator[K, V]
	UpperBound(key K) Iterator[K, V]
	EqualRange(key K) (first, last Iterator[K, V])

	// Insert returns the iterator of the existing equivalent element and
	// false when duplicates are rejected.
	Insert(key K, val V) (Iterator[K, V], bool)
	InsertHint(hint Iterator[K, V], key K, val V) (Iterator[K, V], bool)
	Emplace(key K, ctor func(K) V) (Iterator[K, V], bool)
	InsertOrAssign(key K, val V) (Iterator[K, V], bool)
	InsertRange(seq iter.Seq2[K, V]) int

	Remove(key K) (BSTNode[K, V], error)
	RemoveAll(key K) int
	RemoveAt(it Iterator[K, V]) (Iterator[K, V], error)
	RemoveMin() (BSTNode[K, V], error)
	RemoveMax() (BSTNode[K, V], error)

	Begin(order TraversalOrder) Iterator[K, V]
	Last(order TraversalOrder) Iterator[K, V]
	End(order TraversalOrder) Iterator[K, V]
	All(order TraversalOrder) iter.Seq2[K, V]
	Backward(order TraversalOrder) iter.Seq2[K, V]
	Keys() iter.Seq[K]
	Values() iter.Seq[V]
	Foreach(order TraversalOrder, action func(idx int64, key K, val V) bool)

	Clone() Tree[K, V]
	Release()
}

// balancer is the strategy hosted by the engine. The engine owns every
// structural primitive, the hooks only decide where to apply them.
type balancer[K any, V any] interface {
	strategy() Strategy
	onInsert(x *bstNode[K, V])
	// onRemove starts from the lowest node whose subtree lost a node.
	onRemove(start *bstNode[K, V])
	onAccess(x *bstNode[K, V])
	// onSearch receives the bound or the last visited node on a miss.
	onSearch(last *bstNode[K, V])
	remove(z *bstNode[K, V])
	nodeHeight(x *bstNode[K, V]) int
}
