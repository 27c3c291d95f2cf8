package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
// Complex numbers have no natural order, so they are not included.
type OrderedKey interface {
	Integer | Float | ~string
}

// Less is a strict weak ordering over keys.
// It reports whether i must be placed before j.
// Two keys are equivalent iff !less(i, j) && !less(j, i).
type Less[K any] func(i, j K) bool

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
type OrderedKeyComparator[K any] func(i, j K) int64

func OrderedLess[K OrderedKey](i, j K) bool {
	return i < j
}

func OrderedGreater[K OrderedKey](i, j K) bool {
	return i > j
}

// Reverse flips the order described by less.
func (less Less[K]) Reverse() Less[K] {
	return func(i, j K) bool {
		return less(j, i)
	}
}

// Equivalent reports whether neither key precedes the other.
func (less Less[K]) Equivalent(i, j K) bool {
	return !less(i, j) && !less(j, i)
}

// Comparator converts a strict less-than into the three-way form.
func (less Less[K]) Comparator() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if less(i, j) {
			return -1
		} else if less(j, i) {
			return 1
		}
		return 0
	}
}
