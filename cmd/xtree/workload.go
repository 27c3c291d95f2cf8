package main

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	randv2 "math/rand/v2"
	"strconv"

	"github.com/google/safeopen"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/tree"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/xlog"
)

type element = lo.Tuple2[int64, string]

// loadElements returns the elements of a text dump beneath dir in the
// order they were written.
func loadElements(dir, name string, logger xlog.XLogger) ([]element, error) {
	f, err := safeopen.OpenBeneath(dir, name)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[xtree] open dump "+name)
	}
	defer func() {
		_ = f.Close()
	}()
	return readElements(f, logger)
}

func readElements(r io.Reader, logger xlog.XLogger) ([]element, error) {
	// A plain tree with duplicates keeps every record of the dump.
	loaded := tree.NewBSTree[int64, string](
		tree.WithTreeDuplicates[int64, string](),
		tree.WithTreeLogger[int64, string](logger),
	)
	defer loaded.Release()
	if _, err := tree.ReadText[int64, string](r, loaded, nil); err != nil {
		return nil, err
	}
	elements := make([]element, 0, loaded.Len())
	for key, val := range loaded.All(tree.PreOrder) {
		elements = append(elements, lo.T2(key, val))
	}
	return elements, nil
}

func randomElements(n int, seed uint64) []element {
	rng := randv2.New(randv2.NewPCG(seed, seed>>1))
	keys := lo.Times(n, func(int) int64 {
		return rng.Int64N(int64(n)<<2 + 1)
	})
	return lo.Map(lo.Uniq(keys), func(key int64, _ int) element {
		return lo.T2(key, strconv.FormatInt(key, 10))
	})
}

func elementsSeq(elements []element) iter.Seq2[int64, string] {
	return func(yield func(int64, string) bool) {
		for _, e := range elements {
			if !yield(e.A, e.B) {
				return
			}
		}
	}
}

type report struct {
	strategy  tree.Strategy
	size      int64
	height    int
	inserted  int
	removed   int
	found     int
	traversal []int64
	dump      []byte
}

// runWorkload builds one tree, shuffles random finds, removals and
// re-insertions through it and checks every invariant at the end.
func runWorkload(
	cfg *config,
	strategy tree.Strategy,
	elements []element,
	logger xlog.XLogger,
	observer tree.Observer,
) (*report, error) {
	opts := []tree.TreeOption[int64, string]{
		tree.WithTreeLogger[int64, string](logger),
	}
	if observer != nil {
		opts = append(opts, tree.WithTreeObserver[int64, string](observer))
	}
	t := tree.NewTree[int64, string](strategy, infra.OrderedLess[int64], opts...)
	defer t.Release()

	rep := &report{strategy: strategy}
	rep.inserted = t.InsertRange(elementsSeq(elements))
	if len(elements) > 0 {
		rng := randv2.New(randv2.NewPCG(cfg.seed, uint64(strategy)))
		for range len(elements) {
			e := elements[rng.IntN(len(elements))]
			switch rng.IntN(3) {
			case 0:
				if t.Contains(e.A) {
					rep.found++
				}
			case 1:
				if _, err := t.Remove(e.A); err == nil {
					rep.removed++
				}
			default:
				if _, ok := t.Insert(e.A, e.B); ok {
					rep.inserted++
				}
			}
		}
	}
	if err := tree.Validate(t); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("[xtree] %s invariants", strategy))
	}

	rep.size, rep.height = t.Len(), t.Height()
	rep.traversal = make([]int64, 0, t.Len())
	t.Foreach(cfg.order, func(_ int64, key int64, _ string) bool {
		rep.traversal = append(rep.traversal, key)
		return true
	})
	if cfg.printDump {
		buf := &bytes.Buffer{}
		if err := tree.WriteText[int64, string](buf, t, nil); err != nil {
			return nil, err
		}
		rep.dump = buf.Bytes()
	}
	logger.Debug("[xtree] workload done",
		zap.Stringer("strategy", strategy),
		zap.Int64("size", rep.size),
		zap.Int("height", rep.height),
	)
	return rep, nil
}

func (rep *report) writeTo(w io.Writer, order tree.TraversalOrder) error {
	_, err := fmt.Fprintf(w, "%s size=%d height=%d inserted=%d removed=%d found=%d\n%s: %s\n",
		rep.strategy, rep.size, rep.height, rep.inserted, rep.removed, rep.found,
		order, joinKeys(rep.traversal),
	)
	if err != nil || len(rep.dump) == 0 {
		return err
	}
	_, err = w.Write(rep.dump)
	return err
}

func joinKeys(keys []int64) string {
	buf := make([]byte, 0, len(keys)*4)
	for i, key := range keys {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, key, 10)
	}
	return string(buf)
}
