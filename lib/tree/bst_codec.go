package tree

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
)

// ElementCodec converts one element to a single line of text and back.
type ElementCodec[K any, V any] interface {
	Encode(key K, val V) ([]byte, error)
	Decode(data []byte) (K, V, error)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonElement[K any, V any] struct {
	Key K `json:"k"`
	Val V `json:"v"`
}

var _ ElementCodec[int, string] = JSONCodec[int, string]{}

// JSONCodec encodes an element as {"k":...,"v":...}.
type JSONCodec[K any, V any] struct{}

func (JSONCodec[K, V]) Encode(key K, val V) ([]byte, error) {
	return json.Marshal(jsonElement[K, V]{Key: key, Val: val})
}

func (JSONCodec[K, V]) Decode(data []byte) (K, V, error) {
	var elem jsonElement[K, V]
	if err := json.Unmarshal(data, &elem); err != nil {
		return elem.Key, elem.Val, err
	}
	return elem.Key, elem.Val, nil
}

/*
WriteText dump format, one record per line:

	<element count>
	<element 1>
	...
	<element n>

The elements are written in pre-order, so reading a dump into an
unbalanced tree rebuilds the same shape.
*/
func WriteText[K any, V any](w io.Writer, tree Tree[K, V], codec ElementCodec[K, V]) error {
	if codec == nil {
		codec = JSONCodec[K, V]{}
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strconv.FormatInt(tree.Len(), 10)); err != nil {
		return infra.WrapErrorStackWithMessage(err, "[xtree] write element count")
	}
	if err := bw.WriteByte('\n'); err != nil {
		return infra.WrapErrorStack(err)
	}

	idx := 0
	for key, val := range tree.All(PreOrder) {
		data, err := codec.Encode(key, val)
		if err != nil {
			return infra.WrapErrorStackWithMessage(err, fmt.Sprintf("[xtree] encode element %d", idx))
		}
		if bytes.IndexByte(data, '\n') >= 0 {
			return infra.NewErrorStackf("[xtree] encoded element %d spans multiple lines", idx)
		}
		if _, err = bw.Write(data); err != nil {
			return infra.WrapErrorStack(err)
		}
		if err = bw.WriteByte('\n'); err != nil {
			return infra.WrapErrorStack(err)
		}
		idx++
	}
	return infra.WrapErrorStack(bw.Flush())
}

const maxDumpLineSize = 16 << 20

// ReadText inserts the elements of a WriteText dump into tree and returns
// the number of decoded elements. Elements rejected as duplicates are
// still counted as decoded.
func ReadText[K any, V any](r io.Reader, tree Tree[K, V], codec ElementCodec[K, V]) (int, error) {
	if codec == nil {
		codec = JSONCodec[K, V]{}
	}
	var logger interface {
		Warn(msg string, fields ...zap.Field)
		Debug(msg string, fields ...zap.Field)
	}
	if t, ok := tree.(*bsTree[K, V]); ok && t.logger != nil {
		logger = t.logger
	}
	malformed := func(line int, err error) error {
		if logger != nil {
			logger.Warn("[xtree] malformed dump", zap.Int("line", line), zap.Error(err))
		}
		return infra.WrapErrorStackWithMessage(
			multierr.Append(ErrMalformedDump, err),
			fmt.Sprintf("[xtree] read dump line %d", line),
		)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxDumpLineSize)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, malformed(1, err)
		}
		return 0, malformed(1, io.ErrUnexpectedEOF)
	}
	count, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		return 0, malformed(1, err)
	}
	if count < 0 {
		return 0, malformed(1, fmt.Errorf("negative element count %d", count))
	}

	line, read := 1, 0
	for int64(read) < count && sc.Scan() {
		line++
		key, val, err := codec.Decode(sc.Bytes())
		if err != nil {
			return read, malformed(line, err)
		}
		tree.Insert(key, val)
		read++
	}
	if err = sc.Err(); err != nil {
		return read, malformed(line+1, err)
	}
	if int64(read) < count {
		return read, malformed(line+1, fmt.Errorf("expected %d elements, got %d: %w", count, read, io.ErrUnexpectedEOF))
	}
	if logger != nil {
		logger.Debug("[xtree] dump loaded", zap.Int("elements", read), zap.Int64("size", tree.Len()))
	}
	return read, nil
}
