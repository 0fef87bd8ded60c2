package graph

import (
	"github.com/fine-structures/relplan/relplan"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// AppendEncoding appends a vertex-order-independent binary encoding of X to buf.
//
// Vertices are renumbered 0..N-1 in ascending order, so the encoding survives decoding into any Space.
//
//	varint NumVerts, varint NumEdges, then per edge: label bytes, varint sign, varint arity, varint vertex indexes
func (X *Graph) AppendEncoding(buf []byte) []byte {
	vs := X.Vertices()
	index := make(map[Vertex]uint64, len(vs))
	for i, v := range vs {
		index[v] = uint64(i)
	}

	b := proto.NewBuffer(buf)
	b.EncodeVarint(uint64(len(vs)))
	b.EncodeVarint(uint64(len(X.edges)))
	for _, e := range X.Edges() {
		b.EncodeStringBytes(e.Label)
		if e.Neg {
			b.EncodeVarint(1)
		} else {
			b.EncodeVarint(0)
		}
		b.EncodeVarint(uint64(len(e.Verts)))
		for _, v := range e.Verts {
			b.EncodeVarint(index[v])
		}
	}
	return b.Bytes()
}

// Isolated vertices take no encoding space, so the vertex count is bounded separately.
const maxDecodeVerts = 1 << 20

// UnmarshalGraph decodes a graph written by AppendEncoding onto fresh vertices of this space.
func (space *Space) UnmarshalGraph(enc []byte) (*Graph, error) {
	b := proto.NewBuffer(enc)

	numVerts, err := b.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(relplan.ErrUnmarshal, "vertex count")
	}
	numEdges, err := b.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(relplan.ErrUnmarshal, "edge count")
	}
	if numVerts > maxDecodeVerts || numEdges > uint64(len(enc)) {
		return nil, errors.Wrap(relplan.ErrBadEncoding, "implausible vertex or edge count")
	}

	X := NewGraph(space)
	vs := space.NewVertices(int(numVerts))
	for _, v := range vs {
		X.AddVertex(v)
	}

	for ei := uint64(0); ei < numEdges; ei++ {
		var e Edge
		if e.Label, err = b.DecodeStringBytes(); err != nil {
			return nil, errors.Wrapf(relplan.ErrUnmarshal, "edge %d label", ei)
		}
		if !ValidLabel(e.Label) {
			return nil, errors.Wrapf(relplan.ErrBadEncoding, "edge %d label %q", ei, e.Label)
		}
		sign, err := b.DecodeVarint()
		if err != nil || sign > 1 {
			return nil, errors.Wrapf(relplan.ErrBadEncoding, "edge %d sign", ei)
		}
		e.Neg = sign == 1
		arity, err := b.DecodeVarint()
		if err != nil || arity == 0 || arity > uint64(len(enc)) {
			return nil, errors.Wrapf(relplan.ErrBadEncoding, "edge %d arity", ei)
		}
		e.Verts = make([]Vertex, arity)
		for i := range e.Verts {
			vi, err := b.DecodeVarint()
			if err != nil || vi >= numVerts {
				return nil, errors.Wrapf(relplan.ErrBadEncoding, "edge %d vertex %d", ei, i)
			}
			e.Verts[i] = vs[vi]
		}
		X.AddEdge(e)
	}
	return X, nil
}

// AppendPrimeKey appends X's fingerprint as a length-prefixed big-endian integer, so keys are prefix-free.
func (X *Graph) AppendPrimeKey(buf []byte) []byte {
	P := X.prime.Bytes()
	b := proto.NewBuffer(buf)
	b.EncodeRawBytes(P)
	return b.Bytes()
}
