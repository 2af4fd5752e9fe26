package scan

import (
	"iter"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/stream"
	"github.com/arloliu/nbt/tag"
)

// frame is one container on the descent stack: a list or compound whose
// children are being iterated.
type frame struct {
	node *tag.Node
	// remaining counts the list elements not yet produced. Compounds iterate
	// until their TagEnd byte instead.
	remaining int32
}

// cursor is the node whose header and metadata have been read but whose
// payload has not.
type cursor struct {
	node *tag.Node
	meta tag.Meta
}

// Scanner lazily yields the nodes of a document that the filter accepts, in
// pre-order. Between yields the stream sits at a well-defined boundary: just
// past the last emitted payload, or at the next child header of a container on
// the stack.
//
// The usage model follows bufio.Scanner:
//
//	sc := scan.NewScanner(r, scan.NameAnywhere("Pos"), true)
//	for sc.Scan() {
//	    node := sc.Node()
//	    ...
//	}
//	if err := sc.Err(); err != nil {
//	    ...
//	}
//
// A Scanner is not safe for concurrent use. Abandoning a scanner mid-iteration
// is legal; the remainder of the stream is simply left unconsumed.
type Scanner struct {
	r       *stream.Reader
	filter  Filter
	hasName bool

	stack      []frame
	parentsBuf []*tag.Node
	cur        *cursor
	node       *tag.Node
	err        error
	started    bool
	done       bool
}

// NewScanner creates a filtered scanner over r. When hasName is set, the root
// header carries a name (file framing); network-embedded documents pass false.
func NewScanner(r *stream.Reader, filter Filter, hasName bool) *Scanner {
	return &Scanner{
		r:       r,
		filter:  filter,
		hasName: hasName,
	}
}

// Scan advances to the next accepted node. It returns false when the document
// is exhausted or an error occurred; Err separates the two.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	node, err := s.next()
	if err != nil {
		s.err = err
		s.done = true

		return false
	}
	if node == nil {
		s.done = true
		return false
	}

	s.node = node

	return true
}

// Node returns the node produced by the last successful Scan.
func (s *Scanner) Node() *tag.Node {
	return s.node
}

// Err returns the first error encountered, if any. After an error the stream
// position is unspecified and the scanner must be abandoned.
func (s *Scanner) Err() error {
	return s.err
}

// All returns a range-over-func iterator over the accepted nodes. Check Err
// after the loop; iteration stops early on the first failure.
func (s *Scanner) All() iter.Seq[*tag.Node] {
	return func(yield func(*tag.Node) bool) {
		for s.Scan() {
			if !yield(s.Node()) {
				return
			}
		}
	}
}

// next drives the traversal state machine until a node is accepted (returned),
// the document ends (nil, nil), or a failure surfaces.
func (s *Scanner) next() (*tag.Node, error) {
	if !s.started {
		s.started = true
		if err := s.readRoot(); err != nil {
			return nil, err
		}
	}

	for {
		if s.cur == nil {
			if len(s.stack) == 0 {
				return nil, nil
			}
			if err := s.advanceChild(); err != nil {
				return nil, err
			}

			continue
		}

		cur := s.cur
		action := s.filter(s.parents(), cur.node)
		if action == TestChildren && !cur.node.Kind.IsContainer() {
			action = Ignore
		}

		switch action {
		case Accept:
			node, err := tag.ReadPayload(s.r, cur.node.Kind, cur.meta)
			if err != nil {
				return nil, err
			}
			node.Name = cur.node.Name
			s.cur = nil

			return node, nil
		case TestChildren:
			s.stack = append(s.stack, frame{node: cur.node, remaining: cur.meta.Len})
			s.cur = nil
		default:
			if err := tag.SkipPayload(s.r, cur.node.Kind, cur.meta); err != nil {
				return nil, err
			}
			s.cur = nil
		}
	}
}

// readRoot consumes the root header and metadata and installs the root as the
// current node.
func (s *Scanner) readRoot() error {
	kind, err := s.r.ReadUint8()
	if err != nil {
		return err
	}
	if format.TagID(kind) == format.TagEnd || !format.TagID(kind).Valid() {
		return &format.InvalidTagKindError{Kind: kind}
	}

	name := ""
	if s.hasName {
		name, err = tag.ReadString(s.r)
		if err != nil {
			return err
		}
	}

	meta, err := tag.ReadMeta(s.r, format.TagID(kind))
	if err != nil {
		return err
	}

	node := &tag.Node{Kind: format.TagID(kind), Name: name, Elem: meta.Elem}
	s.cur = &cursor{node: node, meta: meta}

	return nil
}

// advanceChild asks the top frame for its next child. On exhaustion the frame
// pops and iteration resumes in its parent.
func (s *Scanner) advanceChild() error {
	top := &s.stack[len(s.stack)-1]

	if top.node.Kind == format.TagList {
		if top.remaining == 0 {
			s.stack = s.stack[:len(s.stack)-1]
			return nil
		}
		top.remaining--

		meta, err := tag.ReadMeta(s.r, top.node.Elem)
		if err != nil {
			return err
		}
		// List elements have no name on the wire.
		node := &tag.Node{Kind: top.node.Elem, Elem: meta.Elem}
		s.cur = &cursor{node: node, meta: meta}

		return nil
	}

	kind, name, err := tag.ReadNamed(s.r)
	if err != nil {
		return err
	}
	if kind == format.TagEnd {
		s.stack = s.stack[:len(s.stack)-1]
		return nil
	}

	meta, err := tag.ReadMeta(s.r, kind)
	if err != nil {
		return err
	}
	node := &tag.Node{Kind: kind, Name: name, Elem: meta.Elem}
	s.cur = &cursor{node: node, meta: meta}

	return nil
}

// parents exposes the ancestor spine, root first, reusing one backing slice
// across filter invocations.
func (s *Scanner) parents() []*tag.Node {
	s.parentsBuf = s.parentsBuf[:0]
	for i := range s.stack {
		s.parentsBuf = append(s.parentsBuf, s.stack[i].node)
	}

	return s.parentsBuf
}
