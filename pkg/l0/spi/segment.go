package spi

// Segment is one piece of a full-duplex transfer chain.
// A nil Out clocks dummy zero bytes, a nil In discards what is shifted in.
type Segment struct {
	Out  []byte
	In   []byte
	Next *Segment
}

// Len returns the number of bytes the segment clocks.
func (s *Segment) Len() int {
	if len(s.Out) > len(s.In) {
		return len(s.Out)
	}
	return len(s.In)
}

// Chain links the segments in order and returns the head.
func Chain(segs ...*Segment) *Segment {
	for n := len(segs) - 1; n > 0; n-- {
		segs[n-1].Next = segs[n]
	}
	if len(segs) == 0 {
		return nil
	}
	return segs[0]
}

// TotalLen returns the number of bytes clocked by the whole chain.
func (s *Segment) TotalLen() (n int) {
	for ; s != nil; s = s.Next {
		n += s.Len()
	}
	return
}

// Reads reports whether any segment in the chain captures input.
func (s *Segment) Reads() bool {
	for ; s != nil; s = s.Next {
		if s.In != nil {
			return true
		}
	}
	return false
}
