package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterChunks yields consecutive [start, end) windows covering first up to
// (but not including) last. Every window but the first starts on a multiple
// of size.
func IterChunks(first, last, size int) iter.Seq2[int, int] {
	return func(yield func(start, end int) bool) {
		for start := first; start < last; {
			end := min((start/size+1)*size, last)
			if !yield(start, end) {
				return
			}
			start = end
		}
	}
}
