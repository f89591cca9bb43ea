package match

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// prefixStride is how many bytes CommonPrefix compares per outer step.
// CPUs with wide vector units get the longer unroll.
var prefixStride = strideFor(cpu.X86.HasAVX2)

func strideFor(wide bool) int {
	if wide {
		return 32
	}
	return 16
}

// CommonPrefix returns the length of the longest common prefix of a and b.
// Bytes are compared eight at a time as little-endian words; the first set bit
// of the XOR of two words locates the first mismatching byte.
func CommonPrefix(a, b []byte) int {
	return commonPrefixStride(a, b, prefixStride)
}

func commonPrefixStride(a, b []byte, stride int) int {
	n := min(len(a), len(b))
	i := 0
	for ; i+stride <= n; i += stride {
		for j := i; j < i+stride; j += 8 {
			if x := binary.LittleEndian.Uint64(a[j:]) ^ binary.LittleEndian.Uint64(b[j:]); x != 0 {
				return j + bits.TrailingZeros64(x)/8
			}
		}
	}
	for ; i+8 <= n; i += 8 {
		if x := binary.LittleEndian.Uint64(a[i:]) ^ binary.LittleEndian.Uint64(b[i:]); x != 0 {
			return i + bits.TrailingZeros64(x)/8
		}
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// commonPrefixScalar is the byte-by-byte reference for CommonPrefix.
func commonPrefixScalar(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
