package archecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// Signature is a set of up to 256 component types. It identifies an
// archetype's component membership and drives query matching. Each bit
// corresponds to a ComponentID.
type Signature struct {
	words [4]uint64
}

// SignatureOf builds a signature from a list of component types.
func SignatureOf(types ...ComponentID) Signature {
	var s Signature
	for _, t := range types {
		s.Set(t)
	}
	return s
}

// Set adds t to the signature.
func (s *Signature) Set(t ComponentID) {
	mustValid(t)
	s.words[t>>6] |= uint64(1) << (t & 63)
}

// Unset removes t from the signature.
func (s *Signature) Unset(t ComponentID) {
	mustValid(t)
	s.words[t>>6] &^= uint64(1) << (t & 63)
}

// Has reports whether t is in the signature.
func (s Signature) Has(t ComponentID) bool {
	if !t.Valid() {
		return false
	}
	return s.words[t>>6]&(uint64(1)<<(t&63)) != 0
}

// Contains reports whether every type in sub is also in s. This is used to
// determine if an archetype satisfies a query's required components.
func (s Signature) Contains(sub Signature) bool {
	a, b := &s.words, &sub.words
	return (a[0]&b[0]) == b[0] &&
		(a[1]&b[1]) == b[1] &&
		(a[2]&b[2]) == b[2] &&
		(a[3]&b[3]) == b[3]
}

// Intersects reports whether s and other share any type.
func (s Signature) Intersects(other Signature) bool {
	a, b := &s.words, &other.words
	return (a[0]&b[0] != 0) ||
		(a[1]&b[1] != 0) ||
		(a[2]&b[2] != 0) ||
		(a[3]&b[3] != 0)
}

// IsEmpty reports whether no type is set.
func (s Signature) IsEmpty() bool {
	return s.words[0]|s.words[1]|s.words[2]|s.words[3] == 0
}

// Len returns the number of types in the signature.
func (s Signature) Len() int {
	return bits.OnesCount64(s.words[0]) + bits.OnesCount64(s.words[1]) +
		bits.OnesCount64(s.words[2]) + bits.OnesCount64(s.words[3])
}

// AppendTypes appends the member types to dst in ascending order.
func (s Signature) AppendTypes(dst []ComponentID) []ComponentID {
	for w, word := range s.words {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			dst = append(dst, ComponentID(w*64+b))
			word &= word - 1
		}
	}
	return dst
}

func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, t := range s.AppendTypes(nil) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(t)))
	}
	sb.WriteByte('}')
	return sb.String()
}
