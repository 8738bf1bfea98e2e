// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
)

// FeltModulus is the order of the field in which ledger values live.  It is
// the 64-bit Goldilocks prime 2^64 - 2^32 + 1.
const FeltModulus uint64 = 0xffffffff00000001

// Felt is an element of the ledger's prime field.  Values in canonical form
// are strictly less than FeltModulus.
type Felt uint64

// NewFelt returns the provided value as a field element after ensuring it is
// in canonical form.
func NewFelt(v uint64) (Felt, error) {
	if v >= FeltModulus {
		msg := fmt.Sprintf("value %d is not less than the modulus %d", v,
			FeltModulus)
		return 0, messageError("NewFelt", ErrNonCanonicalFelt, msg)
	}
	return Felt(v), nil
}

// Uint64 returns the field element as an integer.
func (f Felt) Uint64() uint64 {
	return uint64(f)
}
