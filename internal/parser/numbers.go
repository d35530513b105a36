package parser

import "math/big"

// bigFromString parses clean as a base-radix big.Int, used when an integer
// literal overflows int64 (spec.md §3 numeric widening lattice Int→BigInt).
func bigFromString(clean string, base int) *big.Int {
	n := new(big.Int)
	n.SetString(clean, base)
	return n
}
