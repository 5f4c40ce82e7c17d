package core

import "math/big"

// BigInt adapts *big.Int to Numeric, so arbitrarily large integers can be
// classified with ClassifyNumeric. A nil Int is treated as zero.
type BigInt struct {
	Int *big.Int
}

// Big wraps n. The wrapped value is never modified.
func Big(n *big.Int) BigInt {
	return BigInt{Int: n}
}

func (b BigInt) value() *big.Int {
	if b.Int == nil {
		return new(big.Int)
	}
	return b.Int
}

// Literal always succeeds: big.Int represents every small literal.
func (b BigInt) Literal(v uint8) (BigInt, bool) {
	return BigInt{Int: new(big.Int).SetUint64(uint64(v))}, true
}

// Rem uses truncated division, so the remainder takes the dividend's sign
// like Go's built-in % operator.
func (b BigInt) Rem(d BigInt) BigInt {
	return BigInt{Int: new(big.Int).Rem(b.value(), d.value())}
}

func (b BigInt) Equal(other BigInt) bool {
	return b.value().Cmp(other.value()) == 0
}

func (b BigInt) String() string {
	return b.value().String()
}
