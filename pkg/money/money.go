package money

import (
	"errors"
	"math/bits"
)

// Amounts are plain uint64 units of the smallest denomination. Every
// operation that could wrap rejects with ErrInvalidAmount instead.
var ErrInvalidAmount = errors.New("invalid amount")

// RewardScale is the fixed-point scale for the per-share fee accumulator.
const RewardScale uint64 = 1_000_000_000_000

func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrInvalidAmount
	}
	return sum, nil
}

func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrInvalidAmount
	}
	return diff, nil
}

func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrInvalidAmount
	}
	return lo, nil
}

// Fee computes amount*rate/100 truncating toward zero. The truncated
// remainder stays with the pool, so rounding always favors lenders.
func Fee(amount, rate uint64) (uint64, error) {
	p, err := Mul(amount, rate)
	if err != nil {
		return 0, err
	}
	return p / 100, nil
}

// ShareOf returns amount*perShare/RewardScale, the unscaled reward owed to
// a contribution of the given amount at the given accumulator reading.
func ShareOf(amount, perShare uint64) (uint64, error) {
	p, err := Mul(amount, perShare)
	if err != nil {
		return 0, err
	}
	return p / RewardScale, nil
}

// PerShareDelta returns fee*RewardScale/total, the accumulator advance for
// a fee accrual against a pool with the given historical total.
func PerShareDelta(fee, total uint64) (uint64, error) {
	if total == 0 {
		return 0, ErrInvalidAmount
	}
	p, err := Mul(fee, RewardScale)
	if err != nil {
		return 0, err
	}
	return p / total, nil
}
