// Package extnumeric provides numeric functions for binding expressions.
//
//	@{price | round}
//	@{ratio | mul(100) | floor}
//	@{fn:max(a, b, c)}
package extnumeric

import (
	"math"
	"sort"

	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all numeric functions.
func All() []functions.Function {
	return []functions.Function{
		Abs(),
		Ceil(),
		Floor(),
		Round(),
		Pow(),
		Sign(),
		Trunc(),
		Clamp(),
		Log(),
		Max(),
		Min(),
		Median(),
	}
}

// Abs returns the function n | abs.
func Abs() functions.Function {
	return extutil.OnNumber("abs", unary(math.Abs))
}

// Ceil returns the function n | ceil.
func Ceil() functions.Function {
	return extutil.OnNumber("ceil", unary(math.Ceil))
}

// Floor returns the function n | floor.
func Floor() functions.Function {
	return extutil.OnNumber("floor", unary(math.Floor))
}

// Round returns the function n | round: half away from zero.
func Round() functions.Function {
	return extutil.OnNumber("round", unary(math.Round))
}

// Trunc returns the function n | trunc: toward zero.
func Trunc() functions.Function {
	return extutil.OnNumber("trunc", unary(math.Trunc))
}

// Sign returns the function n | sign: -1, 0 or 1.
func Sign() functions.Function {
	return extutil.OnNumber("sign", func(n float64, _ []value.Value) value.Value {
		switch {
		case n < 0:
			return value.Int(-1)
		case n > 0:
			return value.Int(1)
		default:
			return value.Int(0)
		}
	})
}

// Pow returns the function n | pow(exp).
func Pow() functions.Function {
	return extutil.OnNumber("pow", func(n float64, args []value.Value) value.Value {
		exp, ok := extutil.NumberArg(args, 0)
		if !ok {
			return nil
		}
		return value.Number(math.Pow(n, exp))
	})
}

// Clamp returns the function n | clamp(min, max).
func Clamp() functions.Function {
	return extutil.OnNumber("clamp", func(n float64, args []value.Value) value.Value {
		lo, ok1 := extutil.NumberArg(args, 0)
		hi, ok2 := extutil.NumberArg(args, 1)
		if !ok1 || !ok2 || lo > hi {
			return nil
		}
		return value.Number(math.Max(lo, math.Min(hi, n)))
	})
}

// Log returns the function n | log([base]). Without base it is the natural
// logarithm. Non-positive input is returned unchanged.
func Log() functions.Function {
	return extutil.OnNumber("log", func(n float64, args []value.Value) value.Value {
		if n <= 0 {
			return nil
		}
		if len(args) == 0 {
			return value.Number(math.Log(n))
		}
		base, ok := extutil.NumberArg(args, 0)
		if !ok || base <= 0 || base == 1 {
			return nil
		}
		return value.Number(math.Log(n) / math.Log(base))
	})
}

// Max returns the function max(a, b, ...): the largest numeric argument.
// Non-numeric arguments are skipped; with none left the data is returned.
func Max() functions.Function {
	return functions.New("max", func(data value.Value, _ int, args ...value.Value) value.Value {
		return extreme(data, args, math.Max)
	})
}

// Min returns the function min(a, b, ...).
func Min() functions.Function {
	return functions.New("min", func(data value.Value, _ int, args ...value.Value) value.Value {
		return extreme(data, args, math.Min)
	})
}

// Median returns the function list | median over the numeric items of an
// array.
func Median() functions.Function {
	return functions.New("median", func(data value.Value, _ int, _ ...value.Value) value.Value {
		if !data.IsArray() {
			return data
		}
		var nums []float64
		for _, item := range data.AsArray().Items() {
			if f, err := value.ToDouble(item); err == nil {
				nums = append(nums, f)
			}
		}
		if len(nums) == 0 {
			return value.NullValue
		}
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 1 {
			return value.Number(nums[mid])
		}
		return value.Number((nums[mid-1] + nums[mid]) / 2)
	})
}

func unary(fn func(float64) float64) func(float64, []value.Value) value.Value {
	return func(n float64, _ []value.Value) value.Value {
		return value.Number(fn(n))
	}
}

func extreme(data value.Value, args []value.Value, pick func(a, b float64) float64) value.Value {
	var (
		acc   float64
		found bool
	)
	for _, arg := range args {
		f, err := value.ToDouble(value.OrNull(arg))
		if err != nil {
			continue
		}
		if !found {
			acc, found = f, true
			continue
		}
		acc = pick(acc, f)
	}
	if !found {
		return data
	}
	return value.Number(acc)
}
