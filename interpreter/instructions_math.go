package interpreter

import (
	"math"

	"simplejvm/runtime"
)

// executeMathInstruction handles arithmetic, bitwise, and conversion instructions
func (i *Interpreter) executeMathInstruction(frame *runtime.Frame, opcode uint8) (bool, error) {
	stack := frame.OperandStack
	locals := frame.LocalVars

	switch opcode {
	// Stack manipulation
	case POP:
		stack.Pop()
	case POP2:
		stack.Pop2()
	case DUP:
		stack.Dup()
	case DUP_X1:
		stack.DupX1()
	case DUP_X2:
		stack.DupX2()
	case DUP2:
		stack.Dup2()
	case DUP2_X1:
		stack.Dup2X1()
	case DUP2_X2:
		stack.Dup2X2()
	case SWAP:
		stack.Swap()

	// Integer arithmetic
	case IADD:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 + v2)
	case ISUB:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 - v2)
	case IMUL:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 * v2)
	case IDIV:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v2 == 0 {
			if err := i.handleException("java/lang/ArithmeticException", "java/lang/ArithmeticException"); err != nil {
				return true, err
			}
			return true, nil
		}
		stack.PushInt(v1 / v2)
	case IREM:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v2 == 0 {
			if err := i.handleException("java/lang/ArithmeticException", "java/lang/ArithmeticException"); err != nil {
				return true, err
			}
			return true, nil
		}
		stack.PushInt(v1 % v2)
	case INEG:
		stack.PushInt(-stack.PopInt())

	// Long arithmetic
	case LADD:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 + v2)
	case LSUB:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 - v2)
	case LMUL:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 * v2)
	case LDIV:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		if v2 == 0 {
			if err := i.handleException("java/lang/ArithmeticException", "java/lang/ArithmeticException"); err != nil {
				return true, err
			}
			return true, nil
		}
		stack.PushLong(v1 / v2)
	case LREM:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		if v2 == 0 {
			if err := i.handleException("java/lang/ArithmeticException", "java/lang/ArithmeticException"); err != nil {
				return true, err
			}
			return true, nil
		}
		stack.PushLong(v1 % v2)
	case LNEG:
		stack.PushLong(-stack.PopLong())

	// Bitwise operations
	case IAND:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 & v2)
	case IOR:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 | v2)
	case IXOR:
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		stack.PushInt(v1 ^ v2)
	case LAND:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 & v2)
	case LOR:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 | v2)
	case LXOR:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		stack.PushLong(v1 ^ v2)

	// Shifts
	case ISHL:
		v2 := stack.PopInt() & 0x1f
		v1 := stack.PopInt()
		stack.PushInt(v1 << v2)
	case ISHR:
		v2 := stack.PopInt() & 0x1f
		v1 := stack.PopInt()
		stack.PushInt(v1 >> v2)
	case IUSHR:
		v2 := stack.PopInt() & 0x1f
		v1 := stack.PopInt()
		stack.PushInt(int32(uint32(v1) >> v2))
	case LSHL:
		v2 := stack.PopInt() & 0x3f
		v1 := stack.PopLong()
		stack.PushLong(v1 << uint(v2))
	case LSHR:
		v2 := stack.PopInt() & 0x3f
		v1 := stack.PopLong()
		stack.PushLong(v1 >> uint(v2))
	case LUSHR:
		v2 := stack.PopInt() & 0x3f
		v1 := stack.PopLong()
		stack.PushLong(int64(uint64(v1) >> uint(v2)))

	// Float arithmetic
	case FADD:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushFloat(v1 + v2)
	case FSUB:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushFloat(v1 - v2)
	case FMUL:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushFloat(v1 * v2)
	case FDIV:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushFloat(v1 / v2)
	case FREM:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushFloat(float32(math.Mod(float64(v1), float64(v2))))
	case FNEG:
		stack.PushFloat(-stack.PopFloat())

	// Double arithmetic
	case DADD:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushDouble(v1 + v2)
	case DSUB:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushDouble(v1 - v2)
	case DMUL:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushDouble(v1 * v2)
	case DDIV:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushDouble(v1 / v2)
	case DREM:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushDouble(math.Mod(v1, v2))
	case DNEG:
		stack.PushDouble(-stack.PopDouble())

	// Increment local variable
	case IINC:
		index := frame.ReadU1()
		constVal := frame.ReadI1()
		locals.SetInt(int(index), locals.GetInt(int(index))+int32(constVal))

	// Conversions
	case I2L:
		stack.PushLong(int64(stack.PopInt()))
	case I2F:
		stack.PushFloat(float32(stack.PopInt()))
	case I2D:
		stack.PushDouble(float64(stack.PopInt()))
	case L2I:
		stack.PushInt(int32(stack.PopLong()))
	case L2F:
		stack.PushFloat(float32(stack.PopLong()))
	case L2D:
		stack.PushDouble(float64(stack.PopLong()))
	case F2I:
		stack.PushInt(saturatingFloatToInt32(stack.PopFloat()))
	case F2L:
		stack.PushLong(saturatingFloatToInt64(stack.PopFloat()))
	case F2D:
		stack.PushDouble(float64(stack.PopFloat()))
	case D2I:
		stack.PushInt(saturatingDoubleToInt32(stack.PopDouble()))
	case D2L:
		stack.PushLong(saturatingDoubleToInt64(stack.PopDouble()))
	case D2F:
		stack.PushFloat(float32(stack.PopDouble()))
	case I2B:
		stack.PushInt(int32(int8(stack.PopInt())))
	case I2C:
		stack.PushInt(int32(uint16(stack.PopInt())))
	case I2S:
		stack.PushInt(int32(int16(stack.PopInt())))

	// Long compare
	case LCMP:
		v2 := stack.PopLong()
		v1 := stack.PopLong()
		if v1 > v2 {
			stack.PushInt(1)
		} else if v1 < v2 {
			stack.PushInt(-1)
		} else {
			stack.PushInt(0)
		}

	// Float/double compare. The "L"/"G" suffix controls which value NaN
	// comparisons push (-1 or 1), per the class file spec.
	case FCMPL:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushInt(compareFloat64(float64(v1), float64(v2), -1))
	case FCMPG:
		v2 := stack.PopFloat()
		v1 := stack.PopFloat()
		stack.PushInt(compareFloat64(float64(v1), float64(v2), 1))
	case DCMPL:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushInt(compareFloat64(v1, v2, -1))
	case DCMPG:
		v2 := stack.PopDouble()
		v1 := stack.PopDouble()
		stack.PushInt(compareFloat64(v1, v2, 1))

	default:
		return false, nil
	}
	return true, nil
}

// compareFloat64 implements fcmp<op>/dcmp<op>: -1/0/1 for less/equal/greater,
// and nanResult when either operand is NaN (-1 for the L forms, 1 for G).
func compareFloat64(v1, v2 float64, nanResult int32) int32 {
	if math.IsNaN(v1) || math.IsNaN(v2) {
		return nanResult
	}
	switch {
	case v1 > v2:
		return 1
	case v1 < v2:
		return -1
	default:
		return 0
	}
}

// saturatingFloatToInt32/Int64 and saturatingDoubleToInt32/Int64 implement
// the JLS narrowing conversion for f2i/f2l/d2i/d2l: NaN becomes 0, and
// out-of-range values saturate to the target type's min/max rather than
// wrapping, unlike a plain Go float-to-int conversion.
func saturatingFloatToInt32(v float32) int32 {
	return saturatingDoubleToInt32(float64(v))
}

func saturatingFloatToInt64(v float32) int64 {
	return saturatingDoubleToInt64(float64(v))
}

func saturatingDoubleToInt32(v float64) int32 {
	if math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

func saturatingDoubleToInt64(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	if v <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(v)
}
