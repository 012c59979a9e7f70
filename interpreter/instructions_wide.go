package interpreter

import (
	"simplejvm/runtime"
)

// executeWideInstruction handles the wide-prefixed forms of the local
// variable instructions: the index (and, for iinc, the constant) are read
// as 2-byte operands instead of 1-byte, letting a method address more than
// 256 local variable slots.
func (i *Interpreter) executeWideInstruction(frame *runtime.Frame) error {
	stack := frame.OperandStack
	locals := frame.LocalVars

	modifiedOpcode := frame.ReadU1()
	index := int(frame.ReadU2())

	switch modifiedOpcode {
	case ILOAD:
		stack.PushInt(locals.GetInt(index))
	case LLOAD:
		stack.PushLong(locals.GetLong(index))
	case FLOAD:
		stack.PushFloat(locals.GetFloat(index))
	case DLOAD:
		stack.PushDouble(locals.GetDouble(index))
	case ALOAD:
		stack.PushRef(locals.GetRef(index))

	case ISTORE:
		locals.SetInt(index, stack.PopInt())
	case LSTORE:
		locals.SetLong(index, stack.PopLong())
	case FSTORE:
		locals.SetFloat(index, stack.PopFloat())
	case DSTORE:
		locals.SetDouble(index, stack.PopDouble())
	case ASTORE:
		locals.SetRef(index, stack.PopRef())

	case RET:
		frame.PC = locals.GetRetAddr(index)

	case IINC:
		constVal := frame.ReadI2()
		locals.SetInt(index, locals.GetInt(index)+int32(constVal))

	default:
		return runtime.NewIllegalWide(modifiedOpcode)
	}
	return nil
}
