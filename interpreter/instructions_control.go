package interpreter

import "simplejvm/runtime"

// executeControlInstruction handles branch and control flow instructions
func (i *Interpreter) executeControlInstruction(frame *runtime.Frame, opcode uint8) (bool, error) {
	stack := frame.OperandStack

	switch opcode {
	// Conditional branches (compare with zero)
	case IFEQ:
		offset := frame.ReadI2()
		if stack.PopInt() == 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFNE:
		offset := frame.ReadI2()
		if stack.PopInt() != 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFLT:
		offset := frame.ReadI2()
		if stack.PopInt() < 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFGE:
		offset := frame.ReadI2()
		if stack.PopInt() >= 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFGT:
		offset := frame.ReadI2()
		if stack.PopInt() > 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFLE:
		offset := frame.ReadI2()
		if stack.PopInt() <= 0 {
			frame.PC = frame.PC - 3 + int(offset)
		}

	// Conditional branches (compare two ints)
	case IF_ICMPEQ:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 == v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ICMPNE:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 != v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ICMPLT:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 < v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ICMPGE:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 >= v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ICMPGT:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 > v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ICMPLE:
		offset := frame.ReadI2()
		v2 := stack.PopInt()
		v1 := stack.PopInt()
		if v1 <= v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}

	// Conditional branches (compare two references)
	case IF_ACMPEQ:
		offset := frame.ReadI2()
		v2 := stack.PopRef()
		v1 := stack.PopRef()
		if v1 == v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IF_ACMPNE:
		offset := frame.ReadI2()
		v2 := stack.PopRef()
		v1 := stack.PopRef()
		if v1 != v2 {
			frame.PC = frame.PC - 3 + int(offset)
		}

	// Null checks
	case IFNULL:
		offset := frame.ReadI2()
		ref := stack.PopRef()
		if ref == nil {
			frame.PC = frame.PC - 3 + int(offset)
		}
	case IFNONNULL:
		offset := frame.ReadI2()
		ref := stack.PopRef()
		if ref != nil {
			frame.PC = frame.PC - 3 + int(offset)
		}

	// Unconditional jump
	case GOTO:
		offset := frame.ReadI2()
		frame.PC = frame.PC - 3 + int(offset)
	case GOTO_W:
		offset := frame.ReadI4()
		frame.PC = frame.PC - 5 + int(offset)

	// Subroutine call/return (deprecated since class file version 51, still
	// legal bytecode): JSR pushes the address of the instruction right
	// after itself, RET jumps to the address stored in a local variable.
	case JSR:
		offset := frame.ReadI2()
		opcodeStart := frame.PC - 3
		retAddr := frame.PC
		stack.PushRetAddr(retAddr)
		frame.PC = opcodeStart + int(offset)
	case RET:
		index := frame.ReadU1()
		frame.PC = frame.LocalVars.GetRetAddr(int(index))

	// Table/lookup switch: the opcode is followed by 0-3 padding bytes so
	// the default-offset word starts on a 4-byte boundary measured from the
	// start of the method's bytecode (index 0 of frame.Code).
	case TABLESWITCH:
		opcodeStart := frame.PC - 1
		pad := (4 - (opcodeStart+1)%4) % 4
		frame.PC += pad
		defaultOffset := frame.ReadI4()
		low := frame.ReadI4()
		high := frame.ReadI4()
		index := stack.PopInt()
		if index < low || index > high {
			frame.PC = opcodeStart + int(defaultOffset)
		} else {
			entryPC := frame.PC + int(index-low)*4
			offset := int32(frame.Code[entryPC])<<24 | int32(frame.Code[entryPC+1])<<16 |
				int32(frame.Code[entryPC+2])<<8 | int32(frame.Code[entryPC+3])
			frame.PC = opcodeStart + int(offset)
		}
	case LOOKUPSWITCH:
		opcodeStart := frame.PC - 1
		pad := (4 - (opcodeStart+1)%4) % 4
		frame.PC += pad
		defaultOffset := frame.ReadI4()
		npairs := frame.ReadI4()
		key := stack.PopInt()
		target := opcodeStart + int(defaultOffset)
		for p := int32(0); p < npairs; p++ {
			matchVal := frame.ReadI4()
			offsetVal := frame.ReadI4()
			if matchVal == key {
				target = opcodeStart + int(offsetVal)
			}
		}
		frame.PC = target

	// Return from method
	case RETURN:
		i.thread.PopFrame()
	case IRETURN:
		retVal := stack.PopInt()
		retVal = narrowToReturnType(retVal, methodReturnDescriptor(frame.Method.Descriptor(frame.Class.ConstantPool)))
		methodName := frame.Method.Name(frame.Class.ConstantPool)
		i.traceReturn(methodName, retVal, true)
		i.thread.PopFrame()
		caller := i.thread.CurrentFrame()
		if caller != nil {
			caller.OperandStack.PushInt(retVal)
		}
	case LRETURN:
		retVal := stack.PopLong()
		i.thread.PopFrame()
		caller := i.thread.CurrentFrame()
		if caller != nil {
			caller.OperandStack.PushLong(retVal)
		}
	case FRETURN:
		retVal := stack.PopFloat()
		i.thread.PopFrame()
		caller := i.thread.CurrentFrame()
		if caller != nil {
			caller.OperandStack.PushFloat(retVal)
		}
	case DRETURN:
		retVal := stack.PopDouble()
		i.thread.PopFrame()
		caller := i.thread.CurrentFrame()
		if caller != nil {
			caller.OperandStack.PushDouble(retVal)
		}
	case ARETURN:
		retVal := stack.PopRef()
		declared := methodReturnDescriptor(frame.Method.Descriptor(frame.Class.ConstantPool))
		if !runtime.AssignableTo(retVal, declared, i.classResolver(frame.Class)) {
			return true, runtime.NewIncompatibleReturnType(opcode, refClassName(retVal), declared)
		}
		i.thread.PopFrame()
		caller := i.thread.CurrentFrame()
		if caller != nil {
			caller.OperandStack.PushRef(retVal)
		}

	default:
		return false, nil
	}
	return true, nil
}
