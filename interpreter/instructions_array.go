package interpreter

import (
	"fmt"
	"simplejvm/runtime"
)

// checkArrayKind guards *aload/*astore against an array whose backing slice
// doesn't match what the opcode expects (e.g. iaload on a long[]), which
// would otherwise index a nil slice and panic instead of raising a typed
// fault.
func checkArrayKind(opcode uint8, arr *runtime.Array, want string) error {
	got := arr.ElemKind()
	if got != want {
		return runtime.NewIncorrectComputationalType(opcode, fmt.Sprintf("expected %s array, got %s array", want, got))
	}
	return nil
}

// executeArrayInstruction handles array-related instructions
func (i *Interpreter) executeArrayInstruction(frame *runtime.Frame, opcode uint8) (bool, error) {
	stack := frame.OperandStack
	cp := frame.Class.ConstantPool

	switch opcode {
	// Array load instructions
	case IALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "iaload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushInt(arr.GetInt(index))

	case LALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "laload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "long"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushLong(arr.GetLong(index))

	case AALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "aaload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "ref"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushRef(arr.GetRef(index))

	case BALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "baload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushInt(arr.GetInt(index))

	case CALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "caload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushInt(arr.GetInt(index))

	case SALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "saload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushInt(arr.GetInt(index))

	case FALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "faload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "float"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushFloat(arr.GetFloat(index))

	case DALOAD:
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "daload", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "double"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		stack.PushDouble(arr.GetDouble(index))

	// Array store instructions
	case IASTORE:
		val := stack.PopInt()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "iastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetInt(index, val)

	case LASTORE:
		val := stack.PopLong()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "lastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "long"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetLong(index, val)

	case AASTORE:
		val := stack.PopRef()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "aastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "ref"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetRef(index, val)

	case BASTORE:
		val := stack.PopInt()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "bastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetInt(index, int32(int8(val)))

	case CASTORE:
		val := stack.PopInt()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "castore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetInt(index, int32(uint16(val)))

	case SASTORE:
		val := stack.PopInt()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "sastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "int"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetInt(index, int32(int16(val)))

	case FASTORE:
		val := stack.PopFloat()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "fastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "float"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetFloat(index, val)

	case DASTORE:
		val := stack.PopDouble()
		index := stack.PopInt()
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("%s target is not an array: %T", "dastore", arrRef))
		}
		if err := checkArrayKind(opcode, arr, "double"); err != nil {
			return true, err
		}
		if index < 0 || index >= arr.Length {
			return true, fmt.Errorf("ArrayIndexOutOfBoundsException: %d", index)
		}
		arr.SetDouble(index, val)

	// Create new primitive array
	case NEWARRAY:
		atype := frame.ReadU1()
		count := stack.PopInt()
		if count < 0 {
			return true, fmt.Errorf("NegativeArraySizeException: %d", count)
		}
		arr := runtime.NewPrimitiveArray(runtime.ArrayType(atype), count)
		stack.PushRef(arr)

	// Create new reference array
	case ANEWARRAY:
		index := frame.ReadU2()
		className := cp.GetClassName(index)
		count := stack.PopInt()
		if count < 0 {
			return true, fmt.Errorf("NegativeArraySizeException: %d", count)
		}
		arr := runtime.NewReferenceArray(className, count)
		stack.PushRef(arr)

	// Create a multi-dimensional array; only the leading `dimensions` levels
	// are allocated, the rest are left null until assigned, per §2.4.1.
	case MULTIANEWARRAY:
		index := frame.ReadU2()
		descriptor := cp.GetClassName(index)
		dimensions := int(frame.ReadU1())

		counts := make([]int32, dimensions)
		for d := dimensions - 1; d >= 0; d-- {
			counts[d] = stack.PopInt()
			if counts[d] < 0 {
				return true, fmt.Errorf("NegativeArraySizeException: %d", counts[d])
			}
		}
		stack.PushRef(newMultiArray(descriptor, counts))

	// Get array length
	case ARRAYLENGTH:
		arrRef := stack.PopRef()
		if arrRef == nil {
			return true, fmt.Errorf("NullPointerException: array is null")
		}
		arr, ok := arrRef.(*runtime.Array)
		if !ok {
			return true, runtime.NewIncorrectReferenceType(opcode, fmt.Sprintf("arraylength target is not an array: %T", arrRef))
		}
		stack.PushInt(arr.Length)

	default:
		return false, nil
	}
	return true, nil
}

// newMultiArray builds a multianewarray result: the outer `len(counts)`
// levels are allocated eagerly, nested one level per descriptor '[', with
// deeper uninitialized levels (when descriptor has more dimensions than
// counts supplies) left as null references inside their parent array.
func newMultiArray(descriptor string, counts []int32) *runtime.Array {
	elemDescriptor := descriptor[1:]
	if len(counts) == 1 {
		return newLeafArray(elemDescriptor, counts[0])
	}
	outer := runtime.NewReferenceArray(elemDescriptor, counts[0])
	for idx := int32(0); idx < counts[0]; idx++ {
		outer.SetRef(idx, newMultiArray(elemDescriptor, counts[1:]))
	}
	return outer
}

// newLeafArray allocates the innermost dimension named by a multianewarray,
// dispatching to a primitive or reference array depending on the element
// descriptor.
func newLeafArray(elemDescriptor string, length int32) *runtime.Array {
	switch elemDescriptor[0] {
	case 'I':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeInt, length)
	case 'J':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeLong, length)
	case 'F':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeFloat, length)
	case 'D':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeDouble, length)
	case 'B':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeByte, length)
	case 'C':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeChar, length)
	case 'S':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeShort, length)
	case 'Z':
		return runtime.NewPrimitiveArray(runtime.ArrayTypeBoolean, length)
	default:
		return runtime.NewReferenceArray(elemDescriptor, length)
	}
}
