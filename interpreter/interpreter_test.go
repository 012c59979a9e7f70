package interpreter

import (
	"math"
	"simplejvm/classfile"
	"simplejvm/runtime"
	"testing"
)

// ==================== Opcode Tests ====================

func TestOpcodeConstants(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		want   uint8
	}{
		{"NOP", NOP, 0x00},
		{"ICONST_0", ICONST_0, 0x03},
		{"ICONST_5", ICONST_5, 0x08},
		{"BIPUSH", BIPUSH, 0x10},
		{"ILOAD", ILOAD, 0x15},
		{"ISTORE", ISTORE, 0x36},
		{"IADD", IADD, 0x60},
		{"ISUB", ISUB, 0x64},
		{"IMUL", IMUL, 0x68},
		{"IDIV", IDIV, 0x6C},
		{"GOTO", GOTO, 0xA7},
		{"IRETURN", IRETURN, 0xAC},
		{"RETURN", RETURN, 0xB1},
		{"INVOKESTATIC", INVOKESTATIC, 0xB8},
		{"INVOKEVIRTUAL", INVOKEVIRTUAL, 0xB6},
		{"NEW", NEW, 0xBB},
		{"NEWARRAY", NEWARRAY, 0xBC},
		{"ATHROW", ATHROW, 0xBF},
		{"MONITORENTER", MONITORENTER, 0xC2},
		{"MONITOREXIT", MONITOREXIT, 0xC3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.opcode != tt.want {
				t.Errorf("%s = 0x%02X, want 0x%02X", tt.name, tt.opcode, tt.want)
			}
		})
	}
}

// ==================== Helper Function Tests ====================

func TestCountArgs(t *testing.T) {
	tests := []struct {
		descriptor string
		want       int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(II)I", 2},
		{"(IJ)V", 2},
		{"(Ljava/lang/String;)V", 1},
		{"(ILjava/lang/String;I)V", 3},
		{"([I)V", 1},
		{"([Ljava/lang/Object;)V", 1},
		{"(II[BLjava/lang/String;)I", 4},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got := countArgs(tt.descriptor)
			if got != tt.want {
				t.Errorf("countArgs(%q) = %d, want %d", tt.descriptor, got, tt.want)
			}
		})
	}
}

func TestParseArgTypes(t *testing.T) {
	tests := []struct {
		descriptor string
		want       []byte
	}{
		{"()V", nil},
		{"(I)V", []byte{'I'}},
		{"(IJ)V", []byte{'I', 'J'}},
		{"(Ljava/lang/String;)V", []byte{'L'}},
		{"([I)V", []byte{'['}},
		{"(ILjava/lang/Object;[B)V", []byte{'I', 'L', '['}},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got := parseArgTypes(tt.descriptor)
			if len(got) != len(tt.want) {
				t.Errorf("parseArgTypes(%q) len = %d, want %d", tt.descriptor, len(got), len(tt.want))
				return
			}
			for i, b := range got {
				if b != tt.want[i] {
					t.Errorf("parseArgTypes(%q)[%d] = %c, want %c", tt.descriptor, i, b, tt.want[i])
				}
			}
		})
	}
}

func TestExtractClassName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Object<java/lang/String>", "java/lang/String"},
		{"Object<java/lang/RuntimeException>", "java/lang/RuntimeException"},
		{"java/lang/Object", "java/lang/Object"},
		{"", ""},
		{"Object<>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := extractClassName(tt.input)
			if got != tt.want {
				t.Errorf("extractClassName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ==================== Interpreter Creation Tests ====================

func TestNewInterpreter(t *testing.T) {
	interp := NewInterpreter(false)
	if interp == nil {
		t.Fatal("NewInterpreter returned nil")
		return // unreachable but satisfies staticcheck
	}
	if interp.thread == nil {
		t.Error("Interpreter thread is nil")
	}
	if interp.staticFields == nil {
		t.Error("Interpreter staticFields is nil")
	}
}

func TestNewInterpreterWithJVM(t *testing.T) {
	jvm := runtime.NewJVM()
	interp := NewInterpreterWithJVM(true, jvm)

	if interp == nil {
		t.Fatal("NewInterpreterWithJVM returned nil")
		return // unreachable but satisfies staticcheck
	}
	if interp.thread == nil {
		t.Error("Interpreter thread is nil")
	}
	if !interp.verbose {
		t.Error("Interpreter verbose should be true")
	}
}

func TestSetTrace(t *testing.T) {
	interp := NewInterpreter(false)
	interp.SetTrace("testMethod")

	if !interp.trace {
		t.Error("trace should be true")
	}
	if interp.traceMethod != "testMethod" {
		t.Errorf("traceMethod = %q, want testMethod", interp.traceMethod)
	}
}

// ==================== Exception Handling Tests ====================

// ==================== Float/Double Conversion Tests ====================

func TestSaturatingDoubleToInt32(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int32
	}{
		{"NaN", math.NaN(), 0},
		{"too large", 1e30, math.MaxInt32},
		{"too small", -1e30, math.MinInt32},
		{"in range", 42.9, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := saturatingDoubleToInt32(tt.in); got != tt.want {
				t.Errorf("saturatingDoubleToInt32(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSaturatingDoubleToInt64(t *testing.T) {
	if got := saturatingDoubleToInt64(math.NaN()); got != 0 {
		t.Errorf("saturatingDoubleToInt64(NaN) = %d, want 0", got)
	}
	if got := saturatingDoubleToInt64(1e30); got != math.MaxInt64 {
		t.Errorf("saturatingDoubleToInt64(1e30) = %d, want MaxInt64", got)
	}
	if got := saturatingDoubleToInt64(-1e30); got != math.MinInt64 {
		t.Errorf("saturatingDoubleToInt64(-1e30) = %d, want MinInt64", got)
	}
}

func TestCompareFloat64(t *testing.T) {
	if got := compareFloat64(1, 2, -1); got != -1 {
		t.Errorf("compareFloat64(1,2) = %d, want -1", got)
	}
	if got := compareFloat64(2, 1, -1); got != 1 {
		t.Errorf("compareFloat64(2,1) = %d, want 1", got)
	}
	if got := compareFloat64(1, 1, -1); got != 0 {
		t.Errorf("compareFloat64(1,1) = %d, want 0", got)
	}
	if got := compareFloat64(math.NaN(), 1, -1); got != -1 {
		t.Errorf("fcmpl with NaN = %d, want -1", got)
	}
	if got := compareFloat64(math.NaN(), 1, 1); got != 1 {
		t.Errorf("fcmpg with NaN = %d, want 1", got)
	}
}

// ==================== Math Instruction Dispatch Tests ====================

func newTestFrame(maxStack, maxLocals int) *runtime.Frame {
	return &runtime.Frame{
		OperandStack: runtime.NewOperandStack(maxStack),
		LocalVars:    runtime.NewLocalVars(maxLocals),
	}
}

func TestExecuteMathFloatDoubleArith(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 2)

	frame.OperandStack.PushFloat(1.5)
	frame.OperandStack.PushFloat(2.5)
	if _, err := interp.executeMathInstruction(frame, FADD); err != nil {
		t.Fatalf("FADD failed: %v", err)
	}
	if got := frame.OperandStack.PopFloat(); got != 4 {
		t.Errorf("FADD result = %v, want 4", got)
	}

	frame.OperandStack.PushDouble(10)
	frame.OperandStack.PushDouble(4)
	if _, err := interp.executeMathInstruction(frame, DREM); err != nil {
		t.Fatalf("DREM failed: %v", err)
	}
	if got := frame.OperandStack.PopDouble(); got != 2 {
		t.Errorf("DREM result = %v, want 2", got)
	}
}

func TestExecuteMathLongShifts(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 2)

	frame.OperandStack.PushLong(1)
	frame.OperandStack.PushInt(4)
	if _, err := interp.executeMathInstruction(frame, LSHL); err != nil {
		t.Fatalf("LSHL failed: %v", err)
	}
	if got := frame.OperandStack.PopLong(); got != 16 {
		t.Errorf("LSHL result = %d, want 16", got)
	}
}

func TestExecuteMathPop2Category2(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 2)

	frame.OperandStack.PushInt(5)
	frame.OperandStack.PushDouble(1.5)
	if _, err := interp.executeMathInstruction(frame, POP2); err != nil {
		t.Fatalf("POP2 failed: %v", err)
	}
	if got := frame.OperandStack.PopInt(); got != 5 {
		t.Errorf("after POP2 of a double, PopInt() = %d, want 5", got)
	}
}

// ==================== Control Instruction Dispatch Tests ====================

func TestExecuteControlIfAcmp(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 0)
	frame.Code = []byte{IF_ACMPEQ, 0x00, 0x06}
	frame.PC = 1 // simulate having just read the opcode

	obj := "same"
	frame.OperandStack.PushRef(obj)
	frame.OperandStack.PushRef(obj)

	if handled, err := interp.executeControlInstruction(frame, IF_ACMPEQ); !handled || err != nil {
		t.Fatalf("IF_ACMPEQ should be handled, err=%v", err)
	}
	if frame.PC != 6 {
		t.Errorf("PC after taken IF_ACMPEQ = %d, want 6", frame.PC)
	}
}

func TestExecuteControlJsrRet(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 1)
	frame.Code = []byte{JSR, 0x00, 0x05, NOP, NOP, RETURN}
	frame.PC = 1

	if handled, err := interp.executeControlInstruction(frame, JSR); !handled || err != nil {
		t.Fatalf("JSR should be handled, err=%v", err)
	}
	if frame.PC != 5 {
		t.Errorf("PC after JSR = %d, want 5 (jump target)", frame.PC)
	}

	retAddr := frame.OperandStack.PopRetAddr()
	if retAddr != 3 {
		t.Errorf("JSR pushed return address = %d, want 3", retAddr)
	}
	frame.LocalVars.SetRetAddr(0, retAddr)

	frame.Code = append(frame.Code, RET, 0x00)
	frame.PC = len(frame.Code) - 2 + 1
	if handled, err := interp.executeControlInstruction(frame, RET); !handled || err != nil {
		t.Fatalf("RET should be handled, err=%v", err)
	}
	if frame.PC != 3 {
		t.Errorf("PC after RET = %d, want 3", frame.PC)
	}
}

// ==================== Wide Instruction Tests ====================

func TestExecuteWideLoadStore(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 300)
	frame.LocalVars.SetInt(300-1, 77)

	frame.Code = []byte{WIDE, ILOAD, 0x01, 0x2B} // index 299
	frame.PC = 1

	if err := interp.executeWideInstruction(frame); err != nil {
		t.Fatalf("wide iload failed: %v", err)
	}
	if got := frame.OperandStack.PopInt(); got != 77 {
		t.Errorf("wide iload result = %d, want 77", got)
	}
}

func TestExecuteWideIinc(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 10)
	frame.LocalVars.SetInt(5, 10)

	// wide iinc index=5 const=100
	frame.Code = []byte{WIDE, IINC, 0x00, 0x05, 0x00, 0x64}
	frame.PC = 1

	if err := interp.executeWideInstruction(frame); err != nil {
		t.Fatalf("wide iinc failed: %v", err)
	}
	if got := frame.LocalVars.GetInt(5); got != 110 {
		t.Errorf("wide iinc result = %d, want 110", got)
	}
}

// ==================== Array Instruction Tests ====================

func TestMultiNewArrayTwoDimensions(t *testing.T) {
	interp := NewInterpreter(false)
	frame := newTestFrame(10, 0)
	frame.Class = &classfile.ClassFile{
		ConstantPool: classfile.ConstantPool{
			nil,
			&classfile.ConstantClassInfo{NameIndex: 2},
			&classfile.ConstantUtf8Info{Value: "[[I"},
		},
	}
	frame.Code = []byte{MULTIANEWARRAY, 0x00, 0x01, 0x02}
	frame.PC = 1

	frame.OperandStack.PushInt(3) // outer dimension
	frame.OperandStack.PushInt(2) // inner dimension

	handled, err := interp.executeArrayInstruction(frame, MULTIANEWARRAY)
	if !handled || err != nil {
		t.Fatalf("MULTIANEWARRAY failed: handled=%v err=%v", handled, err)
	}

	ref := frame.OperandStack.PopRef()
	outer, ok := ref.(*runtime.Array)
	if !ok {
		t.Fatalf("MULTIANEWARRAY result is not *runtime.Array: %T", ref)
	}
	if outer.Length != 3 {
		t.Errorf("outer array length = %d, want 3", outer.Length)
	}
	inner, ok := outer.GetRef(0).(*runtime.Array)
	if !ok {
		t.Fatalf("outer[0] is not *runtime.Array: %T", outer.GetRef(0))
	}
	if inner.Length != 2 {
		t.Errorf("inner array length = %d, want 2", inner.Length)
	}
}

// ==================== Return Type Checking Tests ====================

// newReturnTestSetup builds a minimal class/method pair whose return
// descriptor is descriptor, pushes a caller frame onto interp's thread, and
// returns an interpreter plus the callee frame (also pushed) so ARETURN's
// and IRETURN's i.thread.PopFrame()/CurrentFrame() calls behave as they
// would mid-invocation.
func newReturnTestSetup(descriptor string) (*Interpreter, *runtime.Frame) {
	cp := classfile.ConstantPool{
		nil,
		&classfile.ConstantUtf8Info{Value: "Main"},
		&classfile.ConstantClassInfo{NameIndex: 1},
		&classfile.ConstantUtf8Info{Value: "foo"},
		&classfile.ConstantUtf8Info{Value: descriptor},
	}
	cf := &classfile.ClassFile{ConstantPool: cp, ThisClass: 2}
	method := &classfile.MethodInfo{NameIndex: 3, DescriptorIndex: 4}

	interp := NewInterpreter(false)
	caller := newTestFrame(10, 0)
	interp.thread.PushFrame(caller)

	callee := newTestFrame(10, 0)
	callee.Method = method
	callee.Class = cf
	interp.thread.PushFrame(callee)

	return interp, callee
}

func TestExecuteControlAreturnAssignable(t *testing.T) {
	interp, callee := newReturnTestSetup("()Ljava/lang/String;")

	str := "hello"
	callee.OperandStack.PushRef(str)

	if handled, err := interp.executeControlInstruction(callee, ARETURN); !handled || err != nil {
		t.Fatalf("ARETURN of an assignable string should succeed, err=%v", err)
	}

	caller := interp.thread.CurrentFrame()
	if got := caller.OperandStack.PopRef(); got != str {
		t.Errorf("caller received %v, want %q", got, str)
	}
}

func TestExecuteControlAreturnIncompatible(t *testing.T) {
	interp, callee := newReturnTestSetup("()Ljava/lang/String;")

	obj := runtime.NewObject(callee.Class) // an instance of "Main", not String
	callee.OperandStack.PushRef(obj)

	handled, err := interp.executeControlInstruction(callee, ARETURN)
	if !handled {
		t.Fatal("ARETURN should be handled even when it faults")
	}
	if err == nil {
		t.Fatal("returning a Main instance as java/lang/String should fault")
	}
	if _, ok := err.(*runtime.IncompatibleReturnTypeError); !ok {
		t.Fatalf("expected *runtime.IncompatibleReturnTypeError, got %T: %v", err, err)
	}
}

func TestExecuteControlIreturnNarrows(t *testing.T) {
	interp, callee := newReturnTestSetup("()B")

	callee.OperandStack.PushInt(300)

	if handled, err := interp.executeControlInstruction(callee, IRETURN); !handled || err != nil {
		t.Fatalf("IRETURN should succeed, err=%v", err)
	}

	caller := interp.thread.CurrentFrame()
	if got := caller.OperandStack.PopInt(); got != 44 {
		t.Errorf("caller received %d, want 44 (300 narrowed to byte)", got)
	}
}

func TestFindExceptionHandler(t *testing.T) {
	// Create a mock code attribute with exception table
	code := &classfile.CodeAttribute{
		ExceptionTable: []*classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 10, HandlerPC: 20, CatchType: 0}, // catch all
		},
	}

	// Test PC in range
	handler := runtime.FindExceptionHandler(code, nil, 5, "java/lang/Exception")
	if handler != 20 {
		t.Errorf("FindExceptionHandler = %d, want 20", handler)
	}

	// Test PC out of range
	handler = runtime.FindExceptionHandler(code, nil, 15, "java/lang/Exception")
	if handler != -1 {
		t.Errorf("FindExceptionHandler = %d, want -1", handler)
	}
}
