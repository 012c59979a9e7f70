package runtime

import "fmt"

// VMFault is the common interface satisfied by every typed fault in the
// interpreter's error taxonomy. Each variant carries the opcode that
// produced it so diagnostics and exception-table matching can key off it.
type VMFault interface {
	error
	Opcode() uint8
}

type faultBase struct {
	opcode uint8
}

func (f faultBase) Opcode() uint8 { return f.opcode }

// StackUnderflowError is raised when an operand-stack pop is attempted
// against an empty (or too-shallow) stack.
type StackUnderflowError struct {
	faultBase
}

func NewStackUnderflow(opcode uint8) *StackUnderflowError {
	return &StackUnderflowError{faultBase{opcode}}
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at opcode 0x%02X", e.opcode)
}

// FrameStackUnderflowError is raised when a return is attempted with no
// caller frame left on the thread's frame stack.
type FrameStackUnderflowError struct {
	faultBase
}

func NewFrameStackUnderflow(opcode uint8) *FrameStackUnderflowError {
	return &FrameStackUnderflowError{faultBase{opcode}}
}

func (e *FrameStackUnderflowError) Error() string {
	return fmt.Sprintf("frame stack underflow at opcode 0x%02X", e.opcode)
}

// UnexpectedTypeOnStackError is raised by a checked accessor when the
// operand at the top of the stack does not carry the requested variant.
type UnexpectedTypeOnStackError struct {
	faultBase
	Wanted string
	Got    string
}

func NewUnexpectedType(opcode uint8, wanted, got string) *UnexpectedTypeOnStackError {
	return &UnexpectedTypeOnStackError{faultBase{opcode}, wanted, got}
}

func (e *UnexpectedTypeOnStackError) Error() string {
	return fmt.Sprintf("unexpected type on stack at opcode 0x%02X: wanted %s, got %s", e.opcode, e.Wanted, e.Got)
}

// IncorrectComputationalTypeError is raised when a stack-shuffle opcode
// (dup2, pop2, ...) finds the category of the top operand(s) incompatible
// with the form it implements.
type IncorrectComputationalTypeError struct {
	faultBase
	Detail string
}

func NewIncorrectComputationalType(opcode uint8, detail string) *IncorrectComputationalTypeError {
	return &IncorrectComputationalTypeError{faultBase{opcode}, detail}
}

func (e *IncorrectComputationalTypeError) Error() string {
	return fmt.Sprintf("incorrect computational type at opcode 0x%02X: %s", e.opcode, e.Detail)
}

// IncorrectReferenceTypeError is raised when an operation expecting one
// reference kind (Array vs Object vs Interface) sees another.
type IncorrectReferenceTypeError struct {
	faultBase
	Detail string
}

func NewIncorrectReferenceType(opcode uint8, detail string) *IncorrectReferenceTypeError {
	return &IncorrectReferenceTypeError{faultBase{opcode}, detail}
}

func (e *IncorrectReferenceTypeError) Error() string {
	return fmt.Sprintf("incorrect reference type at opcode 0x%02X: %s", e.opcode, e.Detail)
}

// IncompatibleReturnTypeError is raised by areturn's assignability check.
type IncompatibleReturnTypeError struct {
	faultBase
	ActualClass string
	Declared    string
}

func NewIncompatibleReturnType(opcode uint8, actual, declared string) *IncompatibleReturnTypeError {
	return &IncompatibleReturnTypeError{faultBase{opcode}, actual, declared}
}

func (e *IncompatibleReturnTypeError) Error() string {
	return fmt.Sprintf("incompatible return type at opcode 0x%02X: %s is not assignable to %s", e.opcode, e.ActualClass, e.Declared)
}

// NoSuchFieldError models the JVM exception of the same name.
type NoSuchFieldError struct {
	faultBase
	Class, Field string
}

func NewNoSuchField(opcode uint8, class, field string) *NoSuchFieldError {
	return &NoSuchFieldError{faultBase{opcode}, class, field}
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("NoSuchFieldError at opcode 0x%02X: %s.%s", e.opcode, e.Class, e.Field)
}

// NoSuchMethodError models the JVM exception of the same name.
type NoSuchMethodError struct {
	faultBase
	Class, Method, Descriptor string
}

func NewNoSuchMethod(opcode uint8, class, method, descriptor string) *NoSuchMethodError {
	return &NoSuchMethodError{faultBase{opcode}, class, method, descriptor}
}

func (e *NoSuchMethodError) Error() string {
	return fmt.Sprintf("NoSuchMethodError at opcode 0x%02X: %s.%s%s", e.opcode, e.Class, e.Method, e.Descriptor)
}

// ArithmeticExceptionError models integer division/remainder by zero.
type ArithmeticExceptionError struct {
	faultBase
	Detail string
}

func NewArithmeticException(opcode uint8, detail string) *ArithmeticExceptionError {
	return &ArithmeticExceptionError{faultBase{opcode}, detail}
}

func (e *ArithmeticExceptionError) Error() string {
	return fmt.Sprintf("ArithmeticException at opcode 0x%02X: %s", e.opcode, e.Detail)
}

// NullPointerExceptionError models dereferencing a Null reference.
type NullPointerExceptionError struct {
	faultBase
	Detail string
}

func NewNullPointerException(opcode uint8, detail string) *NullPointerExceptionError {
	return &NullPointerExceptionError{faultBase{opcode}, detail}
}

func (e *NullPointerExceptionError) Error() string {
	return fmt.Sprintf("NullPointerException at opcode 0x%02X: %s", e.opcode, e.Detail)
}

// ArrayIndexOutOfBoundsError models an out-of-range array access.
type ArrayIndexOutOfBoundsError struct {
	faultBase
	Index, Length int
}

func NewArrayIndexOutOfBounds(opcode uint8, index, length int) *ArrayIndexOutOfBoundsError {
	return &ArrayIndexOutOfBoundsError{faultBase{opcode}, index, length}
}

func (e *ArrayIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("ArrayIndexOutOfBoundsException at opcode 0x%02X: index %d, length %d", e.opcode, e.Index, e.Length)
}

// ArrayStoreExceptionError models storing an incompatible element kind
// into a typed array.
type ArrayStoreExceptionError struct {
	faultBase
	Detail string
}

func NewArrayStoreException(opcode uint8, detail string) *ArrayStoreExceptionError {
	return &ArrayStoreExceptionError{faultBase{opcode}, detail}
}

func (e *ArrayStoreExceptionError) Error() string {
	return fmt.Sprintf("ArrayStoreException at opcode 0x%02X: %s", e.opcode, e.Detail)
}

// IllegalWideError is raised when the wide prefix precedes an instruction
// that does not accept it.
type IllegalWideError struct {
	faultBase
}

func NewIllegalWide(opcode uint8) *IllegalWideError {
	return &IllegalWideError{faultBase{opcode}}
}

func (e *IllegalWideError) Error() string {
	return fmt.Sprintf("illegal wide prefix before opcode 0x%02X", e.opcode)
}

// ReservedOpcodeError is raised by breakpoint/impdep1/impdep2.
type ReservedOpcodeError struct {
	faultBase
	Kind string
}

func NewReservedOpcode(opcode uint8, kind string) *ReservedOpcodeError {
	return &ReservedOpcodeError{faultBase{opcode}, kind}
}

func (e *ReservedOpcodeError) Error() string {
	return fmt.Sprintf("%s at opcode 0x%02X", e.Kind, e.opcode)
}

// TodoError marks an unimplemented path, still tagged by opcode so it
// shows up in diagnostics like every other fault.
type TodoError struct {
	faultBase
	Detail string
}

func NewTodo(opcode uint8, detail string) *TodoError {
	return &TodoError{faultBase{opcode}, detail}
}

func (e *TodoError) Error() string {
	return fmt.Sprintf("todo at opcode 0x%02X: %s", e.opcode, e.Detail)
}
