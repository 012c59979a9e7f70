package runtime

import (
	"fmt"

	"simplejvm/classfile"
)

// JavaException represents a Java exception being thrown.
type JavaException struct {
	Object    *Object
	ClassName string
	Message   string
}

func NewJavaException(obj *Object, message string) *JavaException {
	className := ""
	if obj != nil && obj.Class != nil {
		className = obj.Class.ClassName()
	}
	return &JavaException{
		Object:    obj,
		ClassName: className,
		Message:   message,
	}
}

func (e *JavaException) String() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.ClassName, e.Message)
	}
	return e.ClassName
}

// FindExceptionHandler finds a handler in code's exception table whose PC
// range covers pc and whose catch type matches exceptionClass (against the
// builtin java.lang/java.io ancestry table only — see
// FindExceptionHandlerWithResolver for the user-class-aware form). Returns
// the handler PC, or -1 if none matches.
func FindExceptionHandler(code *classfile.CodeAttribute, cp classfile.ConstantPool, pc int, exceptionClass string) int {
	return FindExceptionHandlerWithResolver(code, cp, pc, exceptionClass, nil)
}

// FindExceptionHandlerWithResolver is FindExceptionHandler generalized with
// a ClassResolver so user-defined exception classes (with a real loaded
// superclass chain) are matched correctly too, not just the builtin table.
func FindExceptionHandlerWithResolver(code *classfile.CodeAttribute, cp classfile.ConstantPool, pc int, exceptionClass string, resolve ClassResolver) int {
	for _, entry := range code.ExceptionTable {
		if pc < int(entry.StartPC) || pc >= int(entry.EndPC) {
			continue
		}
		if entry.CatchType == 0 {
			return int(entry.HandlerPC)
		}
		catchClassName := cp.GetClassName(entry.CatchType)
		if IsSubclassOf(exceptionClass, catchClassName, resolve) {
			return int(entry.HandlerPC)
		}
	}
	return -1
}
