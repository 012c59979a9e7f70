package interpreter

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestOpcodeNameTableSnapshot pins the opcode-name lookup used by the
// frame-debug printer against a snapshot, so a renumbered or renamed entry
// in getOpcodeName shows up as a diff instead of silently drifting.
func TestOpcodeNameTableSnapshot(t *testing.T) {
	opcodes := []uint8{
		NOP, ICONST_0, ICONST_5, BIPUSH, LDC,
		ILOAD, ALOAD_0, IADD, LADD, FADD, DADD,
		IFEQ, IF_ACMPEQ, GOTO, JSR, RET,
		TABLESWITCH, LOOKUPSWITCH,
		IRETURN, FRETURN, DRETURN, ARETURN, RETURN,
		GETFIELD, PUTFIELD, INVOKEVIRTUAL, INVOKEINTERFACE, INVOKEDYNAMIC,
		NEW, NEWARRAY, ANEWARRAY, MULTIANEWARRAY,
		CHECKCAST, INSTANCEOF, WIDE,
	}

	for _, op := range opcodes {
		snaps.MatchSnapshot(t, fmt.Sprintf("opcode_0x%02X", op), getOpcodeName(op))
	}
}
