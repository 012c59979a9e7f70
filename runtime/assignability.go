package runtime

import (
	"simplejvm/classfile"
	"strings"
)

// sentinelClassName recovers the class name from a native placeholder
// object string of the form "Object<java/lang/SomeClass>", mirroring the
// sentinel format runtime.NewObject's caller falls back to for system
// classes with no loaded .class file.
func sentinelClassName(s string) string {
	const prefix, suffix = "Object<", ">"
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
		return s[len(prefix) : len(s)-len(suffix)]
	}
	return s
}

// ClassResolver looks up a (possibly not-yet-loaded) class by binary name,
// lazily loading it if necessary. The interpreter supplies this (it already
// knows how to search the classpath); runtime stays decoupled from loading
// policy, matching §9's "explicit context, not ambient globals" note.
type ClassResolver func(name string) *classfile.ClassFile

// builtinAncestors covers the handful of java.lang/java.io classes this
// interpreter never loads a .class file for (they're implemented by the
// native shim, C9), so the assignability/instanceof/checkcast walk still
// needs to know their place in the hierarchy. Keyed by class name, value is
// (superclass, interfaces).
var builtinAncestors = map[string]struct {
	super      string
	interfaces []string
}{
	"java/lang/Object":                   {"", nil},
	"java/lang/Throwable":                {"java/lang/Object", nil},
	"java/lang/Exception":                {"java/lang/Throwable", nil},
	"java/lang/RuntimeException":         {"java/lang/Exception", nil},
	"java/lang/Error":                    {"java/lang/Throwable", nil},
	"java/lang/ArithmeticException":      {"java/lang/RuntimeException", nil},
	"java/lang/NullPointerException":     {"java/lang/RuntimeException", nil},
	"java/lang/ClassCastException":       {"java/lang/RuntimeException", nil},
	"java/lang/NegativeArraySizeException": {"java/lang/RuntimeException", nil},
	"java/lang/ArrayStoreException":      {"java/lang/RuntimeException", nil},
	"java/lang/IllegalArgumentException": {"java/lang/RuntimeException", nil},
	"java/lang/IllegalStateException":    {"java/lang/RuntimeException", nil},
	"java/lang/IndexOutOfBoundsException": {"java/lang/RuntimeException", nil},
	"java/lang/ArrayIndexOutOfBoundsException": {"java/lang/IndexOutOfBoundsException", nil},
	"java/lang/StringIndexOutOfBoundsException": {"java/lang/IndexOutOfBoundsException", nil},
	"java/lang/NumberFormatException":    {"java/lang/IllegalArgumentException", nil},
	"java/lang/Number":                   {"java/lang/Object", nil},
	"java/lang/Integer":                  {"java/lang/Number", nil},
	"java/lang/Long":                     {"java/lang/Number", nil},
	"java/lang/Float":                    {"java/lang/Number", nil},
	"java/lang/Double":                   {"java/lang/Number", nil},
	"java/lang/String":                   {"java/lang/Object", nil},
	"java/lang/Thread":                   {"java/lang/Object", nil},
	"java/io/PrintStream":                {"java/lang/Object", nil},
}

// ancestorsOf returns the direct superclass name and directly-implemented
// interface names of className, consulting the resolver first (for
// user-loaded classes) and falling back to the builtin table.
func ancestorsOf(className string, resolve ClassResolver) (super string, interfaces []string, isInterface bool) {
	if resolve != nil {
		if cf := resolve(className); cf != nil {
			return cf.SuperClassName(), cf.InterfaceNames(), cf.IsInterface()
		}
	}
	if entry, ok := builtinAncestors[className]; ok {
		return entry.super, entry.interfaces, false
	}
	return "", nil, false
}

// IsSubclassOf walks the superclass chain of className looking for target,
// also walking each ancestor's directly-implemented interfaces (and their
// super-interfaces) along the way. Returns true if className == target too.
func IsSubclassOf(className, target string, resolve ClassResolver) bool {
	if className == target || target == "java/lang/Object" {
		return true
	}
	seen := map[string]bool{}
	cur := className
	for cur != "" && !seen[cur] {
		seen[cur] = true
		super, interfaces, _ := ancestorsOf(cur, resolve)
		for _, iface := range interfaces {
			if implementsInterface(iface, target, resolve) {
				return true
			}
		}
		if super == target {
			return true
		}
		cur = super
	}
	return false
}

// implementsInterface walks the super-interface chain of iface looking for
// target (§4.3: "If reference is an Interface I -> walk the super-interface
// chain; accept iff any matches D").
func implementsInterface(iface, target string, resolve ClassResolver) bool {
	if iface == target {
		return true
	}
	seen := map[string]bool{}
	cur := iface
	for cur != "" && !seen[cur] {
		seen[cur] = true
		super, supers, _ := ancestorsOf(cur, resolve)
		for _, s := range supers {
			if implementsInterface(s, target, resolve) {
				return true
			}
		}
		if super == target {
			return true
		}
		cur = super
	}
	return false
}

// AssignableTo implements §4.3's areturn assignability check against a
// declared reference/array descriptor D.
//   - Null -> always accept.
//   - Array -> accept iff D starts with '[' or D == "java/lang/Object"
//     (deep element-type compatibility is the spec's recorded TODO, §9).
//   - Object of class C -> accept iff C <: D per IsSubclassOf.
//   - Interface I -> accept iff I's super-interface chain reaches D.
func AssignableTo(ref interface{}, descriptor string, resolve ClassResolver) bool {
	if ref == nil {
		return true
	}
	target := descriptor
	if len(target) > 0 && target[0] == 'L' && target[len(target)-1] == ';' {
		target = target[1 : len(target)-1]
	}

	switch v := ref.(type) {
	case *Array:
		return len(descriptor) > 0 && (descriptor[0] == '[' || target == "java/lang/Object")
	case *Object:
		className := v.ClassName()
		if v.Class != nil && v.Class.IsInterface() {
			return implementsInterface(className, target, resolve) || target == "java/lang/Object"
		}
		return IsSubclassOf(className, target, resolve)
	case string:
		// Native placeholder objects (system classes without a loaded
		// .class), represented as "Object<class/name>" sentinels. Any
		// other Go string is a java/lang/String value.
		className := "java/lang/String"
		if strings.HasPrefix(v, "Object<") {
			className = sentinelClassName(v)
		}
		return IsSubclassOf(className, target, resolve)
	default:
		return target == "java/lang/Object"
	}
}
