// Package diag provides centralized structured diagnostics for the
// compiler core (§7), generalizing the teacher's internal/errors package
// from AILANG's type-class/runtime taxonomy to the compiler-core
// taxonomy: Resolve, Type, Safety, Mir, Backend, Bundle, Io.
package diag

// Error code constants, organized by phase. Each names a specific
// condition with structured reporting, matching §7's taxonomy.
const (
	// Resolve errors (E01xx)
	E0100 = "E0100" // UndefinedSymbol
	E0101 = "E0101" // UndefinedType
	E0102 = "E0102" // AmbiguousOverload
	E0103 = "E0103" // CircularDependency

	// Type errors (E02xx)
	E0200 = "E0200" // Mismatch
	E0201 = "E0201" // InferenceFailed
	E0202 = "E0202" // InvalidTypeArguments
	E0203 = "E0203" // ConstraintViolation
	E0204 = "E0204" // InterfaceNotImplemented
	E0205 = "E0205" // AccessViolation

	// Safety errors (E03xx)
	E0300 = "E0300" // UseAfterMove
	E0301 = "E0301" // BorrowConflict
	E0302 = "E0302" // DanglingReference
	E0303 = "E0303" // DoubleFree
	E0304 = "E0304" // ReturnOfLocalReference
	E0305 = "E0305" // UnsatisfiableLifetimes

	// Mir errors (E04xx) - hard compiler bugs, abort the unit
	E0400 = "E0400" // InvalidSSA
	E0401 = "E0401" // MissingTerminator
	E0402 = "E0402" // TypeMismatch
	E0403 = "E0403" // UndominatedUse

	// Backend errors (E05xx)
	E0500 = "E0500" // UnsupportedInstruction
	E0501 = "E0501" // LinkerFailure

	// Bundle errors (E06xx)
	E0600 = "E0600" // InvalidMagic
	E0601 = "E0601" // VersionMismatch
	E0602 = "E0602" // SerializationError

	// Io errors (E07xx) - passed through from the host environment
	E0700 = "E0700"
)

// Phase names, used in Report.Phase.
const (
	PhaseResolve = "resolve"
	PhaseType    = "typecheck"
	PhaseSafety  = "safety"
	PhaseMir     = "mir"
	PhaseBackend = "backend"
	PhaseBundle  = "bundle"
	PhaseIo      = "io"
)

// remediation maps a code to its canonical suggested fix, per the
// teacher's Fix{Suggestion, Confidence} convention.
var remediation = map[string]string{
	E0300: "consider `.clone()` or moving the value only after its last use",
	E0301: "end the existing borrow before taking a mutable one",
	E0302: "extend the referent's lifetime, or return an owned value instead",
	E0303: "remove the redundant free; ownership already released this allocation",
	E0304: "return an owned value instead of a reference to a local",
	E0200: "check the expected and actual types at this position",
	E0204: "implement the missing interface method, or narrow the type",
}

// Remediation returns the canonical suggested fix for code, if any.
func Remediation(code string) (string, bool) {
	s, ok := remediation[code]
	return s, ok
}
