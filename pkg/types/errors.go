package types

import "fmt"

// UnsupportedOperationError indicates a lattice or relational operation was
// invoked on a variant or arity for which it is not defined. It is a
// contract violation by the caller, never retried.
type UnsupportedOperationError struct {
	Op    string
	Type  Type
	Other Type
}

func (e *UnsupportedOperationError) Error() string {
	if e.Other != nil {
		return fmt.Sprintf("operation %s is not supported on %s and %s", e.Op, e.Type, e.Other)
	}
	return fmt.Sprintf("operation %s is not supported on %s", e.Op, e.Type)
}

func NewUnsupportedOperationError(op string, t Type) *UnsupportedOperationError {
	return &UnsupportedOperationError{Op: op, Type: t}
}

func NewBinaryUnsupportedOperationError(op string, t, other Type) *UnsupportedOperationError {
	return &UnsupportedOperationError{Op: op, Type: t, Other: other}
}

// TypeMismatchError indicates a pattern match failed: a candidate does not
// satisfy a parameter's bound, or conflicts with an earlier binding. Unlike
// the other kinds it is an expected, recoverable outcome.
type TypeMismatchError struct {
	Pattern   Type
	Candidate Type
	Detail    string
}

func (e *TypeMismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("type %s does not match %s: %s", e.Candidate, e.Pattern, e.Detail)
	}
	return fmt.Sprintf("type %s does not match %s", e.Candidate, e.Pattern)
}

func NewTypeMismatchError(pattern, candidate Type) *TypeMismatchError {
	return &TypeMismatchError{Pattern: pattern, Candidate: candidate}
}

// DeclarationError indicates a lookup of an undeclared name, label or
// annotation, or a conflicting redeclaration.
type DeclarationError struct {
	What string
	Name string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s %q is not declared", e.What, e.Name)
}

func NewDeclarationError(what, name string) *DeclarationError {
	return &DeclarationError{What: what, Name: name}
}
