// Package guard provides ConstructorGuard, a marker that lets value objects,
// commands and aggregates detect that they were built as a zero value instead
// of through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created via their
// constructor. The zero value is "not constructed".
//
// Example:
//
//	var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine")
//
//	type Line struct {
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewLine(quantity int) (Line, error) {
//	    if quantity <= 0 {
//	        return Line{}, errors.New("quantity must be positive")
//	    }
//	    return Line{quantity: quantity, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (l Line) Validate() error {
//	    return l.guard.Validate(ErrLineIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded object was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
