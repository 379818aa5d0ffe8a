// Package elements is the value-marshalling bridge between native Go code
// and the embedded guest scripting engine.
//
// # Overview
//
// The bridge reconciles two memory models. Guest handles are valid only
// while the engine scope that produced them is alive; host values must
// survive arbitrarily long after any engine call returns. Two types cover
// the two sides:
//
//   - ScopedValue: a transient, reference-counted wrapper around exactly
//     one guest handle, bound to the scope that produced it.
//   - Value: a persistent tagged union over booleans, integers, doubles,
//     objects, callables and elements, portable across scopes.
//
// # Quick start
//
//	engine := elements.New()
//	scope := engine.OpenScope()
//	defer scope.Close()
//
//	sv := elements.ScopedInt32(engine, 42)
//	sv.IsInt()     // true
//	sv.ToNumber()  // 42.0
//
//	// Persist for storage beyond the scope, rebuild later.
//	stored := sv.ToValue()
//	sv2, _ := elements.ScopedFromValue(engine, stored)
//
// # Elements
//
// An Element is a host-defined object exposed into the guest. Registration
// is identity-keyed: the wrapping guest object stores the element's stable
// identity in its single marker slot, and classification and unwrap both
// resolve through the engine registry.
//
//	el := elements.NewElement("Timeline")
//	sv := elements.ScopedFromElement(engine, el)
//	sv.IsElement()          // true
//	back, _ := sv.ToElement() // back == el
//
// # Conversions
//
// The generic layer maps handles to and from a closed set of native types,
// checked at compile time:
//
//	n, _ := elements.FromHandle[float64](engine, sv.Handle())
//	h, _ := elements.ToHandle(engine, "text")
//
// All conversion failures are *Error values with a discriminated Code;
// they are contract violations, never retried.
package elements
