package elements

import "github.com/google/uuid"

// Element is a host-defined object exposed into the guest engine. It is
// distinguished from plain guest objects by the identity recorded in the
// wrapping object's single marker slot at registration time.
//
// Elements are host-owned: the bridge never frees them and Value stores
// them as non-owning pointers.
type Element struct {
	id       uuid.UUID
	typeName string
}

// NewElement creates an element with a fresh stable identity.
func NewElement(typeName string) *Element {
	return &Element{id: uuid.New(), typeName: typeName}
}

// ID returns the element's stable identity, usable as marker payload.
func (el *Element) ID() uuid.UUID {
	return el.id
}

// TypeName returns the host-side type name of the element.
func (el *Element) TypeName() string {
	return el.typeName
}
