// Package mutation implements the form edit algebra.
//
// Every operation takes a form value and returns a new one; the input is never
// modified. Only the edited path (form, section slice, edited section's field
// slice) is copied, untouched sections are shared with the input.
//
// Operations on a section or field that does not exist return the input
// unchanged together with applied == false. Stale ids are common in an
// interactively edited tree, so a miss is reported rather than raised.
//
// Sequence position is the source of truth for ordering. Section.Order is
// re-stamped from position after every structural change.
package mutation
