// Package exam models the exam workflow: case identity, the ordered
// scout -> planning -> reconstruction -> scan gate, and the case catalog.
package exam

import (
	"strings"
)

// CaseID identifies a case with hierarchical path semantics, e.g.
// "Abdomen/CT Abdomen Contrast/case_001". The segments are
// region / protocol display name / case name.
type CaseID string

func (id CaseID) String() string { return string(id) }

// Region returns the first path segment, or "" if absent.
func (id CaseID) Region() string {
	return id.segment(0)
}

// ProtocolName returns the second path segment, or "" if absent.
func (id CaseID) ProtocolName() string {
	return id.segment(1)
}

// Name returns the last path segment.
func (id CaseID) Name() string {
	parts := strings.Split(string(id), "/")
	return parts[len(parts)-1]
}

func (id CaseID) segment(i int) string {
	parts := strings.Split(string(id), "/")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}
