// Package scheduler runs the phase-aligned reminder loop: one full store
// reload per wall-clock minute, firing each due reminder at most once per
// calendar day through the voice output.
package scheduler
