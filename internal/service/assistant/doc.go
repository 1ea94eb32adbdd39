// Package assistant wires the voice assistant together and runs its
// foreground command loop: one bounded listen-and-dispatch turn at a time,
// preempted by emergency signals. The loop owns the single audio capture
// device; reminders and transient-file cleanup run on background loops that
// never touch it.
package assistant
