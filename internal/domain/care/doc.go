// Package care contains core domain types for the assistant business logic.
//
// It defines the shared State object (fall flag and bounded temperature
// history with enforced locking discipline) and the transient alert values
// exchanged between the dispatcher, the emergency sequence and the
// notification fan-out.
package care
