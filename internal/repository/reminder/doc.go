// Package reminder persists daily voice reminders to sqlite.
//
// It exposes a Repository interface consumed by the scheduler and the
// reminders CLI; scheduling logic lives elsewhere, this is pure data access.
package reminder
