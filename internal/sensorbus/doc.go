// Package sensorbus maintains the MQTT connection to the home sensor broker.
//
// It normalizes incoming sensor messages into two typed signals on the shared
// state (temperature sample, fall detected), owns the bounded reconnection
// policy and publishes lights-state commands best effort.
package sensorbus
