// Package config loads, validates and persists the YAML settings shared by
// the assistant binaries: broker connection and topics, caregiver channel
// credentials, command-table extensions and filesystem paths.
//
// Optional credentials degrade the corresponding feature to "not configured"
// instead of failing startup.
package config
