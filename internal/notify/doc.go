// Package notify fans caregiver alerts out across the configured delivery
// channels, aggregating independent per-channel outcomes. The voice channel
// is a sub-pipeline (transcode, then upload) whose failures degrade to the
// already-sent text alert.
package notify
