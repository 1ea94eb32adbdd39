package care

import "sync"

// temperatureHistorySize bounds the retained temperature samples.
const temperatureHistorySize = 2

// State is the shared mutable state written by background producers and read
// by the command loop. The sensor bus records temperature samples and signals
// falls; the emergency sequence reads and clears the fall flag. All access
// goes through accessor methods so the locking discipline lives in one place.
type State struct {
	// mu guards both the fall flag and the temperature history.
	mu sync.Mutex
	// fallSignaled is set by the sensor bus and cleared only when an
	// emergency sequence resolves.
	fallSignaled bool
	// temperatures holds at most the two most recent samples in arrival
	// order. The slice is replaced, never mutated in place, so readers
	// holding a returned copy never observe a torn state.
	temperatures []float64
}

// NewState returns an empty shared state.
func NewState() *State {
	return &State{}
}

// SignalFall marks that a fall has been detected. Idempotent.
func (s *State) SignalFall() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallSignaled = true
}

// FallSignaled reports whether a fall signal is pending.
func (s *State) FallSignaled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fallSignaled
}

// ClearFall resets the fall flag. Clearing an already-false flag is a no-op.
// A signal arriving after the clear simply re-arms the flag, causing the next
// dispatcher turn to re-enter the emergency sequence.
func (s *State) ClearFall() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallSignaled = false
}

// RecordTemperature appends a sample, evicting the oldest beyond the bound.
func (s *State) RecordTemperature(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]float64, 0, temperatureHistorySize)
	if len(s.temperatures) == temperatureHistorySize {
		next = append(next, s.temperatures[1:]...)
	} else {
		next = append(next, s.temperatures...)
	}

	s.temperatures = append(next, value)
}

// Temperatures returns a copy of the retained samples in arrival order.
func (s *State) Temperatures() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]float64, len(s.temperatures))
	copy(result, s.temperatures)

	return result
}

// LatestTemperature returns the most recent sample, if any.
func (s *State) LatestTemperature() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.temperatures) == 0 {
		return 0, false
	}

	return s.temperatures[len(s.temperatures)-1], true
}
