package assistant

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/logger"
)

// brokerStartGrace is how long the broker gets to come up after the
// startup script before the process list is checked again.
const brokerStartGrace = 7 * time.Second

// BrokerLauncher brings the local sensor-bus broker process up before the
// bus client dials it. It is a best-effort hint: the bus connection retry
// budget remains the authority on whether the bus is usable.
type BrokerLauncher struct {
	cfg config.BrokerConfig

	// listProcesses enumerates running processes; replaced in tests.
	listProcesses func() ([]ps.Process, error)
	grace         time.Duration
}

// NewBrokerLauncher builds a launcher for the configured broker.
func NewBrokerLauncher(cfg config.BrokerConfig) *BrokerLauncher {
	return &BrokerLauncher{
		cfg:           cfg,
		listProcesses: ps.Processes,
		grace:         brokerStartGrace,
	}
}

// Running reports whether the broker executable appears in the process list.
func (l *BrokerLauncher) Running() (bool, error) {
	processes, err := l.listProcesses()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processes {
		if process.Executable() == l.cfg.ProcessName {
			return true, nil
		}
	}

	return false, nil
}

// EnsureRunning starts the broker via the startup script when its process
// is absent, waits the grace period and reports whether the process is
// visible afterwards. Every failure is logged and swallowed.
func (l *BrokerLauncher) EnsureRunning(ctx context.Context) bool {
	running, err := l.Running()
	if err != nil {
		logger.WarnKV(ctx, "Could not inspect process list for broker", "error", err)
	}

	if running {
		logger.InfoKV(ctx, "Broker process already running", "process", l.cfg.ProcessName)

		return true
	}

	if l.cfg.StartupScript == "" {
		logger.Info(ctx, "No broker startup script configured, relying on connection retries")

		return false
	}

	logger.InfoKV(ctx, "Starting broker", "script", l.cfg.StartupScript)

	if err := exec.CommandContext(ctx, l.cfg.StartupScript).Start(); err != nil {
		logger.ErrorKV(ctx, "Broker startup script failed", "script", l.cfg.StartupScript, "error", err)

		return false
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(l.grace):
	}

	running, err = l.Running()
	if err != nil {
		logger.WarnKV(ctx, "Could not inspect process list for broker", "error", err)

		return false
	}

	if !running {
		logger.WarnKV(ctx, "Broker process not visible after startup grace", "process", l.cfg.ProcessName)
	}

	return running
}
