// SPDX-License-Identifier: GPL-3.0-only

package regdomain

import (
	"context"
	"fmt"
	"locale-tracker/commons"
	"os/exec"
	"strings"
	"sync"
	"time"
)

type Backend string

const (
	BackendIW  Backend = "iw"
	BackendLog Backend = "log"
)

// WorldDomain is the regulatory domain applied when no country is known.
const WorldDomain = "00"

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Setter applies country codes to the Wi-Fi regulatory domain.
type Setter struct {
	backend Backend
	iwPath  string
	timeout time.Duration
	run     Runner

	mu      sync.RWMutex
	current string
	applied bool
}

// New reads REGDOMAIN_BACKEND and IW_PATH.
func New() (*Setter, error) {
	backend := Backend(strings.ToLower(commons.GetEnv("REGDOMAIN_BACKEND", string(BackendLog))))
	return NewWithRunner(backend, commons.GetEnv("IW_PATH", "iw"), execRunner)
}

func NewWithRunner(backend Backend, iwPath string, run Runner) (*Setter, error) {
	switch backend {
	case BackendIW, BackendLog:
	default:
		return nil, fmt.Errorf("unsupported regulatory domain backend: %s", backend)
	}
	if run == nil {
		run = execRunner
	}
	return &Setter{
		backend: backend,
		iwPath:  iwPath,
		timeout: 5 * time.Second,
		run:     run,
	}, nil
}

// Domain maps a lower-case ISO country to the code the kernel expects.
func Domain(iso string) string {
	if iso == "" {
		return WorldDomain
	}
	return strings.ToUpper(iso)
}

func (s *Setter) SetCountryCode(iso string) error {
	domain := Domain(iso)

	switch s.backend {
	case BackendIW:
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		out, err := s.run(ctx, s.iwPath, "reg", "set", domain)
		if err != nil {
			commons.Logger.Errorf("iw reg set %s failed: %v: %s", domain, err, strings.TrimSpace(string(out)))
			return fmt.Errorf("set regulatory domain %s: %w", domain, err)
		}
		commons.Logger.Infof("Regulatory domain set to %s", domain)
	case BackendLog:
		commons.Logger.Infof("Regulatory domain would be set to %s (country %q)", domain, iso)
	}

	s.mu.Lock()
	s.current = iso
	s.applied = true
	s.mu.Unlock()
	return nil
}

// Current returns the last successfully applied country and whether any
// country has been applied yet.
func (s *Setter) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.applied
}

func (s *Setter) Backend() Backend {
	return s.backend
}
