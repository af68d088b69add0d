package container

import (
	"errors"
	"os"
	"os/exec"
)

// ErrNoRuntime is returned when no container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need docker or podman)")

// DetectRuntime finds an available container runtime.
// RIGGER_RUNTIME forces a specific binary; otherwise docker is checked first,
// then podman. Verifies the binary actually works by running `<runtime> version`.
func DetectRuntime() (string, error) {
	candidates := []string{"docker", "podman"}
	if forced := os.Getenv("RIGGER_RUNTIME"); forced != "" {
		candidates = []string{forced}
	}

	for _, bin := range candidates {
		if _, err := exec.LookPath(bin); err != nil {
			continue
		}
		cmd := exec.Command(bin, "version")
		if err := cmd.Run(); err != nil {
			continue
		}
		return bin, nil
	}
	return "", ErrNoRuntime
}
