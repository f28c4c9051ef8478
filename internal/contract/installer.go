package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalInstaller installs dependencies with the package manager a working copy uses.
type LocalInstaller struct{}

var _ Installer = &LocalInstaller{} // Compile-time check

// NewLocalInstaller creates a new installer backed by locally installed package managers.
func NewLocalInstaller() *LocalInstaller {
	return &LocalInstaller{}
}

// PackageManager returns "yarn" when the working copy has a yarn lockfile, otherwise "npm".
func PackageManager(dir string) string {
	if _, err := os.Stat(filepath.Join(dir, "yarn.lock")); err == nil {
		return "yarn"
	}
	return "npm"
}

// Install implements the Installer interface.
func (i *LocalInstaller) Install(ctx context.Context, dir string) error {
	tool := PackageManager(dir)
	cmd := exec.CommandContext(ctx, tool, "install")
	cmd.Dir = dir
	if _, err := cmd.Output(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s install failed in %q: %s", tool, dir, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return fmt.Errorf("%s install failed: %w. Ensure %s is installed and available on your PATH", tool, err, tool)
	}
	return nil
}
