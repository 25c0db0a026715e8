//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/wpstat"
	binPath    = "./bin/wpstat"
)

// Default target - build the binary
var Default = Build

// Build builds the wpstat binary with version information
func Build() error {
	header("Build")
	if err := os.MkdirAll("bin", 0o750); err != nil {
		return err
	}

	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, gitVersion(), gitCommit(), time.Now().UTC().Format(time.RFC3339))
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/wpstat"); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Println("✓ Built:", binPath)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	header("Clean")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Rm("coverage.out")
}

// QA runs formatting, vet, lint, tests and build
func QA() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci, Test.All, Build)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Format fails when gofmt would change a file
func (Lint) Format() error {
	header("Format")
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) != "" {
		return fmt.Errorf("files need formatting:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	header("Vet")
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when installed
func (Lint) Golangci() error {
	header("Golangci-lint")
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println("⚠ golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	header("Tests")
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	header("Test Coverage")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs tests with race detector
func (Test) Race() error {
	header("Race Detector")
	return sh.RunV("go", "test", "-race", "./...")
}

func header(title string) {
	fmt.Printf("\n━━ %s ━━\n", title)
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil || out == "" {
		return "dev"
	}
	return out
}

func gitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || out == "" {
		return "unknown"
	}
	return out
}
