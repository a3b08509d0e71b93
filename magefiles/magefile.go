//go:build mage

// Package main provides build targets for formulacalc using Mage.
//
// Usage:
//
//	mage build       Compile the formulacalc binary to bin/
//	mage install     Install formulacalc to GOPATH/bin
//	mage test:all    Run all tests
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Write coverage.out and print per-function coverage
//	mage lint        Run golangci-lint
//	mage sample      Build, then create a sample database under .formulacalc/
//	mage clean       Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "formulacalc"
	binaryDir  = "bin"
	cmdDir     = "./cmd/formulacalc"
	coverFile  = "coverage.out"
	sampleDir  = ".formulacalc"
)

// Build compiles the formulacalc binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath())
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Sample creates a local config and database holding the sample sheet.
func Sample() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(),
		"--config-dir", filepath.Join(sampleDir, "config"),
		"--data-dir", filepath.Join(sampleDir, "data"),
		"init", "--sample")
}

// Clean removes build artifacts, coverage output, and the sample database.
func Clean() error {
	for _, path := range []string{binaryDir, coverFile, sampleDir} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Test groups test targets.
type Test mg.Namespace

// All runs every package's tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs every package's tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover writes a coverage profile and prints the per-function summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverFile)
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
