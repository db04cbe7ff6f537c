// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for the boxoffice project using Mage.
//
// Usage:
//
//	mage build          Compile boxoffice binary to bin/
//	mage install        Install boxoffice to GOPATH/bin
//	mage clean          Remove build artifacts
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write coverage.out and print the total
//	mage lint           Run golangci-lint
//	mage vet            Run go vet
//	mage run -- <args>  Build, then run boxoffice with args
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "boxoffice"
	binaryDir  = "bin"
	cmdDir     = "./cmd/boxoffice"
)

// Default target when mage is run without arguments.
var Default = Build

// Build compiles the boxoffice binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Clean removes build artifacts and export output.
func Clean() error {
	for _, path := range []string{binaryDir, coverProfile, "boxoffice-export"} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Run builds boxoffice and runs it with the arguments after "--".
func Run() error {
	mg.Deps(Build)
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	return sh.RunV(filepath.Join(binaryDir, binaryName), args...)
}
