//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binaryName = "corpustrans"

var Default = Build

// Build compiles the corpustrans binary into the repository root
func Build() error {
	fmt.Println("Building", binaryName)
	return sh.RunV("go", "build", "-o", binaryName, "./cmd/corpustrans")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install runs the tests and installs the binary into GOBIN
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/corpustrans")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binaryName)
}
