//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles both executables into ./bin
func Build() error {
	mg.Deps(BuildGenerator, BuildMerger)
	fmt.Println("Compilation finished")
	return nil
}

func BuildGenerator() error {
	fmt.Println("Building generator executable...")
	return goCommand("build", "-o", "./bin/generator", "./generator")
}

func BuildMerger() error {
	fmt.Println("Building merger executable...")
	return goCommand("build", "-o", "./bin/merger", "./merger")
}

// Test runs the unit tests of every package
func Test() error {
	fmt.Println("Running tests...")
	return goCommand("test", "./...")
}

// Generate builds the generator and writes modular_setup_clinical.json
func Generate() error {
	mg.Deps(BuildGenerator)
	cmd := exec.Command("./bin/generator")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// goCommand runs the go tool with the CGO flags HDF5 needs
func goCommand(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
