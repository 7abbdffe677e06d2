//go:build mage

// Package main contains Mage build targets for catalog-parquet developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the converter expects.
var projectDirs = []string{
	"outputs",
	"samples",
}

// Init creates the project directory structure for the converter.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "catalog-parquet"
	cmdPkg  = "./cmd/catalog-parquet"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Convert builds the CLI and runs it on the generated sample catalog.
func Convert() error {
	mg.Deps(Build, Sample)
	return sh.RunV(filepath.Join(binDir, binName), "-f", samplePath, "--output-dir", "outputs")
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, testLines, docWords := 0, 0, 0
	err := walkProject(".", func(path string, data []byte) {
		switch {
		case strings.HasSuffix(path, "_test.go"):
			testLines += countLines(data)
		case strings.HasSuffix(path, ".go"):
			prodLines += countLines(data)
		case strings.HasSuffix(path, ".md"), strings.HasSuffix(path, ".yaml"):
			docWords += len(bytes.Fields(data))
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// walkProject calls fn with the contents of every regular file under root,
// skipping directories the go tool ignores (leading "." or "_") and build
// output.
func walkProject(root string, fn func(path string, data []byte)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fn(path, data)
		return nil
	})
}

// countLines counts non-blank lines in data.
func countLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
