// Build helper for xcrel.
// Usage:
//
//	go run ./tools/build              # stripped build
//	go run ./tools/build -verbose     # unstripped
//	go run ./tools/build -version 1.2.0
//
// Without -version the binary is stamped with `git describe --tags`.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/magefile/mage/sh"
)

func main() {
	verbose := flag.Bool("verbose", false, "build without -s -w")
	version := flag.String("version", "", "version stamped into the binary")
	flag.Parse()

	goos := envOr("GOOS", runtime.GOOS)
	goarch := envOr("GOARCH", runtime.GOARCH)
	out := "xcrel"
	if goos == "windows" {
		out += ".exe"
	}

	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to determine working directory: %v\n", err)
		os.Exit(1)
	}

	packagePath := filepath.Join(projectRoot, "src")
	if _, statErr := os.Stat(packagePath); statErr != nil {
		fmt.Fprintf(os.Stderr, "Package path %s not found: %v\n", packagePath, statErr)
		os.Exit(1)
	}

	if *version == "" {
		*version = describe()
	}

	ldflags := "-X main.appVersion=" + *version
	if !*verbose {
		ldflags = "-s -w " + ldflags
	}
	args := []string{"build", "-ldflags", ldflags, "-o", out}
	if !*verbose {
		args = append(args, "-trimpath")
	}
	args = append(args, "./src")

	fmt.Printf("Building xcrel %s for %s/%s -> %s\n", *version, goos, goarch, out)
	if err := sh.RunV("go", args...); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(sh.ExitStatus(err))
	}

	info, err := os.Stat(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output file missing after build\n")
		os.Exit(2)
	}
	fmt.Printf("Build succeeded. Output: %s (%d bytes)\n", out, info.Size())
}

// describe is the nearest tag plus distance, or "dev" outside a tagged checkout.
func describe() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
