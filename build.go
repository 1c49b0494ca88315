//go:build ignore

// build.go - Credit Loss Density build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, server, report, test, bench, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "creditdensity"

var (
	distDir = "dist"

	// key = cmd directory, value = output binary name
	executables = map[string]string{
		"credit-density": "credit-density",
		"density-report": "density-report",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if runtime.GOOS == "windows" {
		for name, exe := range executables {
			executables[name] = exe + ".exe"
		}
	}

	printInfo(fmt.Sprintf("%s build (%s/%s)", module, runtime.GOOS, runtime.GOARCH))
	startTime := time.Now()

	var err error
	switch *target {
	case "all":
		for _, name := range []string{"credit-density", "density-report"} {
			if err = buildExecutable(name, *verbose); err != nil {
				break
			}
		}
	case "server":
		err = buildExecutable("credit-density", *verbose)
	case "report":
		err = buildExecutable("density-report", *verbose)
	case "test":
		err = runGo(*verbose, "test", "-race", "./...")
	case "bench":
		err = runGo(*verbose, "test", "-run", "^$", "-bench", ".", "-benchmem", "./internal/...")
	case "clean":
		err = os.RemoveAll(distDir)
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func buildExecutable(name string, verbose bool) error {
	exeName := executables[name]
	printInfo(fmt.Sprintf("Building %s...", name))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		return err
	}

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, time.Now().UTC().Format(time.RFC3339), gitCommit())

	if err := runGo(verbose, "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
	return nil
}

func runGo(verbose bool, args ...string) error {
	if verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func printInfo(msg string)    { fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg) }
func printSuccess(msg string) { fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg) }
func printError(msg string)   { fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg) }

func showHelp() {
	fmt.Printf("%sUsage:%s go run build.go -target=TARGET [-v]\n\n", colorYellow, colorReset)
	fmt.Println("Targets:")
	fmt.Println("  all     build credit-density and density-report (default)")
	fmt.Println("  server  build the HTTP service")
	fmt.Println("  report  build the batch report CLI")
	fmt.Println("  test    run all tests with the race detector")
	fmt.Println("  bench   run the pipeline benchmarks")
	fmt.Println("  clean   remove the dist directory")
}
