// Package model wraps the trained ONNX predictors the assessment pipelines
// treat as opaque numeric oracles: a rate-of-spread regressor and a fire
// occurrence classifier. Sessions are stateful and not safe for concurrent
// Run calls, so each wrapper serializes inference behind a mutex; everything
// downstream of the oracle is pure and needs no locking.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// ensureRuntime initializes the process-wide onnxruntime environment once.
// Model files can ship next to a bundled shared library; libDir is probed
// before the usual system locations.
func ensureRuntime(libDir string) error {
	runtimeOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		libPath := resolveSharedLibraryPath(libDir)
		if libPath == "" {
			runtimeErr = fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			runtimeErr = fmt.Errorf("initialize onnxruntime: %w", err)
		}
	})
	return runtimeErr
}

// resolveSharedLibraryPath locates a platform-specific onnxruntime shared
// library. ONNXRUNTIME_SHARED_LIBRARY_PATH wins if set; otherwise common
// names and locations are probed.
func resolveSharedLibraryPath(libDir string) string {
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.so",
		"onnxruntime.so",
		"libonnxruntime.dylib",
		"onnxruntime.dylib",
		"onnxruntime.dll",
	}
	dirs := []string{
		libDir,
		filepath.Join(libDir, "lib"),
		".",
		"/usr/local/lib",
		"/usr/lib",
		"/opt/homebrew/lib",
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
