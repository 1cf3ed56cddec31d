// Package validation checks the pipeline's boundaries: input files before
// the run starts and the aggregated KPI table before anything is exported.
package validation

import (
	"fmt"
	"log/slog"
	"os"

	perrors "chartpulse/internal/errors"
)

// InputValidator checks that the configured source files exist before any
// transformation begins. A missing source file aborts the run up front.
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates a new input validator
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{
		logger: logger,
	}
}

// ValidateInputFiles checks that every required path is an existing regular
// file. Optional paths may be empty and are skipped.
func (v *InputValidator) ValidateInputFiles(required []string, optional []string) error {
	for _, path := range required {
		if err := v.checkFile(path); err != nil {
			return perrors.NewIO("validate_inputs", fmt.Sprintf("required input %s", path), err)
		}
	}
	for _, path := range optional {
		if path == "" {
			continue
		}
		if err := v.checkFile(path); err != nil {
			v.logger.Warn("optional input missing, dependent features will be skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (v *InputValidator) checkFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", path)
	}
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created and is writable.
func (v *InputValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := dir + "/.write_test"
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(testFile)

	return nil
}
