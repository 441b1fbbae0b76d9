package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"go-medscan/internal/client"
	"go-medscan/internal/orchestrator"
	"go-medscan/internal/progress"
	"go-medscan/internal/validation"
	"go-medscan/pkg/models"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// buildUploadRequest reads a local file into an immutable upload request.
// The MIME type is taken from the extension when known; the validator sniffs
// the content otherwise.
func buildUploadRequest(path string, operation models.Operation) (*models.UploadRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &models.UploadRequest{
		Filename:         filepath.Base(path),
		DeclaredMIMEType: mime.TypeByExtension(filepath.Ext(path)),
		SizeBytes:        int64(len(content)),
		Content:          content,
		Operation:        operation,
	}, nil
}

// barReporter renders transfer progress as a terminal bar, re-labelled as the
// request moves through its phases
func barReporter(filename string) progress.Reporter {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Uploading "+filename),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowBytes(false),
	)

	return func(phase progress.Phase, percent int) {
		switch phase {
		case progress.PhaseUploading:
			bar.Describe("Uploading " + filename)
		case progress.PhaseProcessing:
			bar.Describe("Processing " + filename)
		case progress.PhaseComplete:
			bar.Describe("Complete")
		case progress.PhaseFailed:
			bar.Describe("Failed")
		}
		_ = bar.Set(percent)
		if phase.Terminal() {
			_ = bar.Finish()
		}
	}
}

// runUploads drives one or more files through the full pipeline. A single
// file gets an interactive progress bar; multiple files run concurrently
// through the pool, each request with its own orchestrator and progress
// state.
func runUploads(cmd *cobra.Command, paths []string, operation models.Operation, processVariant bool, concurrency int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient := client.NewClient(cfg, tokenProvider(cfg))
	validator := validation.NewUploadValidatorWithLimit(cfg.MaxUploadSize)
	upload := apiClient.Endpoint(operation, processVariant)
	out := cmd.OutOrStdout()

	if len(paths) == 1 {
		return runSingleUpload(cmd, paths[0], operation, validator, upload, out)
	}

	type outcome struct {
		path   string
		result *models.AnalysisResult
		err    error
	}

	outcomes := make([]outcome, len(paths))
	var mu sync.Mutex

	pool := orchestrator.NewPool(concurrency)
	pool.Start()
	for i, path := range paths {
		i, path := i, path
		pool.Submit(func() {
			o := outcome{path: path}
			req, err := buildUploadRequest(path, operation)
			if err != nil {
				o.err = err
			} else {
				orch := orchestrator.New(validator, upload, nil)
				o.result, o.err = orch.Run(cmd.Context(), req)
			}
			mu.Lock()
			outcomes[i] = o
			mu.Unlock()
		})
	}
	pool.CloseAndWait()

	failed := 0
	for _, o := range outcomes {
		fmt.Fprintf(out, "==> %s\n", o.path)
		if o.err != nil {
			failed++
			fmt.Fprintf(out, "error: %v\n\n", o.err)
			continue
		}
		renderAnalysis(out, o.result)
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

func runSingleUpload(cmd *cobra.Command, path string, operation models.Operation, validator *validation.UploadValidator, upload client.UploadFunc, out io.Writer) error {
	req, err := buildUploadRequest(path, operation)
	if err != nil {
		return err
	}

	orch := orchestrator.New(validator, upload, barReporter(req.Filename))
	result, err := orch.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	renderAnalysis(out, result)
	return nil
}

// renderAnalysis prints the canonical result. Match scores arrive as 0-1
// fractions and are converted to percentages here, at presentation time.
func renderAnalysis(w io.Writer, result *models.AnalysisResult) {
	if len(result.Medicines) == 0 {
		fmt.Fprintln(w, "No medicines detected.")
	} else {
		fmt.Fprintf(w, "Detected medicines (%d):\n", len(result.Medicines))
		for _, med := range result.Medicines {
			name := med.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(w, "  - %s", name)
			if med.Dosage != "" {
				fmt.Fprintf(w, " — %s", med.Dosage)
			}
			if med.Timing != "" {
				fmt.Fprintf(w, " (%s)", med.Timing)
			}
			fmt.Fprintln(w)
			if med.MatchedCanonicalName != "" {
				fmt.Fprintf(w, "    matched: %s", med.MatchedCanonicalName)
				if med.MatchScore != nil {
					fmt.Fprintf(w, " (%.0f%%)", *med.MatchScore*100)
				}
				fmt.Fprintln(w)
			} else if med.MatchScore != nil {
				fmt.Fprintf(w, "    match confidence: %.0f%%\n", *med.MatchScore*100)
			}
			if med.Summary != "" {
				fmt.Fprintf(w, "    %s\n", med.Summary)
			}
			if med.Uses != "" {
				fmt.Fprintf(w, "    uses: %s\n", med.Uses)
			}
			if med.SideEffects != "" {
				fmt.Fprintf(w, "    side effects: %s\n", med.SideEffects)
			}
		}
	}

	if len(result.OtherEntities) > 0 {
		fmt.Fprintln(w, "Other details:")
		for _, e := range result.OtherEntities {
			fmt.Fprintf(w, "  %s: %s\n", e.Label, e.Text)
		}
	}

	if result.RawText != "" {
		fmt.Fprintf(w, "OCR text:\n%s\n", result.RawText)
	}

	if result.ConfidencePercent != nil {
		fmt.Fprintf(w, "OCR confidence: %.1f%%\n", *result.ConfidencePercent)
	}
	if result.IsHandwritten != nil {
		if *result.IsHandwritten {
			fmt.Fprintln(w, "Source: handwritten")
		} else {
			fmt.Fprintln(w, "Source: printed")
		}
	}
}
