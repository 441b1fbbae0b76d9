// Package orchestrator sequences validation, transmission, progress and
// normalization for one upload request and exposes a single outcome: a
// canonical result or a classified error.
package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"go-medscan/internal/client"
	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/logger"
	"go-medscan/internal/normalize"
	"go-medscan/internal/progress"
	"go-medscan/internal/validation"
	"go-medscan/pkg/models"

	"github.com/sirupsen/logrus"
)

// State is where a request currently sits in its lifecycle
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateTransmitting   State = "transmitting"
	StateAwaitingResult State = "awaiting_result"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

// Orchestrator runs one upload request at a time through
// Idle → Validating → Transmitting → AwaitingResult → Succeeded | Failed.
// Each request owns a fresh progress tracker; independent requests get
// independent orchestrators and share no mutable state.
type Orchestrator struct {
	validator *validation.UploadValidator
	upload    client.UploadFunc
	reporter  progress.Reporter

	inFlight atomic.Bool
	mu       sync.Mutex
	state    State
}

// New creates an orchestrator bound to one upload endpoint. The reporter may
// be nil when no caller is rendering progress.
func New(validator *validation.UploadValidator, upload client.UploadFunc, reporter progress.Reporter) *Orchestrator {
	return &Orchestrator{
		validator: validator,
		upload:    upload,
		reporter:  reporter,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run takes a request from submission to resolution. Validation failures
// short-circuit before any network activity; every failure path returns a
// classified OperationError, never a raw transport error. Errors are not
// recovered from: a failed request needs a fresh submission.
func (o *Orchestrator) Run(ctx context.Context, req *models.UploadRequest) (*models.AnalysisResult, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.NewValidationError("A request is already in progress", nil)
	}
	defer o.inFlight.Store(false)

	tracker := progress.NewTracker(o.reporter)

	o.setState(StateValidating)
	if outcome := o.validator.Validate(req); !outcome.Accepted {
		o.setState(StateFailed)
		tracker.Report(progress.PhaseFailed, 0)
		logger.WithFields(logrus.Fields{
			"operation": req.Operation,
			"reason":    outcome.Reason,
		}).Warn("Upload rejected before transmission")
		return nil, apperrors.NewValidationError(outcome.Reason, nil)
	}

	o.setState(StateTransmitting)
	body, err := o.upload(ctx, req, func(phase progress.Phase, percent int) {
		if phase == progress.PhaseProcessing {
			// All upload bytes are out; the server is presumed working
			o.setState(StateAwaitingResult)
		}
		tracker.Report(phase, percent)
	})
	if err != nil {
		opErr := apperrors.Classify(err)
		o.setState(StateFailed)
		tracker.Report(progress.PhaseFailed, tracker.Current().Percent)
		logger.WithError(opErr).WithFields(logrus.Fields{
			"operation": req.Operation,
			"kind":      opErr.Kind,
		}).Error("Upload failed")
		return nil, opErr
	}

	o.setState(StateAwaitingResult)
	result := normalize.Normalize(body, req.Operation)

	o.setState(StateSucceeded)
	tracker.Report(progress.PhaseComplete, 100)
	logger.WithFields(logrus.Fields{
		"operation": req.Operation,
		"medicines": len(result.Medicines),
	}).Info("Upload analyzed")

	return &result, nil
}
