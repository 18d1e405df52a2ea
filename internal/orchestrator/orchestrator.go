// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator runs one conversion attempt as a state machine:
// validate the picked file, ask for a destination, stage the file with the
// backend, convert, and clean up.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/internal/validate"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// ErrBusy is returned by Run while another attempt is in flight.
var ErrBusy = errors.New("conversion already in progress")

const (
	msgCancelled         = "Save operation cancelled"
	msgAborted           = "Conversion cancelled"
	msgUnsupportedFormat = "Unsupported input file format"
)

// Bridge is the conversion backend.
type Bridge interface {
	// StageUploadedFile writes data under name in a working location and
	// returns the path the backend will read it from.
	StageUploadedFile(ctx context.Context, name string, data []byte) (string, error)

	// Convert runs one conversion.
	Convert(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error)

	// CleanupTempFiles discards everything staged so far.
	CleanupTempFiles(ctx context.Context) error
}

// DestinationChooser asks the user where to save the output. ok is false
// when the user cancels.
type DestinationChooser interface {
	ChooseSaveDestination(ctx context.Context, defaultName string, filter types.SaveFilter) (path string, ok bool, err error)
}

// Observer receives state changes and progress percentages. Progress never
// decreases within one attempt.
type Observer interface {
	StateChanged(s State)
	Progress(percent int)
}

// Recorder keeps finished attempts.
type Recorder interface {
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// Orchestrator runs conversion attempts one at a time.
type Orchestrator struct {
	bridge    Bridge
	chooser   DestinationChooser
	validator *validate.Validator
	log       *logbuf.Logger
	recorder  Recorder
	now       func() time.Time

	mu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for the attempt log and validation warnings.
func WithLogger(log *logbuf.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithRecorder stores a record of every finished attempt.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithClock sets the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New returns an Orchestrator converting through bridge and asking chooser
// for destinations.
func New(bridge Bridge, chooser DestinationChooser, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		bridge:  bridge,
		chooser: chooser,
		log:     logbuf.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.validator = validate.New(o.log)
	return o
}

// attempt holds the in-flight data of one Run.
type attempt struct {
	o   *Orchestrator
	sel types.FileInfo
	src Selection
	obs *progress

	from, to types.Format
	dest     string
	staged   string
	stageTry bool
	cleaned  bool

	outcome Outcome
}

// Run executes one attempt and always returns its Outcome. The only error
// is ErrBusy, when another attempt is still running. obs may be nil.
func (o *Orchestrator) Run(ctx context.Context, sel Selection, obs Observer) (Outcome, error) {
	if !o.mu.TryLock() {
		return Outcome{}, ErrBusy
	}
	defer o.mu.Unlock()

	started := o.now()
	a := &attempt{o: o, sel: sel.File, src: sel, obs: newProgress(obs)}
	a.runGuarded(ctx)
	safely(func() { o.record(ctx, a, started) })
	return a.outcome, nil
}

func (a *attempt) runGuarded(ctx context.Context) {
	defer func() {
		if v := recover(); v != nil {
			msg := errinfo.MessageOf(v)
			a.o.log.Error("Conversion aborted", map[string]any{"file": a.sel.Name, "panic": fmt.Sprint(v)}, nil)
			a.fail(errinfo.NewReport(errinfo.UnknownError, msg, nil))
			safely(func() { a.cleanup(ctx) })
			safely(func() { a.obs.state(Done) })
		}
	}()

	state := Validating
	for state != Done {
		a.obs.state(state)
		switch state {
		case Validating:
			state = a.validate()
		case Staging:
			state = a.stage(ctx)
		case Converting:
			state = a.convert(ctx)
		case Cleaning:
			state = a.cleanup(ctx)
		default:
			panic(fmt.Sprintf("orchestrator: unexpected state %s", state))
		}
	}
	if a.outcome.Succeeded() {
		a.obs.progress(ProgressDone)
	}
	a.obs.state(Done)
}

func (a *attempt) validate() State {
	a.obs.progress(ProgressValidating)
	a.o.log.Info("Starting conversion", map[string]any{"file": a.sel.Name, "size": a.sel.Size})

	if res := a.o.validator.File(a.sel); !res.IsValid {
		a.o.log.Warn("File validation failed", map[string]any{"file": a.sel.Name, "reason": res.Error})
		a.fail(errinfo.NewReport(errinfo.ValidationError, res.Error, map[string]any{"file": a.sel.Name}))
		return Done
	}
	return Staging
}

func (a *attempt) stage(ctx context.Context) State {
	from, ok := format.FromName(a.sel.Name)
	if !ok {
		a.fail(errinfo.NewReport(errinfo.UnsupportedFormat, msgUnsupportedFormat, map[string]any{"file": a.sel.Name}))
		return Done
	}
	to := a.src.Target
	if to == "" {
		to = format.DefaultTarget(from)
	}
	if !format.Supports(from, to) {
		a.fail(errinfo.NewReport(errinfo.UnsupportedFormat,
			fmt.Sprintf("Unsupported format conversion: %s to %s", from.DisplayName(), to.DisplayName()), nil))
		return Done
	}
	a.from, a.to = from, to
	a.outcome.OutputName = validate.SecureOutputName(a.sel.Name, to)
	a.obs.progress(ProgressResolved)

	dest, ok, err := a.o.chooser.ChooseSaveDestination(ctx, a.outcome.OutputName, format.SaveFilter(to))
	switch {
	case err != nil && ctx.Err() != nil:
		a.cancel(msgCancelled)
		return Done
	case err != nil:
		a.failErr("Choosing save destination failed", err)
		return Done
	case !ok || dest == "":
		a.cancel(msgCancelled)
		return Done
	}
	a.dest = dest
	a.obs.progress(ProgressChosen)

	data, err := a.src.read()
	if err != nil {
		a.failErr("Reading selected file failed", err)
		return Done
	}

	a.stageTry = true
	staged, err := a.o.bridge.StageUploadedFile(ctx, a.sel.Name, data)
	if err != nil {
		a.failErr("Staging file failed", err)
		return Cleaning
	}
	a.staged = staged
	a.obs.progress(ProgressStaged)
	return Converting
}

func (a *attempt) convert(ctx context.Context) State {
	req := types.ConversionRequest{
		InputPath:    a.staged,
		OutputPath:   a.dest,
		InputFormat:  a.from,
		OutputFormat: a.to,
	}
	a.outcome.Request = req
	a.obs.progress(ProgressConverting)

	result, err := a.o.bridge.Convert(ctx, req)
	if err != nil {
		a.failErr("Conversion request failed", err)
		return Cleaning
	}

	a.outcome.Result = result
	a.outcome.Converted = true
	a.outcome.Message = result.Message
	if result.Success {
		a.outcome.Status = StatusSuccess
		a.o.log.Info("Conversion succeeded", map[string]any{"output": result.OutputPath})
		return Cleaning
	}

	raw := result.Error
	if raw == "" {
		raw = result.Message
	}
	fields := map[string]any{"input": req.InputPath, "output": req.OutputPath}
	var report errinfo.Report
	if result.Code != "" {
		detail := result.Message
		if detail == "" {
			detail = raw
		}
		report = errinfo.NewReport(errinfo.Code(result.Code), detail, fields)
	} else {
		report = errinfo.FromMessage(raw, fields)
	}
	a.outcome.Status = StatusFailure
	a.outcome.Report = &report
	a.o.log.Error("Conversion failed", map[string]any{"code": string(report.Info.Code)}, errors.New(raw))
	return Cleaning
}

// cleanup runs once per attempt when staging was attempted. Its failure is
// logged and never changes the outcome.
func (a *attempt) cleanup(ctx context.Context) State {
	if !a.stageTry || a.cleaned {
		return Done
	}
	a.cleaned = true
	if err := a.o.bridge.CleanupTempFiles(context.WithoutCancel(ctx)); err != nil {
		a.o.log.Warn("Failed to cleanup temp files", map[string]any{"error": err.Error()})
	}
	return Done
}

func (a *attempt) cancel(msg string) {
	a.outcome.Status = StatusCancelled
	a.outcome.Message = msg
	a.outcome.Report = nil
	a.o.log.Info(msg, map[string]any{"file": a.sel.Name})
}

func (a *attempt) failErr(msg string, err error) {
	if errors.Is(err, context.Canceled) {
		a.cancel(msgAborted)
		return
	}
	report := errinfo.FromError(err, map[string]any{"file": a.sel.Name})
	a.o.log.Error(msg, map[string]any{"code": string(report.Info.Code)}, err)
	a.fail(report)
}

func (a *attempt) fail(report errinfo.Report) {
	a.outcome.Status = StatusFailure
	a.outcome.Message = report.UserMessage
	a.outcome.Report = &report
}

func (o *Orchestrator) record(ctx context.Context, a *attempt, started time.Time) {
	if o.recorder == nil {
		return
	}
	out := a.outcome
	rec := types.ConversionRecord{
		InputName:    a.sel.Name,
		InputFormat:  a.from,
		OutputFormat: a.to,
		Status:       out.Status.String(),
		Message:      out.Message,
		StartedAt:    started.UTC(),
		Duration:     o.now().Sub(started),
	}
	if out.Succeeded() {
		rec.OutputPath = out.Result.OutputPath
	}
	if out.Report != nil {
		rec.Code = string(out.Report.Info.Code)
	}
	if err := o.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		o.log.Warn("Failed to record conversion", map[string]any{"error": err.Error()})
	}
}

// safely runs f and drops any panic it raises.
func safely(f func()) {
	defer func() { _ = recover() }()
	f()
}

// progress forwards monotone progress to an Observer.
type progress struct {
	obs  Observer
	last int
}

func newProgress(obs Observer) *progress { return &progress{obs: obs} }

func (p *progress) progress(pct int) {
	if p.obs == nil || pct <= p.last {
		return
	}
	p.last = pct
	p.obs.Progress(pct)
}

func (p *progress) state(s State) {
	if p.obs != nil {
		p.obs.StateChanged(s)
	}
}
