package gate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/codegate-io/codegate/pkg/models"
)

// Request carries everything the generator needs for one attempt.
type Request struct {
	// Task is the original task prompt.
	Task string
	// Feedback is the synthesized directive from the previous attempt,
	// empty on the first attempt.
	Feedback string
	// Attempt is the 1-based attempt number.
	Attempt int
}

// Generation is what the generator collaborator returns for one attempt.
type Generation struct {
	Artifact *models.CodeArtifact
	Tokens   int64
}

// Generator produces a code artifact for a request. Implementations call
// out to a model provider and are expected to honor ctx deadlines.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Generation, error)
}

// Validator produces a validation report for an artifact.
type Validator interface {
	Validate(artifact *models.CodeArtifact) *models.ValidationReport
}

// Executor runs a generated artifact and reports its exit status.
type Executor interface {
	Execute(ctx context.Context, artifact *models.CodeArtifact) (*models.ExecutionResult, error)
}

// Assessor scores an artifact with an external model. The score is
// advisory only; it never affects the gate decision.
type Assessor interface {
	Assess(ctx context.Context, artifact *models.CodeArtifact) (*models.Assessment, int64, error)
}

// Orchestrator drives the generate-validate-decide loop for one run.
// Generation, validation, and deciding are strictly sequential within a
// run; each retry prompt depends on the previous report. Independent runs
// may execute concurrently, each with its own Orchestrator.
type Orchestrator struct {
	Config    Config
	Generator Generator
	Validator Validator

	// Executor is consulted per attempt when Config.ExecutionEnabled.
	Executor Executor
	// Assessor, when set, attaches AI scores to the artifact before
	// validation. Assessment failure is ignored; the scores are optional.
	Assessor Assessor
	// Stop, when set, is consulted before each attempt; returning true
	// finalizes the run with the best attempt so far.
	Stop func() bool
	// Synth overrides the default feedback synthesizer.
	Synth *Synthesizer

	// OnAttemptStart, when set, is called before each attempt begins.
	OnAttemptStart func(index, maxAttempts int)
	// OnAttemptDone, when set, is called after each attempt is decided.
	OnAttemptDone func(attempt *models.AttemptRecord, decision Decision)
}

// New creates an orchestrator with the required collaborators. Optional
// collaborators are set directly on the returned struct.
func New(cfg Config, gen Generator, val Validator) *Orchestrator {
	return &Orchestrator{
		Config:    cfg,
		Generator: gen,
		Validator: val,
		Synth:     NewSynthesizer(),
	}
}

// Run executes the quality-gated loop for a task. Collaborator failures
// are degraded into critical-issue attempts and the loop continues; the
// only error returned is an invalid configuration, reported before any
// attempt executes.
func (o *Orchestrator) Run(ctx context.Context, task string) (*models.RunResult, error) {
	if err := o.Config.Validate(); err != nil {
		return nil, err
	}

	synth := o.Synth
	if synth == nil {
		synth = NewSynthesizer()
	}

	tracker := NewTracker(o.Config)
	runID := "run-" + uuid.New().String()[:8]
	startedAt := time.Now()
	feedback := ""

	for index := 1; index <= o.Config.MaxAttempts; index++ {
		// Cancellation and external stop requests are honored between
		// attempts, never mid-validation.
		if ctx.Err() != nil {
			log.Printf("[gate] run %s cancelled before attempt %d", runID, index)
			break
		}
		if o.Stop != nil && o.Stop() {
			log.Printf("[gate] run %s stopped before attempt %d", runID, index)
			break
		}

		log.Printf("[gate] attempt %d/%d: generating", index, o.Config.MaxAttempts)
		if o.OnAttemptStart != nil {
			o.OnAttemptStart(index, o.Config.MaxAttempts)
		}
		attempt, ok := o.runAttempt(ctx, task, feedback, index)
		if !ok {
			// A mid-attempt cancellation leaves no valid report; the
			// partial attempt is discarded.
			log.Printf("[gate] run %s cancelled during attempt %d, discarding", runID, index)
			break
		}
		tracker.Record(attempt)

		decision := Decide(attempt, o.Config)
		log.Printf("[gate] attempt %d: %d critical, %d warning, %d passed -> %s",
			index, attempt.Report.CriticalCount(), attempt.Report.WarningCount(),
			attempt.Report.PassedCount(), decision)
		if o.OnAttemptDone != nil {
			o.OnAttemptDone(attempt, decision)
		}
		if decision != DecisionRetry {
			break
		}
		feedback = synth.Synthesize(&attempt.Report)
	}

	result := tracker.Finalize(runID, task, startedAt)
	log.Printf("[gate] run %s finished: %s after %d attempt(s)", runID, result.Status, len(result.Attempts))
	return result, nil
}

// runAttempt performs one generate-then-validate cycle. It returns
// ok=false only when the attempt was cut short by cancellation; every
// other failure degrades into a recorded attempt carrying a critical
// issue.
func (o *Orchestrator) runAttempt(ctx context.Context, task, feedback string, index int) (*models.AttemptRecord, bool) {
	attempt := &models.AttemptRecord{Index: index}

	genStart := time.Now()
	gen, err := o.Generator.Generate(ctx, Request{Task: task, Feedback: feedback, Attempt: index})
	attempt.GenerateDuration = time.Since(genStart)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		log.Printf("[gate] attempt %d: generation failed: %v", index, err)
		attempt.Report.Add(models.Critical(models.CategoryOther,
			fmt.Sprintf("generation failed: %v", err)))
		return attempt, true
	}

	artifact := gen.Artifact
	attempt.GenerationTokens = gen.Tokens

	if o.Config.ExecutionEnabled && o.Executor != nil {
		res, execErr := o.Executor.Execute(ctx, artifact)
		if execErr != nil {
			if ctx.Err() != nil {
				return nil, false
			}
			log.Printf("[gate] attempt %d: execution failed: %v", index, execErr)
			res = &models.ExecutionResult{ExitCode: -1, Output: execErr.Error()}
		}
		artifact.Execution = res
	}

	if o.Assessor != nil {
		assessment, tokens, assessErr := o.Assessor.Assess(ctx, artifact)
		if assessErr != nil {
			if ctx.Err() != nil {
				return nil, false
			}
			log.Printf("[gate] attempt %d: assessment unavailable: %v", index, assessErr)
		} else {
			artifact.Assessment = assessment
			attempt.ValidationTokens = tokens
		}
	}

	valStart := time.Now()
	report := o.Validator.Validate(artifact)
	attempt.ValidateDuration = time.Since(valStart)
	attempt.Artifact = *artifact
	attempt.Report = *report
	return attempt, true
}
