// Package presign checks that an object is reachable and produces a
// time-limited signed GET URL for it. A run moves through a linear
// lifecycle:
//
//	start → checking → signing → done
//	              ↘          ↘
//	               failed     failed
//
// A run reaches signing only when the check returns Accessible.
package presign

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/tomasbasham/presign/internal/log"
)

// Lifecycle states of a run.
const (
	StateStart    = "start"
	StateChecking = "checking"
	StateSigning  = "signing"
	StateDone     = "done"
	StateFailed   = "failed"
)

const (
	eventCheck    = "check"
	eventSign     = "sign"
	eventComplete = "complete"
	eventFail     = "fail"
)

// Pipeline wires a Checker, a Signer and a Reporter into a single run.
type Pipeline struct {
	checker  *Checker
	signer   *Signer
	reporter *Reporter
	log      log.Logger

	state string
}

// NewPipeline creates a Pipeline. A nil logger discards diagnostics.
func NewPipeline(checker *Checker, signer *Signer, reporter *Reporter, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Pipeline{
		checker:  checker,
		signer:   signer,
		reporter: reporter,
		log:      logger,
		state:    StateStart,
	}
}

// State returns the state the last run ended in.
func (p *Pipeline) State() string {
	return p.state
}

// Run validates req, checks the bucket and object, signs a URL and reports
// it. The returned error is the diagnostic of the stage that failed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*SignedURL, error) {
	p.state = StateStart
	if err := req.Validate(); err != nil {
		return nil, err
	}

	machine := p.newMachine()

	if err := machine.Event(ctx, eventCheck); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := p.checker.Check(ctx, req.Bucket, req.Object).Err(); err != nil {
		return nil, p.fail(ctx, machine, err)
	}

	if err := machine.Event(ctx, eventSign); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	res, err := p.signer.Sign(ctx, req.Bucket, req.Object, req.TTL)
	if err != nil {
		return nil, p.fail(ctx, machine, err)
	}
	if err := p.reporter.Report(res); err != nil {
		return nil, p.fail(ctx, machine, fmt.Errorf("failed to write report: %w", err))
	}

	if err := machine.Event(ctx, eventComplete); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return res, nil
}

// fail moves the machine to StateFailed and returns cause.
func (p *Pipeline) fail(ctx context.Context, machine *fsm.FSM, cause error) error {
	if err := machine.Event(ctx, eventFail); err != nil {
		p.log.Error(err, "failed to record pipeline failure")
	}
	return cause
}

func (p *Pipeline) newMachine() *fsm.FSM {
	events := fsm.Events{
		{Name: eventCheck, Src: []string{StateStart}, Dst: StateChecking},
		{Name: eventSign, Src: []string{StateChecking}, Dst: StateSigning},
		{Name: eventComplete, Src: []string{StateSigning}, Dst: StateDone},
		{Name: eventFail, Src: []string{StateChecking, StateSigning}, Dst: StateFailed},
	}

	callbacks := fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			p.state = e.Dst
			p.log.Debug("pipeline transition", "from", e.Src, "to", e.Dst)
		},
	}

	return fsm.NewFSM(StateStart, events, callbacks)
}
