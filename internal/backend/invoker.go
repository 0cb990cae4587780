package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// DegradedStub is the content returned after every recovery path is
// exhausted. Callers branch on Success, never on this string.
const DegradedStub = "[analysis unavailable]"

// InvokeResult is the uniform outcome of one resilient invocation.
// Failures are data, not errors: the invoker never lets an exception
// escape to a stage.
type InvokeResult struct {
	Success bool
	Content string
	// Category classifies the terminal failure when Success is false.
	Category core.ErrorCategory
	Err      string
}

// Invoker wraps backend calls with retry, normalization, and structured
// extraction. A nil Invoker is valid and reports no backend configured.
type Invoker struct {
	primary core.Backend
	backup  core.Backend
	policy  *RetryPolicy
	// attemptTimeout bounds one backend call. Zero means the caller's
	// context is the only bound.
	attemptTimeout time.Duration
	log            *logging.Logger
}

// Options configures an Invoker.
type Options struct {
	Backup         core.Backend
	Policy         *RetryPolicy
	AttemptTimeout time.Duration
	Logger         *logging.Logger
}

// NewInvoker creates an invoker over a primary backend.
func NewInvoker(primary core.Backend, opts Options) *Invoker {
	if opts.Policy == nil {
		opts.Policy = DefaultRetryPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Invoker{
		primary:        primary,
		backup:         opts.Backup,
		policy:         opts.Policy,
		attemptTimeout: opts.AttemptTimeout,
		log:            opts.Logger,
	}
}

// Available reports whether any backend can be called.
func (inv *Invoker) Available() bool {
	return inv != nil && inv.primary != nil
}

// Invoke sends the instruction context and returns normalized text.
func (inv *Invoker) Invoke(ctx context.Context, turns []core.Turn) InvokeResult {
	return inv.run(ctx, turns, nil)
}

// InvokeStructured sends the instruction context and decodes a JSON object
// from the reply into v. A reply with no extractable object counts as a
// failed attempt and is retried like a transport error.
func (inv *Invoker) InvokeStructured(ctx context.Context, turns []core.Turn, v any) InvokeResult {
	return inv.run(ctx, turns, v)
}

func (inv *Invoker) run(ctx context.Context, turns []core.Turn, v any) InvokeResult {
	if !inv.Available() {
		return InvokeResult{
			Success:  false,
			Content:  DegradedStub,
			Category: core.ErrCatBackend,
			Err:      "no backend configured",
		}
	}

	content, err := inv.runBackend(ctx, inv.primary, turns, v)
	if err != nil && inv.backup != nil && shouldFailover(err) {
		inv.log.WithBackend(inv.backup.Name()).Warn("primary backend exhausted, switching to backup",
			"cause", err.Error())
		content, err = inv.runBackend(ctx, inv.backup, turns, v)
	}
	if err != nil {
		cat := terminalCategory(err)
		inv.log.Error("invocation exhausted all recovery paths",
			"category", string(cat), "error", err.Error())
		return InvokeResult{
			Success:  false,
			Content:  DegradedStub,
			Category: cat,
			Err:      err.Error(),
		}
	}
	return InvokeResult{Success: true, Content: content}
}

// runBackend drives the retry loop against one backend and returns the
// normalized (and, when v is non-nil, decoded) content.
func (inv *Invoker) runBackend(ctx context.Context, b core.Backend, turns []core.Turn, v any) (string, error) {
	log := inv.log.WithBackend(b.Name())
	var content string

	attempt := 0
	err := inv.policy.Execute(ctx, func(ctx context.Context) error {
		attempt++
		actx := ctx
		if inv.attemptTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, inv.attemptTimeout)
			defer cancel()
		}

		raw, err := b.Invoke(actx, turns)
		if err != nil {
			classified := ClassifyInvokeError(err)
			log.Warn("backend attempt failed",
				"attempt", attempt, "error", classified.Error())
			return classified
		}

		text, err := Normalize(raw)
		if err != nil {
			log.Warn("backend response could not be normalized", "attempt", attempt)
			return err
		}
		if v != nil {
			if jsonErr := ExtractJSON(text, v); jsonErr != nil {
				log.Warn("no structured payload in backend reply",
					"attempt", attempt, "error", jsonErr.Error())
				return core.ErrMalformedOutput("reply carried no decodable JSON object").WithCause(jsonErr)
			}
		}
		content = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// shouldFailover decides whether the backup backend gets a chance. Malformed
// output is a model problem the backup may not share, so it fails over too;
// caller cancellation does not.
func shouldFailover(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// terminalCategory maps the final error to the failure taxonomy.
func terminalCategory(err error) core.ErrorCategory {
	var exhausted *RetryExhaustedError
	if errors.As(err, &exhausted) && exhausted.LastErr != nil {
		err = exhausted.LastErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.ErrCatTimeout
	}
	switch core.GetCategory(err) {
	case core.ErrCatMalformed:
		return core.ErrCatMalformed
	case core.ErrCatTimeout:
		return core.ErrCatTimeout
	default:
		return core.ErrCatBackend
	}
}

// ClassifyInvokeError converts raw backend errors to domain errors by
// inspecting the message, mirroring how CLI wrappers triage their output.
func ClassifyInvokeError(err error) error {
	var de *core.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrTimeout("backend call exceeded its deadline").WithCause(err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, []string{"timeout", "deadline"}) {
		return core.ErrTimeout(err.Error()).WithCause(err)
	}
	return core.ErrBackendUnavailable(err.Error()).WithCause(err)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
