// Package dashboard assembles the data behind each dashboard view.
//
// Loaders talk to the expense API through small consumer-side interfaces and
// return an explicit State instead of loading/fetched flags, so templates can
// render every phase including failure.
package dashboard

import "fmt"

// Phase is the lifecycle position of a view's data.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Reason says why a view failed.
type Reason string

const (
	ReasonFetch      Reason = "fetch"
	ReasonEnrichment Reason = "enrichment"
	ReasonNotFound   Reason = "not_found"
	ReasonCancelled  Reason = "cancelled"
)

// State is the data of one view together with its phase. Data is only
// meaningful when the phase is PhaseReady; Reason and Err only when it is
// PhaseFailed.
type State[T any] struct {
	Phase  Phase
	Data   T
	Reason Reason
	Err    error
}

func Idle[T any]() State[T] { return State[T]{Phase: PhaseIdle} }

func Loading[T any]() State[T] { return State[T]{Phase: PhaseLoading} }

func Ready[T any](data T) State[T] { return State[T]{Phase: PhaseReady, Data: data} }

func Failed[T any](reason Reason, err error) State[T] {
	return State[T]{Phase: PhaseFailed, Reason: reason, Err: err}
}

func (s State[T]) IsLoading() bool { return s.Phase == PhaseLoading }
func (s State[T]) IsReady() bool   { return s.Phase == PhaseReady }
func (s State[T]) IsFailed() bool  { return s.Phase == PhaseFailed }

// Message is a short user-facing description of a failure.
func (s State[T]) Message() string {
	if s.Phase != PhaseFailed {
		return ""
	}
	switch s.Reason {
	case ReasonEnrichment:
		return "Some expenses could not be loaded."
	case ReasonNotFound:
		return "This expense does not exist."
	case ReasonCancelled:
		return "The request was cancelled."
	default:
		return "The expense service is not reachable right now."
	}
}
