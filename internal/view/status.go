// Package view models the visibility state shared by both front-ends:
//
//	Idle → Loading → {Success, Error}
//
// Loading shows the progress indicator and hides the banner. Success hides
// the indicator. Error hides the indicator and shows exactly one line of
// text whose wording depends on the Kind.
package view

import (
	"encoding/json"
	"fmt"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

func (p Phase) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, c := range []Phase{Idle, Loading, Success, Error} {
		if c.String() == s {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("view: unknown phase %q", s)
}

// Kind distinguishes the banner messages. Only Transport is a failure;
// EmptyResult and EndOfData are informational.
type Kind int

const (
	None Kind = iota
	Transport
	EmptyResult
	EndOfData
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case EmptyResult:
		return "empty_result"
	case EndOfData:
		return "end_of_data"
	default:
		return ""
	}
}

func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, c := range []Kind{None, Transport, EmptyResult, EndOfData} {
		if c.String() == s {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("view: unknown kind %q", s)
}

// Banner texts.
const (
	MsgTransport   = "Could not load games. Please try again later."
	MsgEmptyResult = "No games match your search."
	MsgEndOfData   = "No more games to load."
	MsgNoStudents  = "No students registered."
	MsgNoMatches   = "No students match your search."
)

// Status is a snapshot of the machine, safe to copy into responses.
type Status struct {
	Phase   Phase  `json:"phase"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Loading reports whether the progress indicator is visible.
func (s Status) Loading() bool { return s.Phase == Loading }

// Banner reports whether the error banner is visible.
func (s Status) Banner() bool { return s.Phase == Error && s.Message != "" }

// Failed reports a transport failure, as opposed to an informational banner.
func (s Status) Failed() bool { return s.Phase == Error && s.Kind == Transport }

// Begin enters Loading and clears any banner. The returned finish func must
// be deferred by the caller: if the operation returns (or panics) without
// calling Succeed or Fail, finish drops the machine to Idle so the
// indicator never stays visible.
func (s *Status) Begin() (finish func()) {
	*s = Status{Phase: Loading}
	return func() {
		if s.Phase == Loading {
			*s = Status{Phase: Idle}
		}
	}
}

func (s *Status) Succeed() {
	*s = Status{Phase: Success}
}

// Fail shows the banner for kind. An empty message selects the default
// text for that kind.
func (s *Status) Fail(kind Kind, message string) {
	if message == "" {
		message = DefaultMessage(kind)
	}
	*s = Status{Phase: Error, Kind: kind, Message: message}
}

// Reset returns to Idle, e.g. when the banner is dismissed.
func (s *Status) Reset() {
	*s = Status{Phase: Idle}
}

func DefaultMessage(kind Kind) string {
	switch kind {
	case Transport:
		return MsgTransport
	case EmptyResult:
		return MsgEmptyResult
	case EndOfData:
		return MsgEndOfData
	default:
		return ""
	}
}
