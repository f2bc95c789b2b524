package model

import (
	"errors"
	"fmt"

	"spiritgrid.ai/internal/protocol"
)

// RuleError is a structured rule-layer diagnostic. It carries one of the
// protocol error codes so transports and recorders can report it without
// string matching. Rule errors are always recovered locally; they suppress
// the offending action or computation and never abort a tick.
type RuleError struct {
	Code   string
	Ref    string // offending entity or command reference
	Detail string
}

func (e *RuleError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Ref, e.Detail)
}

func NewRuleError(code, ref, detail string) *RuleError {
	if !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
	}
	return &RuleError{Code: code, Ref: ref, Detail: detail}
}

// CodeOf extracts the protocol code from err, or "" if err carries none.
func CodeOf(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsCode reports whether err is a rule error with the given code.
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
