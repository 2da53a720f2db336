package timer

import (
	"errors"
	"strings"
)

// ErrNotConfigurable is returned by callers that refuse to reconfigure a
// session that has already been started.
var ErrNotConfigurable = errors.New("session has started; reset the timer to configure settings")

// ConfigError carries the per-bank validation failures of a Config.
// A nil field means that bank is valid.
type ConfigError struct {
	Bank1 error
	Bank2 error
}

func (e *ConfigError) Error() string {
	var parts []string
	if e.Bank1 != nil {
		parts = append(parts, "bank 1: "+e.Bank1.Error())
	}
	if e.Bank2 != nil {
		parts = append(parts, "bank 2: "+e.Bank2.Error())
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Unwrap exposes both bank errors to errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error {
	var errs []error
	if e.Bank1 != nil {
		errs = append(errs, e.Bank1)
	}
	if e.Bank2 != nil {
		errs = append(errs, e.Bank2)
	}
	return errs
}

// For returns the error for one bank.
func (e *ConfigError) For(key BankKey) error {
	if key == Bank2 {
		return e.Bank2
	}
	return e.Bank1
}
