// Package gitutil provides git hygiene helpers: commit message linting,
// commit creation, hook management, and repository status, all on top of
// go-git so no git binary is required.
package gitutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	"github.com/chainward/devkit/internal/config"
)

// ErrInvalidMessage is returned when a commit message fails validation.
var ErrInvalidMessage = errors.New("invalid commit message")

// Linter validates commit messages against conventional commit rules.
type Linter struct {
	rules config.CommitRules
}

// NewLinter returns a linter enforcing the given rules. Zero-value rules
// fall back to the defaults.
func NewLinter(rules config.CommitRules) *Linter {
	defaults := config.Default().Git.Commit
	if rules.MaxLength == 0 {
		rules.MaxLength = defaults.MaxLength
	}
	if len(rules.AllowedTypes) == 0 {
		rules.AllowedTypes = defaults.AllowedTypes
	}
	return &Linter{rules: rules}
}

// Validate returns ErrInvalidMessage (wrapped with the first problem
// found) when the message violates any rule, nil otherwise.
func (l *Linter) Validate(message string) error {
	if errs := l.Errors(message); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMessage, errs[0])
	}
	return nil
}

// Errors returns every rule violation in the message, in check order.
// An empty slice means the message is valid.
func (l *Linter) Errors(message string) []string {
	if strings.TrimSpace(message) == "" {
		return []string{"commit message cannot be empty"}
	}

	var errs []string

	header := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		header = message[:idx]
	}
	if len(header) > l.rules.MaxLength {
		errs = append(errs, fmt.Sprintf("header exceeds maximum length of %d characters", l.rules.MaxLength))
	}

	machine := parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesConventional))
	parsed, err := machine.Parse([]byte(header))
	if err != nil {
		errs = append(errs, "message does not follow conventional commit format (type(scope): description)")
		return errs
	}

	commit, ok := parsed.(*conventionalcommits.ConventionalCommit)
	if !ok || !parsed.Ok() {
		errs = append(errs, "message does not follow conventional commit format (type(scope): description)")
		return errs
	}

	if !l.typeAllowed(commit.Type) {
		errs = append(errs, fmt.Sprintf("invalid commit type %q, must be one of: %s",
			commit.Type, strings.Join(l.rules.AllowedTypes, ", ")))
	}

	return errs
}

func (l *Linter) typeAllowed(commitType string) bool {
	for _, allowed := range l.rules.AllowedTypes {
		if commitType == allowed {
			return true
		}
	}
	return false
}
