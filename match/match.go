// Package match provides matchers for subjects and the fractures they report.
// The matchers work with gomega's Expect as well as with impspec's Recorder:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/impspec/match"
//	)
//
//	_, err := subject.Call("withdraw", 10)
//	g.Expect(err).To(BeFracture(impspec.KindMethodNotVisible))
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/impspec/internal/core"
)

// Matcher defines the interface for flexible value matching.
// It is the same shape as gomega.GomegaMatcher.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
	NegatedFailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeFracture matches an error that is, or wraps, a fracture of the given kind.
func BeFracture(kind core.Kind) Matcher {
	return &fractureMatcher{kind: kind}
}

// HaveLabel matches an error that is, or wraps, a fracture with the given label.
func HaveLabel(label string) Matcher {
	return &labelMatcher{label: label}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var (
	errNotAnError   = errors.New("not an error")
	errTypeMismatch = errors.New("type mismatch")
)

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to match anything, but BeAny matches everything", actual)
}

type fractureMatcher struct {
	kind core.Kind
}

func (m *fractureMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a %s fracture, got %s", m.kind, describe(actual))
}

func (m *fractureMatcher) Match(actual any) (bool, error) {
	fracture, err := asFracture(actual)
	if err != nil {
		return false, err
	}

	return fracture != nil && fracture.Kind == m.kind, nil
}

func (m *fractureMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected anything but a %s fracture, got %s", m.kind, describe(actual))
}

type labelMatcher struct {
	label string
}

func (m *labelMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a fracture labeled %q, got %s", m.label, describe(actual))
}

func (m *labelMatcher) Match(actual any) (bool, error) {
	fracture, err := asFracture(actual)
	if err != nil {
		return false, err
	}

	return fracture != nil && fracture.Label == m.label, nil
}

func (m *labelMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected a fracture not labeled %q, got %s", m.label, describe(actual))
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfyMatcher[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("value %v satisfies predicate, but should not", actual)
}

// asFracture extracts a fracture from actual. A nil error holds no fracture.
func asFracture(actual any) (*core.Fracture, error) {
	if actual == nil {
		return nil, nil
	}

	err, ok := actual.(error)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotAnError, actual)
	}

	var fracture *core.Fracture
	if errors.As(err, &fracture) {
		return fracture, nil
	}

	return nil, nil
}

func describe(actual any) string {
	if err, ok := actual.(error); ok {
		var fracture *core.Fracture
		if errors.As(err, &fracture) {
			return fmt.Sprintf("a %s fracture %q labeled %q", fracture.Kind, fracture.Message, fracture.Label)
		}

		return fmt.Sprintf("error %q", err.Error())
	}

	return fmt.Sprintf("%#v", actual)
}
