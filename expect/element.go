package expect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/staycheck/driver"
)

// ElementAssertions asserts on a lazily located element.
type ElementAssertions struct {
	a  *Assertions
	el driver.Element
}

// Element starts assertions on el.
func (a *Assertions) Element(el driver.Element) *ElementAssertions {
	return &ElementAssertions{a: a, el: el}
}

func (e *ElementAssertions) check(assertion, expected string, read func(ctx context.Context) (string, error), accept func(string) bool) bool {
	e.a.t.Helper()

	if err := e.a.poll(e.el.Describe(), assertion, expected, read, accept); err != nil {
		return e.a.fail(err)
	}
	return true
}

func (e *ElementAssertions) checkBool(assertion string, want bool, read func(ctx context.Context) (bool, error)) bool {
	e.a.t.Helper()

	return e.check(assertion, strconv.FormatBool(want), func(ctx context.Context) (string, error) {
		v, err := read(ctx)
		return strconv.FormatBool(v), err
	}, func(s string) bool {
		return s == strconv.FormatBool(want)
	})
}

// ToBeVisible asserts the first match is visible.
func (e *ElementAssertions) ToBeVisible() bool {
	e.a.t.Helper()
	return e.checkBool("to be visible", true, e.el.Visible)
}

// ToBeHidden asserts no match is visible.
func (e *ElementAssertions) ToBeHidden() bool {
	e.a.t.Helper()
	return e.checkBool("to be hidden", false, e.el.Visible)
}

// ToBeEnabled asserts the first match is enabled.
func (e *ElementAssertions) ToBeEnabled() bool {
	e.a.t.Helper()
	return e.checkBool("to be enabled", true, e.el.Enabled)
}

// ToHaveText asserts the text of the first match.
func (e *ElementAssertions) ToHaveText(m Matcher) bool {
	e.a.t.Helper()
	return e.check("to have text", m.String(), e.el.Text, m.Match)
}

func (e *ElementAssertions) joinedTexts(ctx context.Context) (string, error) {
	texts, err := e.el.Texts(ctx)
	if err != nil {
		return "", err
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("%s: %w", e.el.Describe(), driver.ErrNotFound)
	}
	return strings.Join(texts, "\n"), nil
}

// ToContainText asserts the text of all matches contains sub.
func (e *ElementAssertions) ToContainText(sub string) bool {
	e.a.t.Helper()
	m := Contains(sub)
	return e.check("to contain text", m.String(), e.joinedTexts, m.Match)
}

// ToContainAllTexts asserts every substring occurs somewhere in the text of
// the matches, in any order. Each missing substring is reported on its own.
func (e *ElementAssertions) ToContainAllTexts(subs ...string) bool {
	e.a.t.Helper()

	missing := func(actual string) []string {
		return lo.Reject(subs, func(sub string, _ int) bool {
			return Contains(sub).Match(actual)
		})
	}
	err := e.a.poll(e.el.Describe(), "to contain all texts", fmt.Sprintf("%q", subs), e.joinedTexts, func(actual string) bool {
		return len(missing(actual)) == 0
	})
	if err == nil {
		return true
	}

	mismatch := err.(*MismatchError)
	for _, sub := range missing(mismatch.Actual) {
		e.a.fail(&MismatchError{
			Subject:   mismatch.Subject,
			Assertion: "to contain text",
			Expected:  Contains(sub).String(),
			Actual:    mismatch.Actual,
			Cause:     mismatch.Cause,
		})
	}
	return false
}

// ToHaveValue asserts the exact value of a form control.
func (e *ElementAssertions) ToHaveValue(want string) bool {
	e.a.t.Helper()
	m := Exactly(want)
	return e.check("to have value", m.String(), e.el.Value, m.Match)
}

// ToHaveAttribute asserts an attribute of the first match.
func (e *ElementAssertions) ToHaveAttribute(name string, m Matcher) bool {
	e.a.t.Helper()
	read := func(ctx context.Context) (string, error) {
		return e.el.Attribute(ctx, name)
	}
	return e.check(fmt.Sprintf("to have attribute %q", name), m.String(), read, m.Match)
}

// ToHaveCount asserts the number of matches.
func (e *ElementAssertions) ToHaveCount(n int) bool {
	e.a.t.Helper()
	read := func(ctx context.Context) (string, error) {
		c, err := e.el.Count(ctx)
		return strconv.Itoa(c), err
	}
	want := strconv.Itoa(n)
	return e.check("to have count", want, read, func(s string) bool { return s == want })
}
