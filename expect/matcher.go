package expect

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides whether an observed string satisfies an expectation.
type Matcher interface {
	Match(actual string) bool
	String() string
}

// Normalize collapses runs of whitespace and trims the result, the way
// rendered text is compared.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type equalMatcher string

// Equal matches text equal to want after whitespace normalization.
func Equal(want string) Matcher {
	return equalMatcher(want)
}

func (m equalMatcher) Match(actual string) bool {
	return Normalize(actual) == Normalize(string(m))
}

func (m equalMatcher) String() string {
	return fmt.Sprintf("%q", string(m))
}

type exactMatcher string

// Exactly matches want byte for byte. Form values are compared this way.
func Exactly(want string) Matcher {
	return exactMatcher(want)
}

func (m exactMatcher) Match(actual string) bool {
	return actual == string(m)
}

func (m exactMatcher) String() string {
	return fmt.Sprintf("exactly %q", string(m))
}

type containsMatcher string

// Contains matches text containing sub after whitespace normalization.
func Contains(sub string) Matcher {
	return containsMatcher(sub)
}

func (m containsMatcher) Match(actual string) bool {
	return strings.Contains(Normalize(actual), Normalize(string(m)))
}

func (m containsMatcher) String() string {
	return fmt.Sprintf("containing %q", string(m))
}

type patternMatcher struct {
	re *regexp.Regexp
}

// Pattern matches text against re.
func Pattern(re *regexp.Regexp) Matcher {
	return patternMatcher{re: re}
}

// MatchString compiles expr and matches text against it. It panics on an
// invalid expression, like regexp.MustCompile.
func MatchString(expr string) Matcher {
	return Pattern(regexp.MustCompile(expr))
}

func (m patternMatcher) Match(actual string) bool {
	return m.re.MatchString(actual)
}

func (m patternMatcher) String() string {
	return "/" + m.re.String() + "/"
}
