package expect

import (
	"github.com/networkteam/staycheck/driver"
)

// PageAssertions asserts on the current page of a driver.
type PageAssertions struct {
	a *Assertions
	d driver.Driver
}

// Page starts assertions on the page shown by d.
func (a *Assertions) Page(d driver.Driver) *PageAssertions {
	return &PageAssertions{a: a, d: d}
}

// ToHaveURL asserts the current location.
func (p *PageAssertions) ToHaveURL(m Matcher) bool {
	p.a.t.Helper()

	if err := p.a.poll("page", "to have url", m.String(), p.d.URL, m.Match); err != nil {
		return p.a.fail(err)
	}
	return true
}
