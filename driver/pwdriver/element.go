package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/staycheck/driver"
)

// Element wraps a Playwright locator.
type Element struct {
	loc  playwright.Locator
	desc string
}

var _ driver.Element = (*Element)(nil)

func pageLocator(page playwright.Page, sel driver.Selector) playwright.Locator {
	var loc playwright.Locator
	switch sel.Kind {
	case driver.ByRole:
		opts := playwright.PageGetByRoleOptions{}
		if sel.Name != "" {
			opts.Name = sel.Name
			opts.Exact = playwright.Bool(sel.Exact)
		}
		if sel.Level > 0 {
			opts.Level = playwright.Int(sel.Level)
		}
		loc = page.GetByRole(playwright.AriaRole(sel.Role), opts)
	case driver.ByText:
		loc = page.GetByText(sel.Query, playwright.PageGetByTextOptions{Exact: playwright.Bool(sel.Exact)})
	case driver.ByTestID:
		loc = page.GetByTestId(sel.Query)
	default:
		loc = page.Locator(sel.Query)
	}
	return withHasText(loc, sel)
}

func nestedLocator(parent playwright.Locator, sel driver.Selector) playwright.Locator {
	var loc playwright.Locator
	switch sel.Kind {
	case driver.ByRole:
		opts := playwright.LocatorGetByRoleOptions{}
		if sel.Name != "" {
			opts.Name = sel.Name
			opts.Exact = playwright.Bool(sel.Exact)
		}
		if sel.Level > 0 {
			opts.Level = playwright.Int(sel.Level)
		}
		loc = parent.GetByRole(playwright.AriaRole(sel.Role), opts)
	case driver.ByText:
		loc = parent.GetByText(sel.Query, playwright.LocatorGetByTextOptions{Exact: playwright.Bool(sel.Exact)})
	case driver.ByTestID:
		loc = parent.GetByTestId(sel.Query)
	default:
		loc = parent.Locator(sel.Query)
	}
	return withHasText(loc, sel)
}

func withHasText(loc playwright.Locator, sel driver.Selector) playwright.Locator {
	if sel.HasText == "" {
		return loc
	}
	return loc.Filter(playwright.LocatorFilterOptions{HasText: sel.HasText})
}

// minReadTimeout keeps read timeouts above zero, which Playwright treats as
// no timeout at all.
const minReadTimeout = 50 * time.Millisecond

// readTimeout bounds single reads in milliseconds. Reads run inside
// driver.Poll, so one attempt should not outlast a poll interval.
func readTimeout() *float64 {
	return playwright.Float(float64(max(driver.PollInterval, minReadTimeout).Milliseconds()))
}

// wrap classifies Playwright errors into the driver error taxonomy.
func (e *Element) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s %s: %w: %w", op, e.desc, driver.ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, e.desc, err)
}

func (e *Element) Describe() string { return e.desc }

func (e *Element) Nth(index int) driver.Element {
	return &Element{loc: e.loc.Nth(index), desc: driver.NthDescription(e.desc, index)}
}

func (e *Element) First() driver.Element {
	return e.Nth(0)
}

func (e *Element) Find(sel driver.Selector) driver.Element {
	return &Element{loc: nestedLocator(e.loc, sel), desc: driver.Chain(e.desc, sel.String())}
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.wrap("click", e.loc.First().Click())
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.wrap("fill", e.loc.First().Fill(value))
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.loc.First().TextContent(playwright.LocatorTextContentOptions{Timeout: readTimeout()})
	return text, e.wrap("read text of", err)
}

func (e *Element) Texts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := e.loc.AllTextContents()
	return texts, e.wrap("read texts of", err)
}

func (e *Element) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := e.loc.First().InputValue(playwright.LocatorInputValueOptions{Timeout: readTimeout()})
	return value, e.wrap("read value of", err)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := e.loc.First().GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: readTimeout()})
	return value, e.wrap("read attribute "+name+" of", err)
}

func (e *Element) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := e.loc.Count()
	return n, e.wrap("count", err)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	visible, err := e.loc.First().IsVisible()
	return visible, e.wrap("check visibility of", err)
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	enabled, err := e.loc.First().IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: readTimeout()})
	return enabled, e.wrap("check enabled state of", err)
}

func (e *Element) WaitVisible(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("wait for %s: %w: %w", e.desc, driver.ErrNotVisible, err)
	}
	return e.wrap("wait for", err)
}
