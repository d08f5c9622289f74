package cdpdriver

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/networkteam/staycheck/driver"
)

// Element is a chain of lookups evaluated in the page on every use.
type Element struct {
	session *Session
	chain   []link
	desc    string
}

var _ driver.Element = (*Element)(nil)

func (e *Element) Describe() string { return e.desc }

func (e *Element) with(l link, desc string) *Element {
	chain := make([]link, len(e.chain), len(e.chain)+1)
	copy(chain, e.chain)
	return &Element{session: e.session, chain: append(chain, l), desc: desc}
}

func (e *Element) Nth(index int) driver.Element {
	// An index narrows the last lookup instead of adding a new one.
	chain := make([]link, len(e.chain))
	copy(chain, e.chain)
	last := &chain[len(chain)-1]
	last.Nth = append(append(make([]int, 0, len(last.Nth)+1), last.Nth...), index)
	return &Element{session: e.session, chain: chain, desc: driver.NthDescription(e.desc, index)}
}

func (e *Element) First() driver.Element {
	return e.Nth(0)
}

func (e *Element) Find(sel driver.Selector) driver.Element {
	return e.with(link{Sel: sel}, driver.Chain(e.desc, sel.String()))
}

func (e *Element) probe(ctx context.Context, o op, arg string) (probe, error) {
	script, err := probeScript(e.chain, o, arg)
	if err != nil {
		return probe{}, driver.Stop(err)
	}
	var res probe
	if err := e.session.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return probe{}, fmt.Errorf("evaluating %s: %w", e.desc, err)
	}
	return res, nil
}

// await polls until the first match satisfies the actionability checks.
func (e *Element) await(ctx context.Context, o op, arg string, visible, enabled bool) (probe, error) {
	var res probe
	err := driver.Poll(ctx, e.session.timeout, func() error {
		var err error
		res, err = e.probe(ctx, o, arg)
		switch {
		case err != nil:
			return err
		case !res.Found:
			return fmt.Errorf("%s: %w", e.desc, driver.ErrNotFound)
		case visible && !res.Visible:
			return fmt.Errorf("%s: %w", e.desc, driver.ErrNotVisible)
		case enabled && !res.Enabled:
			return fmt.Errorf("%s: %w", e.desc, driver.ErrNotEnabled)
		case o == opFill && !res.Done:
			return fmt.Errorf("%s: fill not applied: %w", e.desc, driver.ErrNotVisible)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("%w (after %s): %w", err, e.session.timeout, driver.ErrTimeout)
	}
	return res, nil
}

func (e *Element) Click(ctx context.Context) error {
	res, err := e.await(ctx, opPoint, "", true, true)
	if err != nil {
		return fmt.Errorf("click: %w", err)
	}
	if err := e.session.run(ctx, chromedp.MouseClickXY(res.X, res.Y)); err != nil {
		return fmt.Errorf("click %s: %w", e.desc, err)
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if _, err := e.await(ctx, opFill, value, true, true); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	res, err := e.await(ctx, opText, "", false, false)
	return res.Text, err
}

func (e *Element) Texts(ctx context.Context) ([]string, error) {
	res, err := e.probe(ctx, opTexts, "")
	return res.Texts, err
}

func (e *Element) Value(ctx context.Context) (string, error) {
	res, err := e.await(ctx, opValue, "", false, false)
	return res.Value, err
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	res, err := e.await(ctx, opAttr, name, false, false)
	return res.Value, err
}

func (e *Element) Count(ctx context.Context) (int, error) {
	res, err := e.probe(ctx, opState, "")
	return res.Count, err
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	res, err := e.probe(ctx, opState, "")
	return res.Found && res.Visible, err
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	res, err := e.await(ctx, opState, "", false, false)
	return res.Enabled, err
}

func (e *Element) WaitVisible(ctx context.Context) error {
	_, err := e.await(ctx, opState, "", true, false)
	return err
}
