package cdpdriver

import (
	"encoding/json"
	"fmt"

	"github.com/networkteam/staycheck/driver"
)

// link is one lookup in an element chain. Each entry of Nth picks one match
// of what the previous entry left, so [2, 0] is the third match and [2, 1]
// is nothing. Empty keeps all matches.
type link struct {
	Sel driver.Selector `json:"sel"`
	Nth []int           `json:"nth,omitempty"`
}

// probe is what the in-page script reports about a chain.
type probe struct {
	Count   int      `json:"count"`
	Found   bool     `json:"found"`
	Visible bool     `json:"visible"`
	Enabled bool     `json:"enabled"`
	Text    string   `json:"text"`
	Texts   []string `json:"texts"`
	Value   string   `json:"value"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Done    bool     `json:"done"`
}

type op string

const (
	opState op = "state"
	opText  op = "text"
	opTexts op = "texts"
	opValue op = "value"
	opAttr  op = "attr"
	opPoint op = "point"
	opFill  op = "fill"
)

// probeJS resolves a chain of selectors the way Playwright locators do
// (role, accessible name, test id, text) and performs one operation on the
// result.
const probeJS = `(chain, op, arg) => {
  const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
  const matches = (text, want, exact) => exact
    ? norm(text) === norm(want)
    : norm(text).toLowerCase().includes(norm(want).toLowerCase());
  const roles = {
    button: 'button, input[type=button], input[type=submit], input[type=reset], [role=button]',
    link: 'a[href], area[href], [role=link]',
    textbox: 'input:not([type]), input[type=text], input[type=email], input[type=tel], input[type=url], input[type=search], input[type=number], textarea, [role=textbox]',
    heading: 'h1, h2, h3, h4, h5, h6, [role=heading]',
    navigation: 'nav, [role=navigation]',
    contentinfo: 'footer, [role=contentinfo]',
    option: 'option, [role=option]',
  };
  const accessibleName = (el) => {
    const aria = el.getAttribute('aria-label');
    if (aria) return aria;
    const by = el.getAttribute('aria-labelledby');
    if (by) {
      return by.split(/\s+/).map((id) => {
        const ref = document.getElementById(id);
        return ref ? ref.textContent : '';
      }).join(' ');
    }
    if (el.matches('input, textarea, select')) {
      if (el.id) {
        const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
        if (label) return label.textContent;
      }
      const wrapping = el.closest('label');
      if (wrapping) return wrapping.textContent;
      if (el.type === 'submit' || el.type === 'button' || el.type === 'reset') return el.value;
      return el.getAttribute('placeholder') || el.getAttribute('title') || '';
    }
    return el.textContent || el.getAttribute('title') || '';
  };
  const level = (el) => {
    const m = /^H([1-6])$/.exec(el.tagName);
    return m ? Number(m[1]) : Number(el.getAttribute('aria-level') || 0);
  };
  const query = (root, sel) => {
    let els = [];
    switch (sel.kind) {
      case 'testid':
        els = Array.from(root.querySelectorAll('[data-testid="' + CSS.escape(sel.query) + '"]'));
        break;
      case 'role':
        els = Array.from(root.querySelectorAll(roles[sel.role] || '[role="' + sel.role + '"]'));
        if (sel.role === 'contentinfo') {
          els = els.filter((el) => el.matches('[role=contentinfo]') || !el.parentElement.closest('article, aside, main, nav, section'));
        }
        if (sel.level) els = els.filter((el) => level(el) === sel.level);
        if (sel.name) els = els.filter((el) => matches(accessibleName(el), sel.name, sel.exact));
        break;
      case 'text': {
        const hit = (el) => !['SCRIPT', 'STYLE', 'HEAD', 'TITLE'].includes(el.tagName) && matches(el.textContent, sel.query, sel.exact);
        els = Array.from(root.querySelectorAll('*')).filter(hit)
          .filter((el) => !Array.from(el.children).some(hit));
        break;
      }
      default:
        els = Array.from(root.querySelectorAll(sel.query));
    }
    if (sel.hasText) els = els.filter((el) => matches(el.textContent, sel.hasText, false));
    return els;
  };
  let current = [document];
  for (const step of chain) {
    const next = [];
    for (const root of current) {
      for (const el of query(root, step.sel)) {
        if (!next.includes(el)) next.push(el);
      }
    }
    current = next;
    for (const n of step.nth || []) {
      const i = n < 0 ? current.length + n : n;
      current = i >= 0 && i < current.length ? [current[i]] : [];
    }
  }
  const els = current;
  const isVisible = (el) => {
    const r = el.getBoundingClientRect();
    const st = window.getComputedStyle(el);
    return r.width > 0 && r.height > 0 && st.visibility !== 'hidden' && st.display !== 'none';
  };
  const res = { count: els.length, found: els.length > 0 };
  if (op === 'texts') {
    res.texts = els.map((el) => el.textContent || '');
    return res;
  }
  if (!res.found) return res;
  const el = els[0];
  res.visible = isVisible(el);
  res.enabled = !(el.disabled || el.getAttribute('aria-disabled') === 'true');
  switch (op) {
    case 'text':
      res.text = el.textContent || '';
      break;
    case 'value':
      res.value = el.value === undefined || el.value === null ? '' : String(el.value);
      break;
    case 'attr':
      res.value = el.getAttribute(arg) || '';
      break;
    case 'point': {
      el.scrollIntoView({ block: 'center', inline: 'center' });
      const r = el.getBoundingClientRect();
      res.x = r.left + r.width / 2;
      res.y = r.top + r.height / 2;
      break;
    }
    case 'fill':
      if (res.visible && res.enabled) {
        el.focus();
        const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
        Object.getOwnPropertyDescriptor(proto, 'value').set.call(el, arg);
        el.dispatchEvent(new Event('input', { bubbles: true }));
        el.dispatchEvent(new Event('change', { bubbles: true }));
        res.done = true;
      }
      break;
  }
  return res;
}`

// probeScript renders the expression evaluated in the page.
func probeScript(chain []link, o op, arg string) (string, error) {
	chainJSON, err := json.Marshal(chain)
	if err != nil {
		return "", fmt.Errorf("encoding selector chain: %w", err)
	}
	argJSON, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("encoding argument: %w", err)
	}
	return fmt.Sprintf("(%s)(%s, %q, %s)", probeJS, chainJSON, string(o), argJSON), nil
}
