// Package drivertest provides an in-memory driver.Session for unit tests of
// page objects, assertions and the scenario runner.
package drivertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/networkteam/staycheck/driver"
)

// Node is the fake state of one matched element.
type Node struct {
	Text     string
	Value    string
	Attrs    map[string]string
	Hidden   bool
	Disabled bool
}

// Session is a scripted fake browser session. Elements are registered by
// their description (see driver.Element.Describe) and never change unless a
// click handler or a fill mutates them.
type Session struct {
	mu        sync.Mutex
	baseURL   string
	url       string
	nodes     map[string][]*Node
	onClick   map[string]func(s *Session)
	onNav     func(s *Session, path string)
	actions   []string
	appErrors []error
	closed    bool

	// Unreachable makes Navigate fail with driver.ErrUnreachable.
	Unreachable bool
}

var _ driver.Session = (*Session)(nil)

// New creates an empty session with the given base URL.
func New(baseURL string) *Session {
	return &Session{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		nodes:   make(map[string][]*Node),
		onClick: make(map[string]func(s *Session)),
	}
}

// Set registers the nodes matched by the element described by desc.
func (s *Session) Set(desc string, nodes ...*Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[desc] = nodes
}

// Remove forgets all nodes of desc.
func (s *Session) Remove(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, desc)
}

// OnClick installs a handler run when the element described by desc is clicked.
func (s *Session) OnClick(desc string, fn func(s *Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClick[desc] = fn
}

// OnNavigate installs a handler run after every successful Navigate, e.g. to
// reset form fields the way a page load does.
func (s *Session) OnNavigate(fn func(s *Session, path string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNav = fn
}

// SetURL changes the current location, e.g. from a click handler.
func (s *Session) SetURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = u
}

// RaiseAppError records an uncaught application error.
func (s *Session) RaiseAppError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appErrors = append(s.appErrors, err)
}

// Actions returns the performed actions in order, e.g. "click role=button".
func (s *Session) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Navigate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.Unreachable {
		s.mu.Unlock()
		return fmt.Errorf("navigate %s: %w", path, driver.ErrUnreachable)
	}
	u, err := url.JoinPath(s.baseURL, path)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.url = u
	s.actions = append(s.actions, "navigate "+path)
	fn := s.onNav
	s.mu.Unlock()

	if fn != nil {
		fn(s, path)
	}
	return nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, ctx.Err()
}

func (s *Session) Find(sel driver.Selector) driver.Element {
	return &Element{session: s, desc: sel.String()}
}

func (s *Session) AppErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := s.appErrors
	s.appErrors = nil
	return errs
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Element is a fake element reference.
type Element struct {
	session *Session
	desc    string
	// nth narrows the matches of desc one index at a time.
	nth []int
}

var _ driver.Element = (*Element)(nil)

func (e *Element) Describe() string {
	desc := e.desc
	for _, i := range e.nth {
		desc = driver.NthDescription(desc, i)
	}
	return desc
}

func (e *Element) Nth(index int) driver.Element {
	nth := append(append(make([]int, 0, len(e.nth)+1), e.nth...), index)
	return &Element{session: e.session, desc: e.desc, nth: nth}
}

func (e *Element) First() driver.Element {
	return e.Nth(0)
}

func (e *Element) Find(sel driver.Selector) driver.Element {
	return &Element{session: e.session, desc: driver.Chain(e.Describe(), sel.String())}
}

// matches returns the nodes of e; callers hold the session lock.
func (e *Element) matches() []*Node {
	nodes := e.session.nodes[e.desc]
	for _, i := range e.nth {
		if i < 0 || i >= len(nodes) {
			return nil
		}
		nodes = nodes[i : i+1]
	}
	return nodes
}

func (e *Element) first() (*Node, error) {
	nodes := e.matches()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", e.Describe(), driver.ErrNotFound)
	}
	return nodes[0], nil
}

func (e *Element) actionable() (*Node, error) {
	n, err := e.first()
	if err != nil {
		return nil, err
	}
	if n.Hidden {
		return nil, fmt.Errorf("%s: %w", e.Describe(), driver.ErrNotVisible)
	}
	if n.Disabled {
		return nil, fmt.Errorf("%s: %w", e.Describe(), driver.ErrNotEnabled)
	}
	return n, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := e.session
	s.mu.Lock()
	if _, err := e.actionable(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.actions = append(s.actions, "click "+e.Describe())
	fn := s.onClick[e.Describe()]
	s.mu.Unlock()

	if fn != nil {
		fn(s)
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := e.actionable()
	if err != nil {
		return err
	}
	n.Value = value
	s.actions = append(s.actions, fmt.Sprintf("fill %s %q", e.Describe(), value))
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return "", err
	}
	return n.Text, ctx.Err()
}

func (e *Element) Texts(ctx context.Context) ([]string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	var texts []string
	for _, n := range e.matches() {
		texts = append(texts, n.Text)
	}
	return texts, ctx.Err()
}

func (e *Element) Value(ctx context.Context) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return "", err
	}
	return n.Value, ctx.Err()
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return "", err
	}
	return n.Attrs[name], ctx.Err()
}

func (e *Element) Count(ctx context.Context) (int, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	return len(e.matches()), ctx.Err()
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return false, nil
	}
	return !n.Hidden, ctx.Err()
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return false, err
	}
	return !n.Disabled, ctx.Err()
}

func (e *Element) WaitVisible(ctx context.Context) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	n, err := e.first()
	if err != nil {
		return err
	}
	if n.Hidden {
		return fmt.Errorf("%s: %w", e.Describe(), driver.ErrNotVisible)
	}
	return ctx.Err()
}

// Launcher hands out sessions built by a factory.
type Launcher struct {
	mu       sync.Mutex
	factory  func() *Session
	sessions []*Session
	closed   bool
	// Err makes NewSession fail.
	Err error
}

var _ driver.Launcher = (*Launcher)(nil)

// NewLauncher creates a launcher calling factory for every session.
func NewLauncher(factory func() *Session) *Launcher {
	return &Launcher{factory: factory}
}

func (l *Launcher) Name() string { return "fake" }

func (l *Launcher) NewSession(ctx context.Context) (driver.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	s := l.factory()
	l.sessions = append(l.sessions, s)
	return s, nil
}

// Sessions returns every session handed out so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
