package driver

import (
	"fmt"
	"strings"
)

// AriaRole is an ARIA role name as used for role based lookups.
type AriaRole string

const (
	RoleButton      AriaRole = "button"
	RoleLink        AriaRole = "link"
	RoleTextbox     AriaRole = "textbox"
	RoleHeading     AriaRole = "heading"
	RoleNavigation  AriaRole = "navigation"
	RoleContentinfo AriaRole = "contentinfo"
	RoleOption      AriaRole = "option"
)

// Kind is the lookup strategy of a Selector.
type Kind string

const (
	ByCSS    Kind = "css"
	ByRole   Kind = "role"
	ByText   Kind = "text"
	ByTestID Kind = "testid"
)

// Selector describes how elements are located. Build it with CSS, Role,
// Text or TestID and refine it with the With* methods.
type Selector struct {
	Kind  Kind     `json:"kind"`
	Query string   `json:"query,omitempty"`
	Role  AriaRole `json:"role,omitempty"`
	// Name is the accessible name for role lookups.
	Name string `json:"name,omitempty"`
	// Exact switches name and text matching from case-insensitive substring to
	// whitespace-normalized equality.
	Exact bool `json:"exact,omitempty"`
	// Level restricts heading lookups. Zero means any level.
	Level int `json:"level,omitempty"`
	// HasText keeps only matches whose text contains the value.
	HasText string `json:"hasText,omitempty"`
}

// CSS selects elements by CSS selector.
func CSS(query string) Selector {
	return Selector{Kind: ByCSS, Query: query}
}

// Role selects elements by ARIA role and accessible name. An empty name
// matches every element of the role.
func Role(role AriaRole, name string) Selector {
	return Selector{Kind: ByRole, Role: role, Name: name}
}

// Text selects the smallest elements containing text.
func Text(text string) Selector {
	return Selector{Kind: ByText, Query: text}
}

// TestID selects elements by their data-testid attribute.
func TestID(id string) Selector {
	return Selector{Kind: ByTestID, Query: id}
}

// WithExact requires exact name or text matches.
func (s Selector) WithExact() Selector {
	s.Exact = true
	return s
}

// WithLevel restricts a heading lookup to the given level.
func (s Selector) WithLevel(level int) Selector {
	s.Level = level
	return s
}

// WithHasText keeps only matches containing text.
func (s Selector) WithHasText(text string) Selector {
	s.HasText = text
	return s
}

// String renders the selector in a Playwright-like notation for messages.
func (s Selector) String() string {
	var b strings.Builder
	switch s.Kind {
	case ByRole:
		b.WriteString("role=" + string(s.Role))
		if s.Name != "" {
			fmt.Fprintf(&b, "[name=%q", s.Name)
			if s.Exact {
				b.WriteString("s")
			}
			b.WriteString("]")
		}
		if s.Level > 0 {
			fmt.Fprintf(&b, "[level=%d]", s.Level)
		}
	case ByText:
		fmt.Fprintf(&b, "text=%q", s.Query)
		if s.Exact {
			b.WriteString("s")
		}
	case ByTestID:
		fmt.Fprintf(&b, "testid=%q", s.Query)
	default:
		b.WriteString(s.Query)
	}
	if s.HasText != "" {
		fmt.Fprintf(&b, " >> has-text=%q", s.HasText)
	}
	return b.String()
}

// Chain joins element descriptions the way adapters describe nested lookups.
func Chain(parts ...string) string {
	return strings.Join(parts, " >> ")
}

// NthDescription describes the index-th match of parent.
func NthDescription(parent string, index int) string {
	return Chain(parent, fmt.Sprintf("nth=%d", index))
}
