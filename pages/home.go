package pages

import (
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
)

// HomePage exposes the landing page regions. Every accessor returns a lazy
// reference that is re-queried on use.
type HomePage struct {
	Driver driver.Driver
	t      expect.TB
}

// NewHomePage creates a home page object.
func NewHomePage(t expect.TB, d driver.Driver) *HomePage {
	return &HomePage{Driver: d, t: t}
}

// Navigate loads the application root.
func (hp *HomePage) Navigate() {
	hp.t.Helper()

	err := hp.Driver.Navigate(hp.t.Context(), "/")
	require.NoError(hp.t, err, "failed to load home page")
}

// NavLink returns the link whose accessible name is exactly name.
func (hp *HomePage) NavLink(name string) driver.Element {
	return hp.Driver.Find(driver.Role(driver.RoleLink, name).WithExact())
}

// Section returns the region with the given id.
func (hp *HomePage) Section(id string) driver.Element {
	return hp.Driver.Find(driver.CSS("#" + id))
}

func (hp *HomePage) RoomCards() driver.Element {
	return hp.Driver.Find(driver.CSS(".room-card"))
}

func (hp *HomePage) Footer() driver.Element {
	return hp.Driver.Find(driver.Role(driver.RoleContentinfo, ""))
}

func (hp *HomePage) Navigation() driver.Element {
	return hp.Driver.Find(driver.Role(driver.RoleNavigation, ""))
}

// Heading returns headings of the given level.
func (hp *HomePage) Heading(level int) driver.Element {
	return hp.Driver.Find(driver.Role(driver.RoleHeading, "").WithLevel(level))
}
