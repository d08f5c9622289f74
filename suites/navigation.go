package suites

import (
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
	"github.com/networkteam/staycheck/pages"
	"github.com/networkteam/staycheck/scenario"
)

// NavigationAndUI verifies top navigation, sections and the landing page UI.
func NavigationAndUI() scenario.Suite {
	return scenario.Suite{
		Name: "navigation-and-ui",
		Scenarios: []scenario.Scenario{
			{
				Name: "navigation",
				Run: func(c *scenario.Case, d driver.Driver) {
					home := pages.NewHomePage(c, d)
					home.Navigate()

					e := c.Expect()
					for _, target := range NavigationTargets() {
						err := home.NavLink(target.Name).Click(c.Context())
						require.NoError(c, err, "failed to follow %s", target.Name)
						e.Page(d).ToHaveURL(expect.Pattern(target.URLSuffix))
					}
				},
			},
			{
				Name: "ui-validation",
				Run:  validateUI,
			},
		},
	}
}

func validateUI(c *scenario.Case, d driver.Driver) {
	home := pages.NewHomePage(c, d)
	home.Navigate()
	e := c.Expect()

	follow := func(name string) {
		err := home.NavLink(name).Click(c.Context())
		require.NoError(c, err, "failed to follow %s", name)
	}

	c.Step("Header validation", func() {
		e.Element(home.Navigation()).ToContainText("Shady Meadows B&B")
		e.Element(home.Heading(1)).ToHaveText(expect.Equal("Welcome to Shady Meadows B&B"))
	})

	c.Step("Rooms section validation", func() {
		follow("Rooms")
		e.Element(home.Section("rooms")).ToContainText("Our Rooms")

		want := RoomCards()
		e.Element(home.RoomCards()).ToHaveCount(len(want))
		for i, room := range want {
			card := home.RoomCards().Nth(i)
			e.Element(card.Find(driver.CSS(".card-title"))).ToHaveText(expect.Equal(room.Title))
			e.Element(card).ToContainText(room.Price)
			e.Element(card.Find(driver.CSS(".btn-primary"))).ToHaveAttribute("href", expect.Pattern(room.BookingHref))
			e.Element(card.Find(driver.CSS("img"))).ToHaveAttribute("src", expect.Exactly(room.ImageSrc))
		}
	})

	c.Step("Booking section validation", func() {
		follow("Booking")
		booking := e.Element(home.Section("booking"))
		booking.ToContainText("Check Availability & Book Your Stay")
		booking.ToContainText("Check In")
		booking.ToContainText("Check Out")
	})

	c.Step("Location section validation", func() {
		follow("Location")
		e.Element(home.Section("location")).ToContainAllTexts(
			"Our Location",
			"Contact Information",
			"012345678901",
			"fake@fakeemail.com",
		)
	})

	c.Step("Contact section validation", func() {
		follow("Contact")
		e.Element(home.Section("contact")).ToContainAllTexts(ContactSectionFields()...)
	})

	c.Step("Footer validation", func() {
		footer := e.Element(home.Footer())
		footer.ToContainText("Shady Meadows B&B")
		footer.ToContainText("Quick Links")
	})
}
