package suites

import (
	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/pages"
	"github.com/networkteam/staycheck/scenario"
)

// ContactForm fills and submits the contact form.
func ContactForm() scenario.Suite {
	return scenario.Suite{
		Name: "contact-form",
		Scenarios: []scenario.Scenario{
			{
				Name: "submit-contact-form",
				Run: func(c *scenario.Case, d driver.Driver) {
					cp := pages.NewContactPage(c, d)
					cp.Navigate()
					e := c.Expect()
					msg := ContactMessage()

					c.Step("Controls are visible and empty", func() {
						for _, field := range cp.Fields() {
							e.Element(field).ToBeVisible()
						}
						e.Element(cp.SubmitButton()).ToBeVisible()
						e.Element(cp.SubmitButton()).ToBeEnabled()
						for _, field := range cp.Fields() {
							e.Element(field).ToHaveValue("")
						}
					})

					c.Step("Fill form", func() {
						cp.Fill(msg)
						e.Element(cp.NameInput()).ToHaveValue(msg.Name)
						e.Element(cp.EmailInput()).ToHaveValue(msg.Email)
						e.Element(cp.PhoneInput()).ToHaveValue(msg.Phone)
						e.Element(cp.SubjectInput()).ToHaveValue(msg.Subject)
						e.Element(cp.MessageInput()).ToHaveValue(msg.Message)
					})

					c.Step("Submit", func() {
						cp.Submit()
						e.Element(cp.SuccessHeading(msg.Name)).ToBeVisible()
						e.Element(cp.SubmittedSubject(msg.Subject)).ToBeVisible()
					})
				},
			},
			{
				Name: "empty-after-navigate",
				Run: func(c *scenario.Case, d driver.Driver) {
					cp := pages.NewContactPage(c, d)
					e := c.Expect()
					for range 3 {
						cp.Navigate()
						for _, field := range cp.Fields() {
							e.Element(field).ToHaveValue("")
						}
						cp.Fill(ContactMessage())
					}
				},
			},
		},
	}
}
