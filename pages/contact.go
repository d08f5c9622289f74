package pages

import (
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
)

// ContactFormData is a message sent through the contact form.
type ContactFormData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactPage drives the contact form on the home page.
type ContactPage struct {
	Driver driver.Driver
	t      expect.TB
}

func NewContactPage(t expect.TB, d driver.Driver) *ContactPage {
	return &ContactPage{Driver: d, t: t}
}

// Navigate loads the application root, where the form lives.
func (cp *ContactPage) Navigate() {
	cp.t.Helper()

	err := cp.Driver.Navigate(cp.t.Context(), "/")
	require.NoError(cp.t, err, "failed to load home page")
}

func (cp *ContactPage) NameInput() driver.Element {
	return cp.Driver.Find(driver.TestID("ContactName"))
}

func (cp *ContactPage) EmailInput() driver.Element {
	return cp.Driver.Find(driver.TestID("ContactEmail"))
}

func (cp *ContactPage) PhoneInput() driver.Element {
	return cp.Driver.Find(driver.TestID("ContactPhone"))
}

func (cp *ContactPage) SubjectInput() driver.Element {
	return cp.Driver.Find(driver.TestID("ContactSubject"))
}

func (cp *ContactPage) MessageInput() driver.Element {
	return cp.Driver.Find(driver.TestID("ContactDescription"))
}

func (cp *ContactPage) SubmitButton() driver.Element {
	return cp.Driver.Find(driver.Role(driver.RoleButton, "Submit"))
}

// Fields returns the form controls in form order.
func (cp *ContactPage) Fields() []driver.Element {
	return []driver.Element{
		cp.NameInput(),
		cp.EmailInput(),
		cp.PhoneInput(),
		cp.SubjectInput(),
		cp.MessageInput(),
	}
}

// Fill enters data without submitting.
func (cp *ContactPage) Fill(data ContactFormData) {
	cp.t.Helper()

	values := []string{data.Name, data.Email, data.Phone, data.Subject, data.Message}
	ctx := cp.t.Context()
	for i, field := range cp.Fields() {
		err := field.Fill(ctx, values[i])
		require.NoError(cp.t, err, "failed to fill %s", field.Describe())
	}
}

// Values reads the form back.
func (cp *ContactPage) Values() ContactFormData {
	cp.t.Helper()

	ctx := cp.t.Context()
	values := make([]string, 0, 5)
	for _, field := range cp.Fields() {
		v, err := field.Value(ctx)
		require.NoError(cp.t, err, "failed to read %s", field.Describe())
		values = append(values, v)
	}
	return ContactFormData{
		Name:    values[0],
		Email:   values[1],
		Phone:   values[2],
		Subject: values[3],
		Message: values[4],
	}
}

func (cp *ContactPage) Submit() {
	cp.t.Helper()

	err := cp.SubmitButton().Click(cp.t.Context())
	require.NoError(cp.t, err, "failed to submit contact form")
}

// SuccessHeading returns the confirmation heading shown for name.
func (cp *ContactPage) SuccessHeading(name string) driver.Element {
	return cp.Driver.Find(driver.Role(driver.RoleHeading, "Thanks for getting in touch "+name+"!"))
}

// SubmittedSubject returns the element echoing the submitted subject.
func (cp *ContactPage) SubmittedSubject(subject string) driver.Element {
	return cp.Driver.Find(driver.Text(subject).WithExact())
}
