package locator

import "github.com/playwright-community/playwright-go"

// Candidate lists for the login flow, ranked most-specific to
// least-specific. Role-based candidates come first because accessible
// selectors survive markup churn better than attribute heuristics.

// LoginEntry locates the link or button that opens the login form.
func LoginEntry() []Candidate {
	return []Candidate{
		ByRole(*playwright.AriaRoleLink, "Sign in"),
		ByRole(*playwright.AriaRoleButton, "Sign in"),
		ByRole(*playwright.AriaRoleLink, "Log in"),
		ByRole(*playwright.AriaRoleButton, "Log in"),
		ByText("Sign in"),
		ByText("Log in"),
		BySelector(`a[href*="login"]`),
	}
}

// EmailField locates the email input on the login form.
func EmailField() []Candidate {
	return []Candidate{
		BySelector(`input[type="email"]`),
		BySelector(`input[name="email"]`),
		ByPlaceholder("Email"),
		ByPlaceholder("E-mail"),
		BySelector(`input[name="username"]`),
		BySelector(`input[type="text"]`),
	}
}

// PasswordField locates the password input on the login form.
func PasswordField() []Candidate {
	return []Candidate{
		BySelector(`input[type="password"]`),
		BySelector(`input[name="password"]`),
		ByPlaceholder("Password"),
	}
}

// SubmitControl locates the control that submits the login form.
func SubmitControl() []Candidate {
	return []Candidate{
		BySelector(`button[type="submit"]`),
		BySelector(`input[type="submit"]`),
		ByRole(*playwright.AriaRoleButton, "Sign in"),
		ByRole(*playwright.AriaRoleButton, "Log in"),
		ByText("Sign in"),
		ByText("Log in"),
	}
}

// LoggedInIndicator locates an element that only renders for an
// authenticated user. Used for best-effort login verification.
func LoggedInIndicator() []Candidate {
	return []Candidate{
		ByRole(*playwright.AriaRoleLink, "Sign out"),
		ByRole(*playwright.AriaRoleButton, "Sign out"),
		ByText("Log out"),
		BySelector(`a[href*="logout"]`),
		BySelector(`[data-testid="user-menu"]`),
	}
}
