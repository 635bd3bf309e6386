package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/config"
)

// Footer drives the marketing footer at the bottom of each page.
type Footer struct {
	page     playwright.Page
	settings config.Settings
}

// NewFooter creates a footer actor for the given page.
func NewFooter(page playwright.Page, settings config.Settings) *Footer {
	return &Footer{page: page, settings: settings}
}

// ScrollToBottom scrolls the page to its full height. Lazy-loaded footer
// content offers no completion signal, so a bounded settle delay follows
// the scroll; this is a documented flakiness source.
func (f *Footer) ScrollToBottom() error {
	_, err := f.page.Evaluate(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return fmt.Errorf("failed to scroll to bottom: %w", err)
	}
	f.page.WaitForTimeout(float64(f.settings.SettleDelay.Milliseconds()))
	return nil
}

// LinkTexts returns the trimmed, non-empty texts of every footer anchor in
// document order.
func (f *Footer) LinkTexts() ([]string, error) {
	links, err := f.page.Locator("footer a").All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate footer links: %w", err)
	}

	texts := make([]string, 0, len(links))
	for _, link := range links {
		text, err := link.InnerText()
		if err != nil {
			return nil, fmt.Errorf("failed to read footer link text: %w", err)
		}
		texts = append(texts, text)
	}
	return trimNonEmpty(texts), nil
}
