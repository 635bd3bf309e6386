package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/config"
)

// Trade drives the trading section: the instrument table with its live
// quote columns.
type Trade struct {
	page     playwright.Page
	settings config.Settings
}

// NewTrade creates a trading-section actor for the given page.
func NewTrade(page playwright.Page, settings config.Settings) *Trade {
	return &Trade{page: page, settings: settings}
}

// tableSelector matches the instrument table. The data-testid form is
// preferred; plain table is the fallback for older builds.
const tableSelector = `[data-testid="instruments-table"], table`

// targetURL is the configured trade URL, derived from the base URL when
// not set explicitly.
func (t *Trade) targetURL() string {
	if t.settings.TradeURL != "" {
		return t.settings.TradeURL
	}
	return strings.TrimRight(t.settings.BaseURL, "/") + "/trade"
}

// Open navigates to the trade section and waits until the instrument table
// is visible.
func (t *Trade) Open() error {
	url := t.targetURL()

	_, err := t.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(t.settings.NavigationTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to open trade section %s: %w", url, err)
	}

	err = t.page.Locator(tableSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(t.settings.ExpectTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("instrument table did not appear within %v: %w", t.settings.ExpectTimeout, err)
	}
	return nil
}

// Headers returns the trimmed column headers of the instrument table.
func (t *Trade) Headers() ([]string, error) {
	texts, err := t.page.Locator(tableSelector).First().Locator("thead th").AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("failed to read table headers: %w", err)
	}
	return trimNonEmpty(texts), nil
}

// RowCells returns the trimmed cell texts of the given zero-based row.
func (t *Trade) RowCells(row int) ([]string, error) {
	cells, err := t.page.Locator(tableSelector).First().
		Locator("tbody tr").Nth(row).Locator("td").AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d: %w", row, err)
	}
	return trimNonEmpty(cells), nil
}

// RowCount returns the number of instrument rows currently rendered.
func (t *Trade) RowCount() (int, error) {
	count, err := t.page.Locator(tableSelector).First().Locator("tbody tr").Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count instrument rows: %w", err)
	}
	return count, nil
}

// trimNonEmpty trims every string and drops the empties, preserving order.
func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
