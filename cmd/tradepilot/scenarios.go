package main

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/pages"
	"github.com/entrhq/tradepilot/pkg/runner"
)

// openHome navigates to the configured base URL.
func openHome(t *runner.T) error {
	_, err := t.Page.Goto(t.Settings.BaseURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(t.Settings.NavigationTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.Settings.BaseURL, err)
	}
	return nil
}

// defaultScenarios is the built-in suite for the target platform.
func defaultScenarios() []runner.Scenario {
	return []runner.Scenario{
		{
			Name: "login menu item links to the login page",
			Tags: []string{"smoke", "nav"},
			Steps: []runner.Step{
				{Name: "open home page", Func: openHome},
				{Name: "read login menu href", Func: func(t *runner.T) error {
					nav := pages.NewNav(t.Page, t.Strategy)
					href, err := nav.MenuItemHref("Log in")
					if err != nil {
						return err
					}
					if !strings.Contains(strings.ToLower(href), "login") {
						return fmt.Errorf("login menu href %q does not point at a login page", href)
					}
					return nil
				}},
			},
		},
		{
			Name: "trade section lists instruments with quotes",
			Tags: []string{"smoke", "trade", "flaky"},
			Steps: []runner.Step{
				{Name: "open trade section", Func: func(t *runner.T) error {
					return pages.NewTrade(t.Page, t.Settings).Open()
				}},
				{Name: "verify table headers", Func: func(t *runner.T) error {
					headers, err := pages.NewTrade(t.Page, t.Settings).Headers()
					if err != nil {
						return err
					}
					if len(headers) == 0 {
						return fmt.Errorf("instrument table has no column headers")
					}
					return nil
				}},
				{Name: "verify first row has quotes", Func: func(t *runner.T) error {
					trade := pages.NewTrade(t.Page, t.Settings)
					count, err := trade.RowCount()
					if err != nil {
						return err
					}
					if count == 0 {
						return fmt.Errorf("instrument table has no rows")
					}
					cells, err := trade.RowCells(0)
					if err != nil {
						return err
					}
					if len(cells) == 0 {
						return fmt.Errorf("first instrument row has no populated cells")
					}
					return nil
				}},
			},
		},
		{
			Name: "footer exposes its link set",
			Tags: []string{"marketing", "flaky"},
			Steps: []runner.Step{
				{Name: "open home page", Func: openHome},
				{Name: "scroll to footer", Func: func(t *runner.T) error {
					return pages.NewFooter(t.Page, t.Settings).ScrollToBottom()
				}},
				{Name: "read footer links", Func: func(t *runner.T) error {
					texts, err := pages.NewFooter(t.Page, t.Settings).LinkTexts()
					if err != nil {
						return err
					}
					if len(texts) == 0 {
						return fmt.Errorf("footer has no visible links")
					}
					return nil
				}},
			},
		},
	}
}
