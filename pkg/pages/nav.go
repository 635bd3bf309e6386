// Package pages contains the page actors for the target platform: the
// navigation menu, the trading section, and the marketing footer. Actors
// resolve interactive elements through the fallback locator strategy so a
// reworded label or restyled menu does not break every scenario at once.
package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/locator"
)

// Nav drives the site's top navigation menu.
type Nav struct {
	page     playwright.Page
	strategy *locator.Strategy
}

// NewNav creates a navigation actor for the given page.
func NewNav(page playwright.Page, strategy *locator.Strategy) *Nav {
	return &Nav{page: page, strategy: strategy}
}

// menuCandidates ranks ways of finding a menu item by its visible name.
func menuCandidates(name string) []locator.Candidate {
	return []locator.Candidate{
		locator.ByRole(*playwright.AriaRoleLink, name),
		locator.ByText(name),
		locator.BySelector(fmt.Sprintf(`nav a:has-text("%s")`, name)),
	}
}

// MenuItemHref returns the trimmed href of the named menu item.
func (n *Nav) MenuItemHref(name string) (string, error) {
	item, err := n.strategy.Resolve(n.page, fmt.Sprintf("menu item %q", name), menuCandidates(name))
	if err != nil {
		return "", err
	}

	href, err := item.GetAttribute("href")
	if err != nil {
		return "", fmt.Errorf("failed to read href of menu item %q: %w", name, err)
	}

	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("menu item %q has an empty href", name)
	}
	return href, nil
}

// Open clicks the named menu item and waits for the navigation to settle.
func (n *Nav) Open(name string) error {
	item, err := n.strategy.Resolve(n.page, fmt.Sprintf("menu item %q", name), menuCandidates(name))
	if err != nil {
		return err
	}
	if err := item.Click(); err != nil {
		return fmt.Errorf("failed to open menu item %q: %w", name, err)
	}
	return n.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
}
