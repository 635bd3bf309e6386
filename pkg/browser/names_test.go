package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Login menu item links to the login page", "login_menu_item_links_to_the_login_page"},
		{"  Trade / Quotes!  ", "trade_quotes"},
		{"already_safe-name", "already_safe-name"},
		{"///", "unnamed"},
		{"", "unnamed"},
		{"Émoji 🎉 name", "moji_name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestTraceFileName(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "checkout_flow_1234_1700000000000.zip", TraceFileName("Checkout Flow", 1234, at))
	assert.Equal(t, "checkout_flow_5678_1700000000000.zip", TraceFileName("Checkout Flow", 5678, at),
		"same scenario on different workers must not collide")

	later := at.Add(time.Millisecond)
	assert.NotEqual(t, TraceFileName("x", 1, at), TraceFileName("x", 1, later),
		"same scenario on the same worker must not collide across captures")
}

func TestScreenshotFileName(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	assert.Equal(t, "step_01_ok_9_1700000000000.png", ScreenshotFileName("Step 01 OK", 9, at))
}
