// Package browser opens the control page in the user's default browser.
package browser

import (
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"
)

// openURL is replaced in tests.
var openURL = pkgbrowser.OpenURL

// Open asks the platform launcher (xdg-open, open, rundll32) to show url.
// Launcher output is discarded so it does not mix with the CLI output.
func Open(url string) error {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard

	if err := openURL(url); err != nil {
		return fmt.Errorf("failed to open browser at %s: %w", url, err)
	}
	return nil
}
