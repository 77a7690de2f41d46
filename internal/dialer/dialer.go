// Package dialer places phone calls by handing a tel: URI to the OS.
package dialer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Emergency service numbers.
const (
	Police = "112"
	Fire   = "119"
)

// Dial opens tel:<number> with the platform's default URL handler. On a
// phone-capable device this starts the call; elsewhere the OS picks a
// handler (or reports none).
func Dial(number string) error {
	uri := "tel:" + number
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", uri).Start()
	case "linux":
		return exec.Command("xdg-open", uri).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", uri).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
