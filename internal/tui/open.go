package tui

import (
	"os/exec"
	"runtime"
)

// openURL hands the URL to the platform browser launcher without waiting.
func openURL(url string) error {
	if url == "" {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
