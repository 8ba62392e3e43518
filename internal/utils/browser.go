package utils

import (
	"fmt"
	"os/exec"
	"runtime"

	"stridebeat/internal/logging"
)

// browserCommand returns the command that opens url on the given OS, or nil
// when the OS has no known opener.
func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return nil
	}
}

// OpenBrowser opens the specified URL in the user's default browser
func OpenBrowser(url string) {
	cmd := browserCommand(runtime.GOOS, url)
	if cmd == nil {
		fmt.Println("Please open the following URL in your browser:", url)
		return
	}

	if err := cmd.Start(); err != nil {
		logging.Debug().Err(err).Str("os", runtime.GOOS).Msg("could not launch browser")
		fmt.Println("Failed to open browser. Please open the following URL manually:", url)
	}
}
