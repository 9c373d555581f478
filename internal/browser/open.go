// Package browser opens files and folders with the platform's default handler.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open target on goos.
func Command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "explorer", []string{target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Open opens target (a URL, file or folder) without waiting for the
// handler to exit.
func Open(target string) error {
	name, args, err := Command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
