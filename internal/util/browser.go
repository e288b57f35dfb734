package util

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommands 各平台依次尝试的打开方式
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"google-chrome", url},
			{"firefox", url},
			{"chromium-browser", url},
		}
	}
}

// OpenBrowser 用默认浏览器打开地址，逐个尝试直到有一个命令成功启动
func OpenBrowser(url string) error {
	var errs []error
	for _, args := range browserCommands(runtime.GOOS, url) {
		if err := exec.Command(args[0], args[1:]...).Start(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", args[0], err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}
