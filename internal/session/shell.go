package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"runtime"
	"strings"
)

// defaultShell picks the command to run when the caller supplies none:
// the login shell from /etc/passwd, then $SHELL, then /bin/sh. Windows
// has no passwd database, so it falls back to PowerShell.
func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "powershell.exe"
	}
	if u, err := user.Current(); err == nil && u.Uid != "" {
		if shell, err := shellFromPasswd(u.Uid); err == nil && shell != "" {
			return shell
		}
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

func shellFromPasswd(uid string) (string, error) {
	f, err := os.Open("/etc/passwd")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()
	return shellFromPasswdReader(f, uid)
}

// shellFromPasswdReader scans passwd-format lines for uid and returns
// the shell field.
func shellFromPasswdReader(r io.Reader, uid string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 7 {
			continue
		}
		if parts[2] == uid {
			return parts[6], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("user not found in /etc/passwd")
}
