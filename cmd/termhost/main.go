package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	sidebar "github.com/derekross/obsidian-opencode-sidebar"
	"pkt.systems/pslog"
)

func main() {
	loader := sidebar.NewLoader()
	root := NewRootCommand(loader)
	logger := pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stderr))
	root.SetContext(pslog.ContextWithLogger(context.Background(), logger))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
