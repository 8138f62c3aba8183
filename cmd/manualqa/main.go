package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/config/file"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/cli"
	"github.com/ALEX8642/LLM-chatbot/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := file.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", file.DotEnvFile, err)
	}

	cli.SetVersion(version)
	cli.SetBuilder(app.Builder{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
