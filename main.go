/*
Prism renders a single textured mesh to a resizable window. All of the
interesting work lives in the engine package; this is just process
start/stop plumbing.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tylercaldwell27/prism/engine"
)

func main() {
	cfg, err := engine.LoadConfig("prism.toml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	e, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := e.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		e.RequestShutdown()
	}()

	if err := e.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
