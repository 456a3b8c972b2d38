package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		// unsorted files were already listed on stdout
		if !errors.Is(err, errUnsorted) {
			fmt.Fprintf(os.Stderr, "importsorter: %v\n", err)
		}
		os.Exit(1)
	}
}
