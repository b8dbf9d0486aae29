package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"electronic_product/internal/logger"
)

// Hàm main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	// Flush log trước khi thoát, os.Exit bỏ qua defer
	if cerr := logger.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
