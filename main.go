package main

import (
	"context"
	"fmt"
	"os"

	muralApp "mural/internal/app"
)

func main() {
	if err := muralApp.Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
