package main

import (
	"log/slog"
	"os"

	"github.com/metinatakli/seat-reservation-system/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
