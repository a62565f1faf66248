package main

import (
	"github.com/ginger51011/mhue/cmd"
	"github.com/ginger51011/mhue/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
