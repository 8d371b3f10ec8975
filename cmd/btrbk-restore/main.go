/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
)

func main() {
	err := cmd.Execute()
	closeApp()
	if err != nil {
		colors.Error(err.Error())
		os.Exit(1)
	}
}
