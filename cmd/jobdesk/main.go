package main

import (
	"fmt"
	"os"

	"github.com/amishk599/jobdesk/internal/model"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, model.UserMessage(err))
		os.Exit(1)
	}
}
