// Command leechat is the terminal client for the Lee Electronics assistant.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lee-electronics/assistant/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env loaded: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
