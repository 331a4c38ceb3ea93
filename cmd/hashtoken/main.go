// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"locale-tracker/commons"
	"locale-tracker/crypto"
	"locale-tracker/tokencheck"
	"os"
	"strings"
)

// Prints an API token and the API_TOKEN_HASH value that accepts it.
func main() {
	fromStdin := flag.Bool("stdin", false, "Read the token from stdin instead of generating one")
	flag.String("env-file", "", "Load environment variables from file")
	flag.Parse()

	var token string
	if *fromStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			commons.Logger.Fatalf("Failed to read token: %v", err)
		}
		token = strings.TrimSpace(line)
		if err := tokencheck.ValidateToken(context.Background(), token); err != nil {
			commons.Logger.Fatalf("Token rejected: %v", err)
		}
	} else {
		var err error
		token, err = crypto.GenerateToken()
		if err != nil {
			commons.Logger.Fatalf("Failed to generate token: %v", err)
		}
		fmt.Printf("API token: %s\n", token)
	}

	hash, err := crypto.NewCrypto().HashToken(token)
	if err != nil {
		commons.Logger.Fatalf("Failed to hash token: %v", err)
	}
	fmt.Printf("API_TOKEN_HASH='%s'\n", hash)
}
