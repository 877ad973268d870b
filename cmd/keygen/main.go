package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"realestate.backend/pkg/crypto"
)

// session store requires an AES-256 key
const sessionKeyBytes = 32

var generateToken = crypto.GenerateRandomToken

func validateInputs(jwtBytes int) error {
	if jwtBytes < 32 {
		return fmt.Errorf("invalid jwt-bytes: %d (minimum 32)", jwtBytes)
	}
	return nil
}

func buildSecrets(jwtBytes int) (jwtSecret, sessionKey string, err error) {
	if err := validateInputs(jwtBytes); err != nil {
		return "", "", err
	}
	jwtSecret, err = generateToken(jwtBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	sessionKey, err = generateToken(sessionKeyBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate session key: %w", err)
	}
	return jwtSecret, sessionKey, nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	jwtBytes := fs.Int("jwt-bytes", 48, "random bytes in JWT_SECRET")
	if err := fs.Parse(args); err != nil {
		return err
	}

	jwtSecret, sessionKey, err := buildSecrets(*jwtBytes)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "# Generated secrets, paste into .env")
	_, _ = fmt.Fprintf(out, "JWT_SECRET=%s\n", jwtSecret)
	_, _ = fmt.Fprintf(out, "SESSION_ENCRYPTION_KEY=%s\n", sessionKey)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
