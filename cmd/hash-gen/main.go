package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/security"
)

var (
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

// resolvePolicy picks the policy a password must satisfy before hashing
func resolvePolicy(admin bool) *security.PasswordPolicy {
	if admin {
		return security.StrictPasswordPolicy()
	}
	return security.DefaultPasswordPolicy()
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-gen", flag.ContinueOnError)
	admin := fs.Bool("admin", false, "check against the administrator password policy")
	cost := fs.Int("cost", crypto.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: hash-gen [-admin] [-cost N] <password>")
	}
	password := fs.Arg(0)

	if err := resolvePolicy(*admin).ValidatePassword(password); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}

	crypto.SetCost(*cost)
	hash, err := generateHashFn(password)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Bcrypt Hash: %s\n", hash)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fatalfFn("Failed to hash password: %v", err)
	}
}
