package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/cli"
)

// isIdentity reports whether s looks like an identity card number: digits with optional
// dashes, at least six digits.
func isIdentity(s string) bool {
	s = strings.TrimSpace(s)
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
		default:
			return false
		}
	}
	return digits >= 6
}

// rewriteIdentityLookupArgs makes `maklumat <ic>` behave like `maklumat show <ic>`.
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first, so the first positional token is searched for.
func rewriteIdentityLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the number is never eaten.
	valueFlags := map[string]bool{
		"--config-dir":   true,
		"--sheet-url":    true,
		"--fallback-csv": true,
		"--log-level":    true,
		"--format":       true,
	}
	boolFlags := map[string]bool{
		"--pretty":     true,
		"--log-stderr": true,
	}

	insertShow := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// A number after "--" may start with a dash; show goes before the terminator.
			if i+1 < len(argv) && isIdentity(argv[i+1]) {
				return insertShow(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		if isIdentity(a) {
			return insertShow(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteIdentityLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := cli.NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
