package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
)

type checkOutput struct {
	Name     string  `json:"name"`
	Passed   bool    `json:"passed"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"durationMs"`
}

func selftestCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "selftest",
		Usage: "Run every operation end to end and report readiness",
		Action: func(c *cli.Context) error {
			results, err := pqcbridge.SelfTest(e.signer, e.kem)

			checks := make([]checkOutput, 0, len(results))
			var text strings.Builder
			fmt.Fprintf(&text, "%s + %s\n", e.signer.Algorithm(), e.kem.Algorithm())
			for _, r := range results {
				out := checkOutput{
					Name:     r.Name,
					Passed:   r.Passed(),
					Duration: float64(r.Duration) / float64(time.Millisecond),
				}
				status := "ok"
				if !r.Passed() {
					out.Error = r.Err.Error()
					status = "FAIL: " + out.Error
				}
				checks = append(checks, out)
				fmt.Fprintf(&text, "  %-26s %8.2fms  %s\n", r.Name, out.Duration, status)
			}

			if perr := e.out.emit(strings.TrimRight(text.String(), "\n"), map[string]interface{}{
				"signature": e.signer.Algorithm(),
				"kem":       e.kem.Algorithm(),
				"ready":     err == nil,
				"checks":    checks,
			}); perr != nil {
				return perr
			}
			if err != nil {
				return fail(err, "selftest")
			}
			return nil
		},
	}
}
