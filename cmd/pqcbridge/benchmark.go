package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge/internal/boundary"
	"github.com/afetnet/pqcbridge/internal/metrics"
)

type benchOutput struct {
	Op        string  `json:"op"`
	Count     uint64  `json:"count"`
	Errors    uint64  `json:"errors"`
	AverageUs float64 `json:"averageUs"`
	OpsPerSec float64 `json:"opsPerSec"`
}

func benchmarkCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "benchmark",
		Usage: "Time every operation over a number of iterations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Value:   50,
				Usage:   "Iterations per operation",
			},
		},
		Action: func(c *cli.Context) error {
			n := c.Int("iterations")
			if n <= 0 {
				return cli.Exit("--iterations must be positive", exitError)
			}
			rec := metrics.NewRecorder()
			if err := e.bench(rec, n); err != nil {
				return fail(err, "benchmark")
			}

			stats, err := rec.Snapshot()
			if err != nil {
				return fail(err, "gather metrics")
			}
			rows := make([]benchOutput, 0, len(stats))
			var text strings.Builder
			fmt.Fprintf(&text, "%s + %s, %d iterations\n", e.signer.Algorithm(), e.kem.Algorithm(), n)
			for _, s := range stats {
				row := benchOutput{
					Op:        s.Op,
					Count:     s.Count,
					Errors:    s.Errors,
					AverageUs: float64(s.Average.Nanoseconds()) / 1e3,
				}
				if s.Average > 0 {
					row.OpsPerSec = 1e9 / float64(s.Average.Nanoseconds())
				}
				rows = append(rows, row)
				fmt.Fprintf(&text, "  %-16s %10.1fus  %10.1f ops/s\n", row.Op, row.AverageUs, row.OpsPerSec)
			}
			return e.out.emit(strings.TrimRight(text.String(), "\n"), map[string]interface{}{
				"signature":  e.signer.Algorithm(),
				"kem":        e.kem.Algorithm(),
				"iterations": n,
				"results":    rows,
			})
		},
	}
}

// bench runs each operation n times, recording every call in rec.
func (e *env) bench(rec *metrics.Recorder, n int) error {
	const msg = "pqcbridge benchmark message"

	for i := 0; i < n; i++ {
		done := rec.Track(boundary.OpSignKeypair)
		kp, err := e.signer.GenerateKeypair()
		done(err)
		if err != nil {
			return err
		}

		done = rec.Track(boundary.OpSign)
		sig, err := e.signer.Sign(kp.SecretKeyHex(), msg)
		done(err)
		if err != nil {
			return err
		}

		done = rec.Track(boundary.OpVerify)
		_, err = e.signer.Verify(kp.PublicKeyHex(), msg, sig)
		done(err)
		if err != nil {
			return err
		}

		done = rec.Track(boundary.OpKEMKeypair)
		kkp, err := e.kem.GenerateKeypair()
		done(err)
		if err != nil {
			return err
		}

		done = rec.Track(boundary.OpEncapsulate)
		enc, err := e.kem.Encapsulate(kkp.PublicKeyHex())
		done(err)
		if err != nil {
			return err
		}

		done = rec.Track(boundary.OpDecapsulate)
		_, err = e.kem.Decapsulate(kkp.SecretKeyHex(), enc.CiphertextHex())
		done(err)
		if err != nil {
			return err
		}
	}
	return nil
}
