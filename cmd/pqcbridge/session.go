package main

import (
	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
)

func sessionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Session key derivation from KEM shared secrets",
		Subcommands: []*cli.Command{
			{
				Name:  "derive",
				Usage: "Derive the 32-byte session key for a shared secret and two participants",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shared", Usage: "Hex shared secret from encapsulate/decapsulate", Required: true},
					&cli.StringFlag{Name: "initiator", Usage: "Initiator id", Required: true},
					&cli.StringFlag{Name: "responder", Usage: "Responder id", Required: true},
				},
				Action: func(c *cli.Context) error {
					key, err := pqcbridge.DeriveSessionKey(c.String("shared"), c.String("initiator"), c.String("responder"))
					if err != nil {
						return fail(err, "derive session key")
					}
					return e.out.emit(key, map[string]string{"sessionKey": key})
				},
			},
		},
	}
}
