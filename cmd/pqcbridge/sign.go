package main

import (
	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
)

func signCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Signature key generation, signing and verification",
		Subcommands: []*cli.Command{
			{
				Name:   "keygen",
				Usage:  "Generate a signing key pair and print public:secret",
				Flags:  keygenFlags(),
				Action: e.signKeygen,
			},
			{
				Name:  "sign",
				Usage: "Sign a message and print the hex signature",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Usage: "Hex secret key"},
					keyFileFlag(), messageFlag(), inFlag(),
				},
				Action: e.signSign,
			},
			{
				Name:  "verify",
				Usage: "Verify a hex signature; exits 2 on mismatch",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "public", Usage: "Hex public key"},
					&cli.StringFlag{Name: "signature", Aliases: []string{"s"}, Usage: "Hex signature", Required: true},
					keyFileFlag(), messageFlag(), inFlag(),
				},
				Action: e.signVerify,
			},
			{
				Name:  "rotate",
				Usage: "Replace the key record in --key with a new key pointing back at it",
				Flags: append([]cli.Flag{keyFileFlag()}, keygenFlags()...),
				Action: func(c *cli.Context) error {
					return e.rotate(c, pqcbridge.KindSigning)
				},
			},
		},
	}
}

func (e *env) signKeygen(c *cli.Context) error {
	kp, err := e.signer.GenerateKeypair()
	if err != nil {
		return fail(err, "generate signing key")
	}
	return e.finishKeygen(c, kp, e.signer.NewKeyRecord(kp, c.Duration("ttl")))
}

func (e *env) signSign(c *cli.Context) error {
	secret, err := e.keyHex(c, "secret", pqcbridge.KindSigning, true)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	msg, err := e.message(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	sig, err := e.signer.SignBytes(secret, msg)
	if err != nil {
		return fail(err, "sign")
	}
	return e.out.emit(sig, map[string]string{
		"algorithm": e.signer.Algorithm(),
		"signature": sig,
	})
}

func (e *env) signVerify(c *cli.Context) error {
	public, err := e.keyHex(c, "public", pqcbridge.KindSigning, false)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	msg, err := e.message(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	ok, err := e.signer.VerifyBytes(public, msg, c.String("signature"))
	if err != nil {
		return fail(err, "verify")
	}

	text := "valid"
	if !ok {
		text = "invalid"
	}
	if err := e.out.emit(text, map[string]interface{}{"valid": ok}); err != nil {
		return err
	}
	if !ok {
		return cli.Exit("", exitMismatch)
	}
	return nil
}

func (e *env) rotate(c *cli.Context, kind pqcbridge.KeyKind) error {
	path := c.Path(flagKey)
	if path == "" {
		return cli.Exit("--key is required", exitError)
	}
	old, err := readKeyRecord(path)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	var next *pqcbridge.KeyRecord
	if kind == pqcbridge.KindSigning {
		next, err = e.signer.Rotate(old, c.Duration("ttl"))
	} else {
		next, err = e.kem.Rotate(old, c.Duration("ttl"))
	}
	if err != nil {
		return fail(err, "rotate key")
	}

	out := c.Path("out")
	if out == "" {
		out = path
	}
	if err := writeKeyRecord(out, next); err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	e.log.Info().Str("id", next.ID).Str("rotatedFrom", old.ID).Msg("rotated key")
	return e.out.emit(next.ID, map[string]string{
		"id":          next.ID,
		"rotatedFrom": next.RotatedFrom,
		"file":        out,
	})
}
