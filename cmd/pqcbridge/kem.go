package main

import (
	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
)

func kemCommand(e *env) *cli.Command {
	publicFlag := &cli.StringFlag{Name: "public", Usage: "Hex public key"}
	secretFlag := &cli.StringFlag{Name: "secret", Usage: "Hex secret key"}

	return &cli.Command{
		Name:  "kem",
		Usage: "Key encapsulation and public-key sealing",
		Subcommands: []*cli.Command{
			{
				Name:   "keygen",
				Usage:  "Generate a KEM key pair and print public:secret",
				Flags:  keygenFlags(),
				Action: e.kemKeygen,
			},
			{
				Name:   "encapsulate",
				Usage:  "Create a shared secret for a public key and print shared:ciphertext",
				Flags:  []cli.Flag{publicFlag, keyFileFlag()},
				Action: e.kemEncapsulate,
			},
			{
				Name:  "decapsulate",
				Usage: "Recover the shared secret from a ciphertext",
				Flags: []cli.Flag{
					secretFlag, keyFileFlag(),
					&cli.StringFlag{Name: "ciphertext", Aliases: []string{"c"}, Usage: "Hex ciphertext", Required: true},
				},
				Action: e.kemDecapsulate,
			},
			{
				Name:   "seal",
				Usage:  "Encrypt a message to a public key and print kem_ciphertext:sealed",
				Flags:  []cli.Flag{publicFlag, keyFileFlag(), messageFlag(), inFlag(), aadFlag()},
				Action: e.kemSeal,
			},
			{
				Name:  "open",
				Usage: "Decrypt the output of seal and write the plaintext",
				Flags: []cli.Flag{
					secretFlag, keyFileFlag(), aadFlag(),
					&cli.StringFlag{Name: "sealed", Usage: "kem_ciphertext:sealed pair; when omitted it is read from --in"},
					inFlag(),
				},
				Action: e.kemOpen,
			},
			{
				Name:  "rotate",
				Usage: "Replace the key record in --key with a new key pointing back at it",
				Flags: append([]cli.Flag{keyFileFlag()}, keygenFlags()...),
				Action: func(c *cli.Context) error {
					return e.rotate(c, pqcbridge.KindEncryption)
				},
			},
		},
	}
}

func (e *env) kemKeygen(c *cli.Context) error {
	kp, err := e.kem.GenerateKeypair()
	if err != nil {
		return fail(err, "generate kem key")
	}
	return e.finishKeygen(c, kp, e.kem.NewKeyRecord(kp, c.Duration("ttl")))
}

func (e *env) kemEncapsulate(c *cli.Context) error {
	public, err := e.keyHex(c, "public", pqcbridge.KindEncryption, false)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	enc, err := e.kem.Encapsulate(public)
	if err != nil {
		return fail(err, "encapsulate")
	}
	return e.out.emit(enc.String(), map[string]string{
		"algorithm":    e.kem.Algorithm(),
		"sharedSecret": enc.SharedSecretHex(),
		"ciphertext":   enc.CiphertextHex(),
	})
}

func (e *env) kemDecapsulate(c *cli.Context) error {
	secret, err := e.keyHex(c, "secret", pqcbridge.KindEncryption, true)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	shared, err := e.kem.Decapsulate(secret, c.String("ciphertext"))
	if err != nil {
		return fail(err, "decapsulate")
	}
	return e.out.emit(shared, map[string]string{"sharedSecret": shared})
}

func (e *env) kemSeal(c *cli.Context) error {
	public, err := e.keyHex(c, "public", pqcbridge.KindEncryption, false)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	msg, err := e.message(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	sealed, err := e.kem.Seal(public, msg, []byte(c.String(flagAAD)))
	if err != nil {
		return fail(err, "seal")
	}
	return e.out.emit(sealed, map[string]string{"sealed": sealed})
}

func (e *env) kemOpen(c *cli.Context) error {
	secret, err := e.keyHex(c, "secret", pqcbridge.KindEncryption, true)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	sealed := c.String("sealed")
	if sealed == "" {
		data, err := e.message(c)
		if err != nil {
			return cli.Exit(err.Error(), exitError)
		}
		sealed = string(trimNewline(data))
	}
	plaintext, err := e.kem.Open(secret, sealed, []byte(c.String(flagAAD)))
	if err != nil {
		return fail(err, "open")
	}
	if e.out.json {
		return e.out.emit("", map[string]string{"plaintext": string(plaintext)})
	}
	_, err = e.cfg.Stdout.Write(plaintext)
	return err
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
