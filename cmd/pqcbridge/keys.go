package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
)

const keyFileMode = 0o600

const (
	flagKey     = "key"
	flagMessage = "message"
	flagIn      = "in"
	flagAAD     = "aad"
)

func keyFileFlag() cli.Flag {
	return &cli.PathFlag{
		Name:  flagKey,
		Usage: "Key record file written by keygen --out",
	}
}

func messageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagMessage,
		Aliases: []string{"m"},
		Usage:   "Message text; when omitted the message is read from --in",
	}
}

func inFlag() cli.Flag {
	return &cli.PathFlag{
		Name:  flagIn,
		Value: "-",
		Usage: "Read the message from this file, - for stdin",
	}
}

func aadFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagAAD,
		Usage: "Additional authenticated data bound to the ciphertext",
	}
}

func keygenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:  "out",
			Usage: "Write a JSON key record to this file instead of printing the key pair",
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "Key record lifetime, e.g. 720h; 0 never expires",
		},
	}
}

// keyHex returns the hex key given inline by hexFlag, or taken from the key
// record named by --key.
func (e *env) keyHex(c *cli.Context, hexFlag string, kind pqcbridge.KeyKind, secret bool) (string, error) {
	if c.IsSet(hexFlag) {
		return c.String(hexFlag), nil
	}
	path := c.Path(flagKey)
	if path == "" {
		return "", errors.Errorf("one of --%s or --%s is required", hexFlag, flagKey)
	}

	rec, err := readKeyRecord(path)
	if err != nil {
		return "", err
	}
	if rec.Kind != kind {
		return "", errors.Errorf("%s holds a %s key, want %s", path, rec.Kind, kind)
	}
	if rec.Expired(time.Now()) {
		e.log.Warn().Str("id", rec.ID).Time("expiresAt", *rec.ExpiresAt).Msg("using expired key")
	}
	if secret {
		if !rec.HasSecret() {
			return "", errors.Errorf("%s has no secret key", path)
		}
		return rec.SecretKey, nil
	}
	return rec.PublicKey, nil
}

func readKeyRecord(path string) (*pqcbridge.KeyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key record")
	}
	rec, err := pqcbridge.ParseKeyRecord(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse key record %s", path)
	}
	return rec, nil
}

func writeKeyRecord(path string, rec *pqcbridge.KeyRecord) error {
	data, err := rec.MarshalIndent()
	if err != nil {
		return errors.Wrap(err, "encode key record")
	}
	if err := os.WriteFile(path, append(data, '\n'), keyFileMode); err != nil {
		return errors.Wrap(err, "write key record")
	}
	return nil
}

// message returns --message if given, otherwise the contents of --in.
func (e *env) message(c *cli.Context) ([]byte, error) {
	if c.IsSet(flagMessage) {
		return []byte(c.String(flagMessage)), nil
	}
	var r io.Reader = e.cfg.Stdin
	if path := c.Path(flagIn); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return data, nil
}

type keygenResult struct {
	ID        string `json:"id,omitempty"`
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey,omitempty"`
	File      string `json:"file,omitempty"`
}

// finishKeygen prints the key pair or stores it as a record, per --out.
func (e *env) finishKeygen(c *cli.Context, kp *pqcbridge.Keypair, rec *pqcbridge.KeyRecord) error {
	path := c.Path("out")
	if path == "" {
		return e.out.emit(kp.String(), keygenResult{
			Algorithm: rec.Algorithm,
			PublicKey: rec.PublicKey,
			SecretKey: rec.SecretKey,
		})
	}
	if err := writeKeyRecord(path, rec); err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	e.log.Info().Str("id", rec.ID).Str("file", path).Msg("wrote key record")
	return e.out.emit(rec.ID, keygenResult{
		ID:        rec.ID,
		Algorithm: rec.Algorithm,
		PublicKey: rec.PublicKey,
		File:      path,
	})
}
