package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// fileSettings is the YAML configuration file. Every field is optional and
// only applies when the matching flag was not set on the command line or in
// the environment.
type fileSettings struct {
	LogLevel   string `yaml:"loglevel"`
	LogJSON    *bool  `yaml:"log-json"`
	SignScheme string `yaml:"sign-scheme"`
	KEMScheme  string `yaml:"kem-scheme"`
	Output     string `yaml:"output"`
}

// settings are the effective global options.
type settings struct {
	LogLevel   string
	LogJSON    bool
	SignScheme string
	KEMScheme  string
	Output     string

	source string
}

func readConfigFile(path string) (*fileSettings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config file %s", path)
	}
	defer file.Close()

	var fs fileSettings
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fs); err != nil {
		if err == io.EOF {
			return &fs, nil
		}
		return nil, errors.Wrap(err, "error parsing YAML in config file at "+path)
	}
	return &fs, nil
}

func loadSettings(c *cli.Context) (*settings, error) {
	s := &settings{
		LogLevel:   c.String("loglevel"),
		LogJSON:    c.Bool("log-json"),
		SignScheme: c.String("sign-scheme"),
		KEMScheme:  c.String("kem-scheme"),
		Output:     c.String("output"),
	}

	path := c.Path("config")
	if path == "" {
		return s, nil
	}
	fs, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	s.source = path

	pick := func(flag string, dst *string, v string) {
		if v != "" && !c.IsSet(flag) {
			*dst = v
		}
	}
	pick("loglevel", &s.LogLevel, fs.LogLevel)
	pick("sign-scheme", &s.SignScheme, fs.SignScheme)
	pick("kem-scheme", &s.KEMScheme, fs.KEMScheme)
	pick("output", &s.Output, fs.Output)
	if fs.LogJSON != nil && !c.IsSet("log-json") {
		s.LogJSON = *fs.LogJSON
	}
	return s, nil
}
