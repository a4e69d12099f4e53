package configs

import "errors"

type documentedConfig struct {
	Docs

	// doc for x
	X int `config:"x"`

	Y string `config:"y"` // trailing doc for y

	//   Multi-line doc
	//   for z.
	//
	Z bool `config:"z"`

	// Leading doc wins.
	W int `config:"w,optional"` // trailing loses

	NoDoc int `config:"no_doc,optional"`

	// Shared doc.
	A, B int `config:",optional"`

	initialized bool
}

func (d *documentedConfig) PostInit() error {
	if d.X < 0 {
		return errors.New("x must not be negative")
	}
	d.initialized = true
	return nil
}

type violatingConfig struct {
	Docs

	// doc for port
	Port int `config:"port"`
}

func (v violatingConfig) Address() string { return "" }

type outerDocumented struct {
	Docs

	// Inner settings.
	Inner documentedConfig `config:"inner"`
}
