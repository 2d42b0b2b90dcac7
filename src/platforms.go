package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/itzCozi/xcrel/internal/release"
)

// platformList is a repeatable, comma separated --platform flag.
type platformList []string

var _ pflag.Value = (*platformList)(nil)

func (p *platformList) String() string {
	return strings.Join(*p, ",")
}

func (p *platformList) Set(value string) error {
	for _, name := range strings.Split(value, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		pl, err := release.ParsePlatform(name)
		if err != nil {
			return err
		}
		*p = append(*p, pl.Name)
	}
	return nil
}

func (p *platformList) Type() string {
	return "platforms"
}
