package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
)

// Credentials are the App Store Connect API key identifiers consumed by
// altool. They are read from the environment only.
type Credentials struct {
	APIKey    string `envconfig:"XCODE_API_KEY" required:"true"`
	APIIssuer string `envconfig:"XCODE_API_ISSUER" required:"true"`
}

// LoadCredentials reads XCODE_API_KEY and XCODE_API_ISSUER.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, fmt.Errorf("missing App Store Connect credentials: %w", err)
	}
	if c.APIKey == "" || c.APIIssuer == "" {
		return Credentials{}, errors.New("missing App Store Connect credentials: XCODE_API_KEY and XCODE_API_ISSUER must not be empty")
	}
	return c, nil
}

// keyDirs are the directories altool searches for AuthKey_<id>.p8, in order.
var keyDirs = []string{
	"./private_keys",
	"~/private_keys",
	"~/.private_keys",
	"~/.appstoreconnect/private_keys",
}

// KeyFile returns the first AuthKey_<APIKey>.p8 altool would find, or
// os.ErrNotExist wrapped with the searched locations.
func (c Credentials) KeyFile() (string, error) {
	name := fmt.Sprintf("AuthKey_%s.p8", c.APIKey)
	for _, dir := range keyDirs {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			continue
		}
		path := filepath.Join(expanded, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s not found in %v: %w", name, keyDirs, os.ErrNotExist)
}
