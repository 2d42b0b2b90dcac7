package version

import "regexp"

var (
	marketingVersionRegex = regexp.MustCompile(`MARKETING_VERSION = (\d+\.\d+);`)
	projectVersionRegex   = regexp.MustCompile(`CURRENT_PROJECT_VERSION = (\d+\.\w+\.\d+);`)

	marketingValueRegex = regexp.MustCompile(`^\d+\.\d+$`)
	projectValueRegex   = regexp.MustCompile(`^\d+\.\w+\.\d+$`)

	commitHashRegex = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)
