package engine

import (
	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/errors"
)

// ResolveLaunch maps a distribution package to the command line that runs
// it: npm packages through npx, PyPI through uvx, container images through
// docker, bundles through the OS opener. An unrecognized kind is treated as
// a bare executable name.
func ResolveLaunch(pkg catalog.Package) (string, []string, error) {
	if pkg.Identifier == "" {
		return "", nil, errors.Wrap(errors.ErrNoPackageInfo, "package has no identifier")
	}

	switch pkg.Kind {
	case catalog.KindNPM:
		return "npx", []string{"-y", pkg.Identifier}, nil
	case catalog.KindPyPI:
		return "uvx", []string{pkg.Identifier}, nil
	case catalog.KindOCI:
		return "docker", []string{"run", "-i", "--rm", pkg.Identifier}, nil
	case catalog.KindBundle:
		return "open", []string{pkg.Identifier}, nil
	}
	return pkg.Identifier, nil, nil
}
