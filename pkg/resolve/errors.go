// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
)

// DistributionNotFoundError is returned when the index has no distribution matching the
// requirement.
type DistributionNotFoundError struct {
	PackageName    string
	PackageVersion string
	Index          string
	Requirement    string
}

func (e *DistributionNotFoundError) Error() string {
	return fmt.Sprintf("no distribution of %s found on index %s (requirement %q)",
		describe(e.PackageName, e.PackageVersion), e.Index, e.Requirement)
}

// CompatibleURLNotFoundError is returned when the index has a distribution, but none of its files
// is a wheel that's compatible with the acceptable tags.
type CompatibleURLNotFoundError struct {
	PackageName    string
	PackageVersion string
}

func (e *CompatibleURLNotFoundError) Error() string {
	return fmt.Sprintf("no compatible wheel found for %s",
		describe(e.PackageName, e.PackageVersion))
}

func describe(name, version string) string {
	if version == "" {
		return name
	}
	return name + "==" + version
}
