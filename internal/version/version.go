/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build version information.
package version

// Version is the current version of courtplan.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/courtplan/internal/version.Version=X.Y.Z
var Version = "0.3.1"
