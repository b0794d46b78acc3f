// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version records the engine version templates can gate on
// via the version helper module.
package version

// Version is the semver of this release of the engine.
const Version = "0.4.0"
