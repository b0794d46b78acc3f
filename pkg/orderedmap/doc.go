// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

This flavor of map keeps values decoded inside templates (json/yaml/toml)
deterministic and stable across evaluations.
*/
package orderedmap
