// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos locates lines within template sources: 1-based line numbers
optionally qualified by the owning template's name.
*/
package filepos
