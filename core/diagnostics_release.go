// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build release
// +build release

package core

const diagnosticsEnabled = false
