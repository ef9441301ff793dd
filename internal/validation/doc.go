// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package validation wraps go-playground/validator v10 with a shared,
// lazily built validator and readable error messages.
//
// Besides the built-in tags, the validator knows:
//
//	linktoken  a 22 character link identifier token (see package idcodec)
//
// Usage:
//
//	type createAlias struct {
//	    Name string `json:"name" validate:"required"`
//	    Link string `json:"link" validate:"required,linktoken"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Message
//	}
//
// Field names in messages are taken from json tags, so errors name the field
// the client actually sent.
package validation
