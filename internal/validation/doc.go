// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package validation checks request structs with go-playground/validator.
//
// A single validator is shared so struct metadata is cached after first
// use. Errors name fields by their json tag, so messages match the request
// body the client sent:
//
//	type CommentRequest struct {
//	    AppID   int64  `json:"appid" validate:"appid"`
//	    Content string `json:"content" validate:"required,notblank"`
//	}
//
//	if err := validation.Validate(&req); err != nil {
//	    var verrs validation.Errors
//	    errors.As(err, &verrs)
//	    // verrs.Error(), verrs.Details()
//	}
//
// Custom tags:
//   - notblank: string must contain a non-whitespace character
//   - appid: integer must be a positive 32-bit Steam app ID
package validation
