// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gamescout/internal/catalog"
	"github.com/tomtom215/gamescout/internal/validation"
)

const (
	defaultCommentLimit = 100
	maxCommentBodyBytes = 16 << 10
)

// CommentRequest is the body of POST /api/comments.
type CommentRequest struct {
	AppID   int64  `json:"appid" validate:"appid"`
	Content string `json:"content" validate:"required,notblank"`
}

// ListComments handles GET /api/comments?appid=, newest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	if h.comments == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Comments are not available", nil)
		return
	}
	appID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("appid")), 10, 64)
	if err != nil || appID <= 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Query parameter appid is required", nil)
		return
	}

	limit := getIntParam(r, "limit", defaultCommentLimit)
	if limit <= 0 || limit > defaultCommentLimit {
		limit = defaultCommentLimit
	}

	comments, err := h.comments.ListComments(r.Context(), appID, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to fetch comments", err)
		return
	}
	respondJSON(w, r, http.StatusOK, comments, Metadata{Count: intPtr(len(comments))})
}

// PostComment handles POST /api/comments.
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	if h.comments == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Comments are not available", nil)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Request body must be a JSON object with appid and content", nil)
		return
	}
	req.Content = strings.TrimSpace(req.Content)

	if err := validation.Validate(&req); err != nil {
		var verrs validation.Errors
		errors.As(err, &verrs)
		respondAPIError(w, r, http.StatusBadRequest, &APIError{Code: ErrCodeValidation, Message: err.Error(), Details: verrs.Details()})
		return
	}
	if n := utf8.RuneCountInString(req.Content); n > h.config.MaxCommentLength {
		respondAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("Comment too long (max %d characters)", h.config.MaxCommentLength),
			Details: map[string]interface{}{"field": "content", "tag": "max"},
		})
		return
	}

	c, err := h.comments.AddComment(r.Context(), req.AppID, req.Content)
	switch {
	case errors.Is(err, catalog.ErrInvalidComment):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to save comment", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, c, Metadata{})
}
