// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the editorial core: the article workflow state
// machine, the category cascade, and the surrounding CRUD services. Every
// privileged mutation checks the rbac capability matrix before touching
// storage and returns one of the typed errors below on refusal.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by the service layer. Callers dispatch on them
// with errors.Is.
var (
	// ErrForbidden means the actor's role lacks the required capability.
	ErrForbidden = errors.New("forbidden")

	// ErrLockedForEditing means a contributor tried to edit an article that
	// has left the draft state.
	ErrLockedForEditing = errors.New("article is locked for editing")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrHasDependents means a category cannot be deleted while articles
	// still reference it and no reassignment target was supplied.
	ErrHasDependents = errors.New("category has dependent articles")

	// ErrInvalidTransition means the requested workflow transition is not
	// legal from the article's current status.
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

// ValidationError reports one or more invalid input fields.
type ValidationError map[string]string

// Error implements the error interface.
func (v ValidationError) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// CascadeError reports a category cascade that could not complete. The
// transaction is rolled back before this error is returned, so storage is
// consistent, but the caller must know the rename/reassignment did not land.
type CascadeError struct {
	CategoryID int64
	Updated    int64 // article rows touched before the failure
	Err        error
}

// Error implements the error interface.
func (e *CascadeError) Error() string {
	return fmt.Sprintf("category %d cascade failed after %d article updates: %v", e.CategoryID, e.Updated, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CascadeError) Unwrap() error { return e.Err }
