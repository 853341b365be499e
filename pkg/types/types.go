// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package types holds the domain types shared between the engine and its
// callers: case records, match results, and notifications.
package types

import (
	"time"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

// CaseState is the lifecycle partition a case record occupies. A case is in
// exactly one state at any instant.
type CaseState string

const (
	StateActive CaseState = "active"
	StateFound  CaseState = "found"
)

// Valid reports whether the state is a known lifecycle partition.
func (s CaseState) Valid() bool {
	switch s {
	case StateActive, StateFound:
		return true
	default:
		return false
	}
}

// CaseDetails are the subject attributes supplied at case creation. The
// engine treats Location and Notes as opaque free text.
type CaseDetails struct {
	Name     string
	Age      int
	Gender   string
	Location string
	Notes    string
}

// NewCaseDetails builds a validated CaseDetails.
func NewCaseDetails(name string, age int, gender, location, notes string) (CaseDetails, error) {
	d := CaseDetails{Name: name, Age: age, Gender: gender, Location: location, Notes: notes}
	if err := d.Validate(); err != nil {
		return CaseDetails{}, err
	}
	return d, nil
}

// Validate checks that the details have all required fields set correctly.
func (d CaseDetails) Validate() error {
	if d.Name == "" {
		return reunerr.New(reunerr.CodeStoreInvalidInput, "case details: Name is required")
	}
	if d.Age < 0 {
		return reunerr.Errorf(reunerr.CodeStoreInvalidInput, "case details: Age must be >= 0, got %d", d.Age)
	}
	return nil
}

// CaseRecord is a missing-person case. Records are never deleted; the
// lifecycle controller relocates them from the active to the found
// partition exactly once.
type CaseRecord struct {
	ID int64
	CaseDetails
	CreatedBy int64
	State     CaseState
	CreatedAt time.Time
}

// MatchResult pairs a case record snapshot with its cosine similarity to
// the query vector. Produced transiently by search, never persisted.
type MatchResult struct {
	Case       CaseRecord
	Similarity float64
}

// Notification is one entry in a user's append-only message log. Read
// transitions monotonically from false to true.
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Read      bool
	CreatedAt time.Time
}

// Resolution is the outcome of a resolve request. Found is false when the
// case was absent from the active partition, which is a normal outcome
// (already resolved, or never existed), not an error.
type Resolution struct {
	Found          bool
	NotifiedUserID int64
	CaseName       string
}
