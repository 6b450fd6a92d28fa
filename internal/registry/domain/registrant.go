// Package domain holds the registry's entities and the port to the table that stores them.
package domain

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName = errors.New("name is required")
	ErrNilTable  = errors.New("table is required")
)

// Registrant is a named row in the registry table.
// Name is the logical key; Data is an opaque payload the registry never interprets.
type Registrant struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// NewRegistrant builds a Registrant, rejecting blank names.
func NewRegistrant(name, data string) (Registrant, error) {
	if strings.TrimSpace(name) == "" {
		return Registrant{}, ErrEmptyName
	}
	return Registrant{Name: name, Data: data}, nil
}

// Outcome is the result of a registration attempt.
type Outcome int

const (
	OutcomeAlreadyPresent Outcome = iota + 1
	OutcomeInserted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyPresent:
		return "already_present"
	case OutcomeInserted:
		return "inserted"
	default:
		return "unknown"
	}
}

// NameSet is the set of names observed in a fetch.
type NameSet map[string]struct{}

// NamesOf collects the names of rows. Duplicate rows collapse to one entry.
func NamesOf(rows []Registrant) NameSet {
	set := make(NameSet, len(rows))
	for _, r := range rows {
		set[r.Name] = struct{}{}
	}
	return set
}

// NewNameSet builds a set from literal names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set. A nil set contains nothing.
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct names.
func (s NameSet) Len() int {
	return len(s)
}
