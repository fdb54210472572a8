package domain

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/geodata/internal/i18n"
	"golang.org/x/text/message"
)

// Problem is one validation failure that can be rendered in the caller's
// language.
type Problem interface {
	error
	Localize(p *message.Printer) string
}

// Message is a problem backed by an i18n message key.
type Message struct {
	Key  string
	Args []any
}

func NewMessage(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

func (m Message) Error() string {
	return fmt.Sprintf(m.Key, m.Args...)
}

func (m Message) Localize(p *message.Printer) string {
	return p.Sprintf(m.Key, m.Args...)
}

// ReferentialError reports a country or region code the store does not hold.
type ReferentialError struct {
	Entity Entity
	Code   string
}

func (e *ReferentialError) key() string {
	if e.Entity == EntityRegions {
		return i18n.MsgRegionNotFound
	}
	return i18n.MsgCountryNotFound
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf(e.key(), e.Code)
}

func (e *ReferentialError) Localize(p *message.Printer) string {
	return p.Sprintf(e.key(), e.Code)
}

// MissingContextError reports a region or city operation without the country
// it is scoped to.
type MissingContextError struct {
	Entity Entity
}

func (e *MissingContextError) key() string {
	if e.Entity == EntityCities {
		return i18n.MsgCityCountryRequired
	}
	return i18n.MsgRegionCountryRequired
}

func (e *MissingContextError) Error() string {
	return e.key()
}

func (e *MissingContextError) Localize(p *message.Printer) string {
	return p.Sprintf(e.key())
}

// ValidationError aggregates every problem found in one pass over a file.
type ValidationError struct {
	Entity   Entity
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Error())
	}
	return fmt.Sprintf("import %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p)
	}
	return out
}

// Localize renders every problem with p, in the order found.
func (e *ValidationError) Localize(p *message.Printer) []string {
	out := make([]string, 0, len(e.Problems))
	for _, problem := range e.Problems {
		out = append(out, problem.Localize(p))
	}
	return out
}
