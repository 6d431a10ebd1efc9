// Package ingest decodes raw Twitter and Telegram dumps into typed records
// and loads the keyword and hashtag corpora.
package ingest

import "fmt"

// SchemaError reports a record missing a required field. It fails the whole
// batch.
type SchemaError struct {
	Source string
	Index  int
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required field"
	}
	return fmt.Sprintf("%s: record %d: %s: %s", e.Source, e.Index, e.Field, reason)
}

func missing(source string, index int, field string) error {
	return &SchemaError{Source: source, Index: index, Field: field}
}
