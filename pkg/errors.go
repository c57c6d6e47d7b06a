package setup

import (
	"fmt"
	"strings"
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrMappingKeyNotFound is returned when the FTAB mapping has no entry for a
// (scintillator, position, threshold) tuple.
type ErrMappingKeyNotFound struct {
	Key FtabKey
}

func (e *ErrMappingKeyNotFound) Error() string {
	return fmt.Sprintf("no FTAB mapping for scin %d, pos %d, thr %d", e.Key.Scin, e.Key.Pos, e.Key.Thr)
}

// ErrInvalidSide represents a matrix side other than A or B.
type ErrInvalidSide struct {
	Side Side
}

func (e *ErrInvalidSide) Error() string {
	return fmt.Sprintf("invalid matrix side %q", string(e.Side))
}

// ErrMissingXMLField represents a required element missing from a DAQ
// configuration entry. Index is the 1-based position of the DATA_SOURCE.
type ErrMissingXMLField struct {
	Element string
	Index   int
	Field   string
}

func (e *ErrMissingXMLField) Error() string {
	return fmt.Sprintf("%s #%d: missing %s", e.Element, e.Index, e.Field)
}

// ErrInvalidXMLField represents an element whose text cannot be parsed.
type ErrInvalidXMLField struct {
	Element string
	Index   int
	Field   string
	Value   string
	Err     error
}

func (e *ErrInvalidXMLField) Error() string {
	return fmt.Sprintf("%s #%d: invalid %s %q: %v", e.Element, e.Index, e.Field, e.Value, e.Err)
}

func (e *ErrInvalidXMLField) Unwrap() error { return e.Err }

// ErrChannelRangeOverlap reports two data modules claiming the same channel ids.
type ErrChannelRangeOverlap struct {
	FirstModule  int
	SecondModule int
	From         int
	To           int
}

func (e *ErrChannelRangeOverlap) Error() string {
	return fmt.Sprintf("data modules %d and %d overlap on channels [%d, %d)",
		e.FirstModule, e.SecondModule, e.From, e.To)
}

// ErrSetupKey is returned when the setup object of a JSON document cannot be
// selected unambiguously.
type ErrSetupKey struct {
	Requested string
	Found     []string
}

func (e *ErrSetupKey) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("setup %q not found, document has [%s]", e.Requested, strings.Join(e.Found, ", "))
	}
	return fmt.Sprintf("expected exactly one setup in document, found %d [%s]", len(e.Found), strings.Join(e.Found, ", "))
}

// ErrInvalidGeometry represents an inconsistent geometry configuration.
type ErrInvalidGeometry struct {
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	return "invalid geometry: " + e.Reason
}
