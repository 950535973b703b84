package models

import (
	"strconv"
	"strings"
	"time"
)

// Role is one of the canonical column roles a campaign sheet is resolved to.
type Role string

const (
	RoleAccountID Role = "account_id"
	RoleStatus    Role = "status"
	RoleDate      Role = "date"
	RoleSteward   Role = "steward"
)

// Roles lists every role in resolution order.
var Roles = []Role{RoleAccountID, RoleStatus, RoleDate, RoleSteward}

// Status buckets. Anything else is Other.
const (
	StatusVerified       = "Verified"
	StatusReviewed       = "Reviewed"
	StatusCouldNotVerify = "Could Not Verify"
	StatusOther          = "Other"
)

// Buckets lists the four status buckets in display order.
var Buckets = []string{StatusVerified, StatusReviewed, StatusCouldNotVerify, StatusOther}

// UnknownSteward is the attribution used when a row has no steward value.
const UnknownSteward = "Unknown"

type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindDate
)

// Value is a scalar cell as read from a sheet.
type Value struct {
	Kind Kind
	Num  float64
	Text string
	Time time.Time
}

func Empty() Value                { return Value{} }
func Number(f float64) Value      { return Value{Kind: KindNumber, Num: f} }
func Text(s string) Value         { return Value{Kind: KindText, Text: s} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// ParseCell types a raw cell string. Numbers are only recognised when the text is
// their canonical form, so identifiers such as "00123" stay text.
func ParseCell(raw string) Value {
	if raw == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == raw {
		return Number(f)
	}
	return Text(raw)
}

func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// String renders the value the way it is compared for identities and statuses.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindDate:
		return v.Time.UTC().Format(time.RFC3339)
	}
	return ""
}

// Record is one sheet row keyed by raw column label.
type Record map[string]Value

// Lookup returns the value under label, falling back to a trimmed
// case-insensitive match so rows from sibling sheets with differently cased
// headers still resolve. When several labels match, the smallest one wins.
func (r Record) Lookup(label string) Value {
	if v, ok := r[label]; ok {
		return v
	}
	want := NormalizeLabel(label)
	var (
		best  string
		found bool
	)
	for k := range r {
		if NormalizeLabel(k) == want && (!found || k < best) {
			best, found = k, true
		}
	}
	if !found {
		return Empty()
	}
	return r[best]
}

// NormalizeLabel trims and lower-cases a column label.
func NormalizeLabel(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Sheet is one worksheet: ordered headers plus its data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Record
}

// Table is the row set of one campaign after sheet selection.
type Table struct {
	Headers []string
	Rows    []Record
}
