package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"fwinventory/internal/domain"
)

// ============================================================================
// Null Conversion Helpers
// ============================================================================

// nullToString converts sql.NullString to string (empty if null)
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull converts string to sql.NullString (null if empty)
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullToIntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func intPtrToNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// trustToNull stores trusted as 1, untrusted as 0 and unknown as NULL
func trustToNull(t domain.Trust) sql.NullInt64 {
	switch t {
	case domain.TrustTrusted:
		return sql.NullInt64{Int64: 1, Valid: true}
	case domain.TrustUntrusted:
		return sql.NullInt64{Int64: 0, Valid: true}
	}
	return sql.NullInt64{}
}

func nullToTrust(ni sql.NullInt64) domain.Trust {
	if !ni.Valid {
		return domain.TrustUnknown
	}
	if ni.Int64 != 0 {
		return domain.TrustTrusted
	}
	return domain.TrustUntrusted
}

func uuidPtrToNull(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullToUUIDPtr(nu uuid.NullUUID) *uuid.UUID {
	if !nu.Valid {
		return nil
	}
	id := nu.UUID
	return &id
}

// dnsColumns spreads up to three servers over dns1..dns3
func dnsColumns(servers []string) [domain.MaxDNSServers]sql.NullString {
	var cols [domain.MaxDNSServers]sql.NullString
	for i := 0; i < len(servers) && i < len(cols); i++ {
		cols[i] = stringToNull(servers[i])
	}
	return cols
}

func dnsServers(cols ...sql.NullString) []string {
	var out []string
	for _, c := range cols {
		if c.Valid && c.String != "" {
			out = append(out, c.String)
		}
	}
	return out
}

// ============================================================================
// Filter Columns
// ============================================================================

// filterColumn maps a JSON field name onto a column. convert normalizes a
// caller-supplied value to its stored form; a nil result means IS NULL.
type filterColumn struct {
	column  string
	convert func(any) (any, error)
}

func textFilter(column string) filterColumn {
	return filterColumn{column: column, convert: asText(false)}
}

// nullableTextFilter treats "" as NULL, matching how the column is stored
func nullableTextFilter(column string) filterColumn {
	return filterColumn{column: column, convert: asText(true)}
}

func intFilter(column string) filterColumn {
	return filterColumn{column: column, convert: asInt}
}

func idFilter(column string) filterColumn {
	return filterColumn{column: column, convert: asID}
}

func ipFilter(column string) filterColumn {
	return filterColumn{column: column, convert: canonical(domain.CanonicalIP)}
}

func macFilter(column string) filterColumn {
	return filterColumn{column: column, convert: canonical(domain.CanonicalMAC)}
}

func trustFilter(column string) filterColumn {
	return filterColumn{column: column, convert: asTrust}
}

func asText(emptyIsNull bool) func(any) (any, error) {
	return func(v any) (any, error) {
		var s string
		switch t := v.(type) {
		case nil:
			return nil, nil
		case string:
			s = t
		case domain.Protocol:
			s = string(t)
		case int:
			s = strconv.Itoa(t)
		case fmt.Stringer:
			s = t.String()
		default:
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		if emptyIsNull && s == "" {
			return nil, nil
		}
		return s, nil
	}
}

func asInt(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case *int:
		if t == nil {
			return nil, nil
		}
		return int64(*t), nil
	case float64:
		if t != float64(int64(t)) {
			return nil, fmt.Errorf("%v is not an integer", t)
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", t)
		}
		return n, nil
	}
	return nil, fmt.Errorf("expected an integer, got %T", v)
}

func asID(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return t.String(), nil
	case *uuid.UUID:
		if t == nil {
			return nil, nil
		}
		return t.String(), nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, fmt.Errorf("%q is not an id", t)
		}
		return id.String(), nil
	}
	return nil, fmt.Errorf("expected an id, got %T", v)
}

// canonical normalizes addresses so filters match stored values. Values
// that do not parse are compared verbatim and simply match nothing.
func canonical(parse func(string) (string, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		s, err := asText(true)(v)
		if s == nil || err != nil {
			return s, err
		}
		if c, err := parse(s.(string)); err == nil {
			return c, nil
		}
		return s, nil
	}
}

func asTrust(v any) (any, error) {
	var t domain.Trust
	switch b := v.(type) {
	case nil:
		return nil, nil
	case bool:
		t = domain.TrustFromBool(&b)
	case *bool:
		t = domain.TrustFromBool(b)
	case string:
		flag, err := strconv.ParseBool(b)
		if err != nil {
			return nil, fmt.Errorf("%q is not true or false", b)
		}
		t = domain.TrustFromBool(&flag)
	case domain.Trust:
		if !b.Valid() {
			return nil, fmt.Errorf("%d is not a trust state", int8(b))
		}
		t = b
	default:
		return nil, fmt.Errorf("expected true, false or null, got %T", v)
	}
	if nt := trustToNull(t); nt.Valid {
		return nt.Int64, nil
	}
	return nil, nil
}
