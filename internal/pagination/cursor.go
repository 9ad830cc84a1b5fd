// Package pagination implements keyset (cursor) pagination over the compound
// key (created_at, public_id), or (value, public_id) for listings sorted on a
// numeric column, and plain offset pagination for admin listings.
//
// A cursor is the base64-encoded JSON of the last row's key. Callers treat it
// as opaque; it round-trips through Encode/Decode without loss.
package pagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder is the direction of the (created_at, id) ordering.
type SortOrder string

const (
	Desc SortOrder = "desc"
	Asc  SortOrder = "asc"
)

var (
	ErrInvalidCursor    = domain.Errorf(domain.EINVALID, "", "Invalid pagination cursor")
	ErrInvalidSortOrder = domain.Errorf(domain.EINVALID, "", "sortOrder must be asc or desc")
	ErrInvalidLimit     = domain.Errorf(domain.EINVALID, "", "limit must be a positive integer")
)

// Cursor is the tie-break key of the last row on a page. The public id is
// used instead of the internal key so that no relational id leaves the service.
// Value is set when the listing is sorted on a numeric column (price, rating);
// it then replaces CreatedAt as the primary key.
type Cursor struct {
	CreatedAt time.Time        `json:"createdAt"`
	ID        uuid.UUID        `json:"id"`
	Value     *decimal.Decimal `json:"value,omitempty"`
}

// Encode returns the opaque string form of c.
func Encode(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(b)
}

// Decode parses a cursor produced by Encode.
func Decode(s string) (Cursor, error) {
	var c Cursor
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return c, domain.WithOp(ErrInvalidCursor, "pagination.decode")
	}
	if err := json.Unmarshal(raw, &c); err != nil || c.CreatedAt.IsZero() || c.ID == uuid.Nil {
		return c, domain.WithOp(ErrInvalidCursor, "pagination.decode")
	}
	return c, nil
}

// Compare orders two keys ascending: by Value when both carry one, otherwise
// by CreatedAt, then by ID bytes. This matches PostgreSQL's ordering of
// numeric, timestamptz and uuid.
func Compare(a, b Cursor) int {
	if a.Value != nil && b.Value != nil {
		if c := a.Value.Cmp(*b.Value); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// Params is the query contract of every cursor-paginated listing.
type Params struct {
	Limit     int
	Cursor    string
	SortOrder SortOrder
}

// Normalize applies defaults and clamps the limit.
func (p Params) Normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortOrder != Asc {
		p.SortOrder = Desc
	}
	return p
}

// FetchLimit is the number of rows to request: one extra row signals a next page.
func (p Params) FetchLimit() int {
	return p.Limit + 1
}

// Decoded returns the decoded cursor, or nil when no cursor was supplied.
func (p Params) Decoded() (*Cursor, error) {
	if p.Cursor == "" {
		return nil, nil
	}
	c, err := Decode(p.Cursor)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Admits reports whether key lies strictly after the cursor c in the given order.
// A nil cursor admits everything.
func Admits(c *Cursor, order SortOrder, key Cursor) bool {
	if c == nil {
		return true
	}
	cmp := Compare(key, *c)
	if order == Asc {
		return cmp > 0
	}
	return cmp < 0
}

// Keyset builds the SQL fragments for a keyset page. The WHERE fragment admits
// rows strictly after c using the two-clause OR form; placeholders are numbered
// from argN. With no cursor the fragment is "TRUE" and args is empty. sortCol
// is compared with c.Value when the cursor carries one, else with c.CreatedAt.
func Keyset(sortCol, idCol string, order SortOrder, c *Cursor, argN int) (where, orderBy string, args []any) {
	op, dir := "<", "DESC"
	if order == Asc {
		op, dir = ">", "ASC"
	}
	orderBy = fmt.Sprintf("%s %s, %s %s", sortCol, dir, idCol, dir)

	if c == nil {
		return "TRUE", orderBy, nil
	}

	where = fmt.Sprintf("(%[1]s %[3]s $%[4]d OR (%[1]s = $%[4]d AND %[2]s %[3]s $%[5]d))",
		sortCol, idCol, op, argN, argN+1)
	var sortArg any = c.CreatedAt
	if c.Value != nil {
		sortArg = *c.Value
	}
	return where, orderBy, []any{sortArg, c.ID}
}

// ParseParams reads limit, cursor and sortOrder from a query string.
func ParseParams(q url.Values) (Params, error) {
	var p Params

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, ErrInvalidLimit
		}
		p.Limit = n
	}

	switch strings.ToLower(q.Get("sortOrder")) {
	case "", string(Desc):
		p.SortOrder = Desc
	case string(Asc):
		p.SortOrder = Asc
	default:
		return p, ErrInvalidSortOrder
	}

	p.Cursor = q.Get("cursor")
	if _, err := p.Decoded(); err != nil {
		return p, err
	}

	return p.Normalize(), nil
}
