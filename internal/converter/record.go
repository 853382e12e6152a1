package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingField = errors.New("required field missing from record")
	ErrUnknownField = errors.New("unknown field in record")
	ErrInvalidField = errors.New("field has an unexpected type")
)

// Record is a store row keyed by snake_case column name.
type Record map[string]interface{}

// timeLayouts covers what the postgres and sqlite drivers hand back for
// timestamp columns when they are not already decoded.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// unwrap dereferences the *interface{} holders some drivers scan untyped
// columns into.
func unwrap(v interface{}) interface{} {
	for {
		p, ok := v.(*interface{})
		if !ok {
			return v
		}
		if p == nil {
			return nil
		}
		v = *p
	}
}

func toString(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case fmt.Stringer:
		return val.String(), nil
	}
	return "", fmt.Errorf("cannot read %T as text", v)
}

func toBool(v interface{}) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case int64:
		return val != 0, nil
	case int:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case string:
		return strconv.ParseBool(val)
	case []byte:
		return strconv.ParseBool(string(val))
	}
	return false, fmt.Errorf("cannot read %T as bool", v)
}

func toDecimal(v interface{}) (*decimal.Decimal, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case decimal.Decimal:
		d = val
	case *decimal.Decimal:
		if val == nil {
			return nil, nil
		}
		d = *val
	case int64:
		d = decimal.NewFromInt(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case float64:
		d = decimal.NewFromFloat(val)
	case float32:
		d = decimal.NewFromFloat32(val)
	case string, []byte:
		s, _ := toString(val)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		d = parsed
	default:
		return nil, fmt.Errorf("cannot read %T as number", v)
	}
	return &d, nil
}

func toFloat(v interface{}) (*float64, error) {
	d, err := toDecimal(v)
	if err != nil || d == nil {
		return nil, err
	}
	f, _ := d.Float64()
	return &f, nil
}

func toTime(v interface{}) (*time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		t := val.UTC()
		return &t, nil
	case *time.Time:
		if val == nil {
			return nil, nil
		}
		t := val.UTC()
		return &t, nil
	case string, []byte:
		s, _ := toString(val)
		if s == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t, nil
			}
		}
		return nil, fmt.Errorf("unrecognised time %q", s)
	}
	return nil, fmt.Errorf("cannot read %T as time", v)
}

func toUUID(v interface{}) (uuid.UUID, error) {
	switch val := v.(type) {
	case uuid.UUID:
		return val, nil
	case [16]byte:
		return uuid.UUID(val), nil
	case []byte:
		if len(val) == 16 {
			return uuid.FromBytes(val)
		}
		return uuid.ParseBytes(val)
	case string:
		return uuid.Parse(val)
	}
	return uuid.Nil, fmt.Errorf("cannot read %T as uuid", v)
}

func toStringList(v interface{}) (entity.StringList, error) {
	switch val := v.(type) {
	case entity.StringList:
		return val, nil
	case []string:
		return entity.StringList(val), nil
	case []interface{}:
		list := make(entity.StringList, 0, len(val))
		for _, item := range val {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return list, nil
	case string, []byte:
		var list entity.StringList
		if err := list.Scan(val); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("cannot read %T as string array", v)
}

// reader decodes one record against its schema, keeping the first error.
type reader struct {
	kind string
	rec  Record
	err  error
}

func (r *reader) value(col string) interface{} {
	if r.err != nil {
		return nil
	}
	return unwrap(r.rec[col])
}

func (r *reader) fail(col string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s.%s: %v", ErrInvalidField, r.kind, col, err)
	}
}

func (r *reader) str(col string) string {
	v := r.value(col)
	if v == nil {
		return ""
	}
	s, err := toString(v)
	if err != nil {
		r.fail(col, err)
	}
	return s
}

func (r *reader) boolean(col string) bool {
	v := r.value(col)
	if v == nil {
		return false
	}
	b, err := toBool(v)
	if err != nil {
		r.fail(col, err)
	}
	return b
}

func (r *reader) optBool(col string) *bool {
	v := r.value(col)
	if v == nil {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		r.fail(col, err)
		return nil
	}
	return &b
}

func (r *reader) decimal(col string) *decimal.Decimal {
	v := r.value(col)
	if v == nil {
		return nil
	}
	d, err := toDecimal(v)
	if err != nil {
		r.fail(col, err)
	}
	return d
}

func (r *reader) float(col string) *float64 {
	v := r.value(col)
	if v == nil {
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		r.fail(col, err)
	}
	return f
}

func (r *reader) optTime(col string) *time.Time {
	v := r.value(col)
	if v == nil {
		return nil
	}
	t, err := toTime(v)
	if err != nil {
		r.fail(col, err)
	}
	return t
}

func (r *reader) time(col string) time.Time {
	if t := r.optTime(col); t != nil {
		return *t
	}
	return time.Time{}
}

func (r *reader) uuid(col string) uuid.UUID {
	v := r.value(col)
	if v == nil {
		return uuid.Nil
	}
	id, err := toUUID(v)
	if err != nil {
		r.fail(col, err)
	}
	return id
}

func (r *reader) optUUID(col string) *uuid.UUID {
	v := r.value(col)
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	id, err := toUUID(v)
	if err != nil {
		r.fail(col, err)
		return nil
	}
	return &id
}

func (r *reader) list(col string) entity.StringList {
	v := r.value(col)
	if v == nil {
		return nil
	}
	l, err := toStringList(v)
	if err != nil {
		r.fail(col, err)
	}
	return l
}

// Outbound helpers. Empty optional values are written as NULL.

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

func nullBool(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

// listValue keeps a nil list as is; StringList.Value writes it as [].
func listValue(l entity.StringList) interface{} {
	return l
}

// MarshalRecords encodes records for a key/value cache.
func MarshalRecords(records []Record) ([]byte, error) {
	return json.Marshal(records)
}

// UnmarshalRecords decodes records written by MarshalRecords.
func UnmarshalRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
