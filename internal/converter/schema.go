package converter

import (
	"fmt"
	"sort"
)

// Field is one store column of a record kind.
type Field struct {
	Column   string
	Required bool
}

// Schema declares the columns a record kind may carry.
type Schema struct {
	Kind   string
	Fields []Field
}

func required(col string) Field { return Field{Column: col, Required: true} }
func optional(col string) Field { return Field{Column: col} }

// Columns lists the schema's column names in declaration order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Column
	}
	return cols
}

func (s Schema) has(col string) bool {
	for _, f := range s.Fields {
		if f.Column == col {
			return true
		}
	}
	return false
}

// Mapper converts between store records and entities. In strict mode a
// record carrying a column its schema does not declare is rejected; otherwise
// such columns are dropped.
type Mapper struct {
	Strict bool
}

func NewMapper(strict bool) *Mapper {
	return &Mapper{Strict: strict}
}

// check validates rec against schema before decoding.
func (m *Mapper) check(schema Schema, rec Record) error {
	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if v, ok := rec[f.Column]; !ok || unwrap(v) == nil {
			return fmt.Errorf("%w: %s.%s", ErrMissingField, schema.Kind, f.Column)
		}
	}
	if m == nil || !m.Strict {
		return nil
	}
	var unknown []string
	for col := range rec {
		if !schema.has(col) {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s.%v", ErrUnknownField, schema.Kind, unknown)
	}
	return nil
}

func (m *Mapper) reader(schema Schema, rec Record) (*reader, error) {
	if err := m.check(schema, rec); err != nil {
		return nil, err
	}
	return &reader{kind: schema.Kind, rec: rec}, nil
}

var AssistantSchema = Schema{
	Kind: "assistant",
	Fields: []Field{
		required("id"),
		required("name"),
		required("email"),
		required("phone"),
		optional("address"),
		optional("photo"),
		required("role"),
		optional("id_photo"),
		optional("other_details"),
		required("services"),
		required("pricing_model"),
		optional("rate"),
		optional("rate_min"),
		optional("rate_max"),
		required("verification_status"),
		optional("created_at"),
	},
}

var PatientSchema = Schema{
	Kind: "patient",
	Fields: []Field{
		required("id"),
		required("name"),
		required("contact"),
		required("location"),
		required("is_patient"),
		required("has_insurance"),
		optional("insurance_provider"),
		optional("insurance_number"),
		required("has_card"),
		optional("card_photo"),
		optional("card_details"),
		optional("id_photo"),
		optional("created_at"),
	},
}

var HospitalSchema = Schema{
	Kind: "hospital",
	Fields: []Field{
		required("id"),
		required("name"),
		required("location"),
		required("city"),
	},
}

var HospitalSessionSchema = Schema{
	Kind: "hospital_session",
	Fields: []Field{
		required("id"),
		optional("patient_id"),
		required("patient_name"),
		required("patient_gender"),
		required("patient_age_range"),
		optional("special_service"),
		required("hospital_id"),
		required("hospital_name"),
		optional("assistant_id"),
		required("status"),
		optional("created_at"),
		optional("accepted_at"),
		optional("completed_at"),
		required("requester_name"),
		required("is_requester_patient"),
		optional("estimated_arrival"),
		optional("location"),
		optional("has_insurance"),
		optional("insurance_provider"),
		optional("has_card"),
		optional("notes"),
		optional("invoice_amount"),
		optional("invoice_review"),
		optional("invoice_paid_at"),
	},
}

var HomeCareRequestSchema = Schema{
	Kind: "home_care_request",
	Fields: []Field{
		required("id"),
		optional("profile_id"),
		required("address"),
		optional("latitude"),
		optional("longitude"),
		required("is_patient"),
		optional("patient_gender"),
		optional("patient_age"),
		required("services"),
		required("is_at_location"),
		optional("contact_person"),
		optional("patient_name"),
		required("requester_name"),
		optional("requester_contact"),
		optional("assistant_id"),
		required("status"),
		optional("created_at"),
		optional("scheduled_at"),
		optional("accepted_at"),
		optional("completed_at"),
		optional("notes"),
		optional("invoice_amount"),
		optional("invoice_paid_at"),
	},
}

var HealthSuppliesRequestSchema = Schema{
	Kind: "health_supplies_request",
	Fields: []Field{
		required("id"),
		optional("profile_id"),
		required("has_prescription"),
		required("prescription_images"),
		optional("items_needed"),
		required("delivery_address"),
		required("urgency"),
		optional("flexible_date"),
		required("recipient_type"),
		optional("recipient_name"),
		optional("recipient_gender"),
		optional("recipient_age"),
		required("requester_name"),
		optional("assistant_id"),
		required("status"),
		optional("created_at"),
		optional("assigned_at"),
		optional("delivered_at"),
		optional("notes"),
	},
}

var LiveSessionSchema = Schema{
	Kind: "live_session",
	Fields: []Field{
		required("id"),
		required("assistant_id"),
		required("hospital_id"),
		required("hospital_name"),
		required("from_date"),
		required("from_time"),
		required("to_date"),
		required("to_time"),
		optional("started_at"),
		optional("ended_at"),
		optional("offline_notes"),
	},
}

// RequestSummarySchema describes cached open-request summaries.
var RequestSummarySchema = Schema{
	Kind: "request_summary",
	Fields: []Field{
		required("id"),
		required("kind"),
		required("kind_label"),
		required("title"),
		required("subtitle"),
		required("location"),
		required("status"),
		required("canonical_status"),
		required("created_at"),
		optional("estimated_arrival"),
		required("requester_name"),
	},
}
