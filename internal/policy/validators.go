package policy

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Record is the canonical parsed form of an identity payload. String fields
// carry the normalized value; Present means the key was supplied as a
// non-empty string. FacePhoto keeps the raw value since the check cares about
// the exact boolean.
type Record struct {
	Name     Field
	DOB      Field
	IDNumber Field
	Address  Field
	Email    Field

	FacePhoto    any
	FacePhotoSet bool
}

// Field is one optional string field of the record.
type Field struct {
	Value   string
	Present bool
}

func stringField(payload map[string]any, key string) Field {
	raw, ok := payload[key]
	if !ok {
		return Field{}
	}
	s, ok := raw.(string)
	if !ok {
		// Wrong type is a schema concern; field checks treat it as absent.
		return Field{}
	}
	s = NormalizeString(s)
	return Field{Value: s, Present: s != ""}
}

// NewRecord extracts and normalizes the recognized business fields from a
// payload map.
func NewRecord(payload map[string]any) *Record {
	rec := &Record{
		Name:     stringField(payload, FieldName),
		DOB:      stringField(payload, FieldDOB),
		IDNumber: stringField(payload, FieldIDNumber),
		Address:  stringField(payload, FieldAddress),
		Email:    stringField(payload, FieldEmail),
	}
	rec.FacePhoto, rec.FacePhotoSet = payload[FieldFacePhoto]
	return rec
}

// NormalizedPayload returns a copy of payload with recognized string fields
// replaced by their normalized values, for schema validation.
func (r *Record) NormalizedPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	for key, f := range map[string]Field{
		FieldName:     r.Name,
		FieldDOB:      r.DOB,
		FieldIDNumber: r.IDNumber,
		FieldAddress:  r.Address,
		FieldEmail:    r.Email,
	} {
		if _, ok := out[key]; ok && f.Present {
			out[key] = f.Value
		}
	}
	return out
}

// fieldCheck is one named, pure validation step. Checks run in a fixed order
// and each appends zero or more violations; none can stop the pipeline.
type fieldCheck struct {
	name string
	fn   func(pol *Policy, rec *Record) []Violation
}

var fieldChecks = []fieldCheck{
	{FieldName, checkName},
	{FieldDOB, checkDOBAndAge},
	{FieldIDNumber, checkIDNumber},
	{FieldAddress, checkAddress},
	{FieldEmail, checkEmail},
	{FieldFacePhoto, checkFacePhoto},
}

// RunFieldChecks runs the full validator pipeline and returns the accumulated
// violations in pipeline order.
func RunFieldChecks(pol *Policy, rec *Record) []Violation {
	var violations []Violation
	for _, check := range fieldChecks {
		violations = append(violations, check.fn(pol, rec)...)
	}
	return violations
}

// allowRegex compiles an allow-list pattern for full-string matching.
// Empty or blank patterns mean "no constraint". A pattern that fails to
// compile is a policy authoring error; it is logged and skipped rather than
// failing the whole evaluation.
func allowRegex(pattern *string, knob string) *regexp.Regexp {
	if pattern == nil {
		return nil
	}
	patt := strings.TrimSpace(*pattern)
	if patt == "" {
		return nil
	}
	re, err := regexp.Compile(`^(?:` + patt + `)$`)
	if err != nil {
		log.Warn().Err(err).Str("knob", knob).Msg("invalid allow regex in policy, skipping check")
		return nil
	}
	return re
}

// Validate-if-present: a required-but-absent field emits X_MISSING and skips
// the remaining checks for that field; a present field is always checked
// against its length/format/range knobs regardless of the require flag.

func checkName(pol *Policy, rec *Record) []Violation {
	var v []Violation
	if boolKnob(pol.RequireName) && !rec.Name.Present {
		addViolation(&v, CodeNameMissing, "Name is required", "require_name")
		return v
	}
	if !rec.Name.Present {
		return v
	}
	name := rec.Name.Value
	if pol.NameMinLen != nil && len(name) < *pol.NameMinLen {
		addViolation(&v, CodeNameTooShort, fmt.Sprintf("Name shorter than %d", *pol.NameMinLen), "name_min_len")
	}
	if pol.NameMaxLen != nil && len(name) > *pol.NameMaxLen {
		addViolation(&v, CodeNameTooLong, fmt.Sprintf("Name longer than %d", *pol.NameMaxLen), "name_max_len")
	}
	if re := allowRegex(pol.NameAllowRegex, "name_allow_regex"); re != nil && !re.MatchString(name) {
		addViolation(&v, CodeNameInvalidChars, "Invalid characters in name", "name_allow_regex")
	}
	return v
}

var dobShape = regexp.MustCompile(dobISOPattern)

func checkDOBAndAge(pol *Policy, rec *Record) []Violation {
	var v []Violation
	if boolKnob(pol.RequireDOB) && !rec.DOB.Present {
		addViolation(&v, CodeDOBMissing, "DOB is required (YYYY-MM-DD)", "require_dob")
		return v
	}
	if !rec.DOB.Present {
		return v
	}
	dob := rec.DOB.Value
	if !dobShape.MatchString(dob) {
		addViolation(&v, CodeDOBInvalid, "DOB must be a real date in YYYY-MM-DD", "require_dob")
		return v
	}
	born, err := time.ParseInLocation("2006-01-02", dob, time.Local)
	if err != nil {
		addViolation(&v, CodeDOBInvalid, "DOB must be a real date in YYYY-MM-DD", "require_dob")
		return v
	}
	age := elapsedYears(born, time.Now())
	if pol.MinAge != nil && age < *pol.MinAge {
		addViolation(&v, CodeAgeTooLow, fmt.Sprintf("Age %d < min %d", age, *pol.MinAge), "min_age")
	}
	if pol.MaxAge != nil && age > *pol.MaxAge {
		addViolation(&v, CodeAgeTooHigh, fmt.Sprintf("Age %d > max %d", age, *pol.MaxAge), "max_age")
	}
	return v
}

// elapsedYears returns full elapsed years from born to now, using the local
// evaluation clock.
func elapsedYears(born, now time.Time) int {
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}

func checkIDNumber(pol *Policy, rec *Record) []Violation {
	var v []Violation
	if boolKnob(pol.RequireIDNumber) && !rec.IDNumber.Present {
		addViolation(&v, CodeIDMissing, "ID number is required", "require_id_number")
		return v
	}
	if !rec.IDNumber.Present {
		return v
	}
	idn := rec.IDNumber.Value
	if pol.IDMinLen != nil && len(idn) < *pol.IDMinLen {
		addViolation(&v, CodeIDTooShort, fmt.Sprintf("ID shorter than %d", *pol.IDMinLen), "id_min_len")
	}
	if pol.IDMaxLen != nil && len(idn) > *pol.IDMaxLen {
		addViolation(&v, CodeIDTooLong, fmt.Sprintf("ID longer than %d", *pol.IDMaxLen), "id_max_len")
	}
	if re := allowRegex(pol.IDAllowRegex, "id_allow_regex"); re != nil && !re.MatchString(idn) {
		addViolation(&v, CodeIDInvalidChars, "Invalid characters/format in ID", "id_allow_regex")
	}
	return v
}

func checkAddress(pol *Policy, rec *Record) []Violation {
	var v []Violation
	if boolKnob(pol.RequireAddress) && !rec.Address.Present {
		addViolation(&v, CodeAddrMissing, "Address is required", "require_address")
		return v
	}
	if !rec.Address.Present {
		return v
	}
	addr := rec.Address.Value
	if pol.AddressMinLen != nil && len(addr) < *pol.AddressMinLen {
		addViolation(&v, CodeAddrTooShort, fmt.Sprintf("Address shorter than %d characters", *pol.AddressMinLen), "address_min_len")
	}
	if pol.AddressMinWords != nil && countWords(addr) < *pol.AddressMinWords {
		addViolation(&v, CodeAddrTooFewWords, fmt.Sprintf("Address has fewer than %d words", *pol.AddressMinWords), "address_min_words")
	}
	if re := allowRegex(pol.AddressAllowRegex, "address_allow_regex"); re != nil && !re.MatchString(addr) {
		addViolation(&v, CodeAddrInvalidChars, "Invalid characters in address", "address_allow_regex")
	}
	return v
}

func checkEmail(pol *Policy, rec *Record) []Violation {
	var v []Violation
	if boolKnob(pol.RequireEmail) && !rec.Email.Present {
		addViolation(&v, CodeEmailMissing, "Email is required", "require_email")
		return v
	}
	if !rec.Email.Present {
		return v
	}
	if re := allowRegex(pol.EmailAllowRegex, "email_allow_regex"); re != nil && !re.MatchString(rec.Email.Value) {
		addViolation(&v, CodeEmailInvalid, "Email format is invalid", "email_allow_regex")
	}
	return v
}

// checkFacePhoto demands the exact boolean true; any other value, including
// an absent field, fails when the knob is on.
func checkFacePhoto(pol *Policy, rec *Record) []Violation {
	if !boolKnob(pol.RequireFacePhoto) {
		return nil
	}
	if b, ok := rec.FacePhoto.(bool); rec.FacePhotoSet && ok && b {
		return nil
	}
	return []Violation{{
		Code:     CodeFacePhotoRequired,
		Text:     "Face photo is required (boolean true)",
		Citation: "require_has_face_photo",
	}}
}

func boolKnob(b *bool) bool {
	return b != nil && *b
}
