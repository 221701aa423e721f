// Package policy implements the policy-driven validation engine: per-source
// policy documents loaded from YAML with hot reload, a schema derived from the
// declared knobs, and a pipeline of field-level checks that accumulate
// violations into an APPROVE/REJECT hint.
package policy

// Decision hints emitted by the validation engine. This is the rule-level
// signal only; the final intake disposition is decided downstream.
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// Violation codes. Stable identifiers consumed by downstream systems; the
// text is for humans and may change, the code may not.
const (
	CodeSchemaInvalid     = "SCHEMA_INVALID"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodePayloadInvalid    = "PAYLOAD_INVALID"
	CodePolicyNotFound    = "POLICY_NOT_FOUND"
	CodeNameMissing       = "NAME_MISSING"
	CodeNameTooShort      = "NAME_TOO_SHORT"
	CodeNameTooLong       = "NAME_TOO_LONG"
	CodeNameInvalidChars  = "NAME_INVALID_CHARS"
	CodeDOBMissing        = "DOB_MISSING"
	CodeDOBInvalid        = "DOB_INVALID"
	CodeAgeTooLow         = "AGE_TOO_LOW"
	CodeAgeTooHigh        = "AGE_TOO_HIGH"
	CodeIDMissing         = "ID_MISSING"
	CodeIDTooShort        = "ID_TOO_SHORT"
	CodeIDTooLong         = "ID_TOO_LONG"
	CodeIDInvalidChars    = "ID_INVALID_CHARS"
	CodeAddrMissing       = "ADDR_MISSING"
	CodeAddrTooShort      = "ADDR_TOO_SHORT"
	CodeAddrTooFewWords   = "ADDR_TOO_FEW_WORDS"
	CodeAddrInvalidChars  = "ADDR_INVALID_CHARS"
	CodeEmailMissing      = "EMAIL_MISSING"
	CodeEmailInvalid      = "EMAIL_INVALID"
	CodeFacePhotoRequired = "FACE_PHOTO_REQUIRED"
)

// Business fields recognized by the validation engine. Anything else at the
// top level of a payload (outside metadata and the ignored set) is a schema
// violation.
const (
	FieldName      = "name"
	FieldDOB       = "dob"
	FieldIDNumber  = "id_number"
	FieldAddress   = "address"
	FieldEmail     = "email"
	FieldFacePhoto = "has_face_photo"
	FieldMetadata  = "metadata"
)

// IgnoredMetadata keys are pipeline metadata, not business fields. They are
// stripped before schema validation so they never trigger SCHEMA_INVALID and
// are never validated.
var IgnoredMetadata = map[string]struct{}{
	"confidence":     {},
	"coverage_notes": {},
}

// Policy is one named validation configuration, parsed from YAML. Every knob
// is a pointer: nil means "do not constrain this aspect". A loaded Policy is
// an immutable snapshot; hot reload replaces the whole value.
type Policy struct {
	RequireName    *bool   `yaml:"require_name"`
	NameMinLen     *int    `yaml:"name_min_len"`
	NameMaxLen     *int    `yaml:"name_max_len"`
	NameAllowRegex *string `yaml:"name_allow_regex"`

	RequireDOB *bool `yaml:"require_dob"`
	MinAge     *int  `yaml:"min_age"`
	MaxAge     *int  `yaml:"max_age"`

	RequireIDNumber *bool   `yaml:"require_id_number"`
	IDMinLen        *int    `yaml:"id_min_len"`
	IDMaxLen        *int    `yaml:"id_max_len"`
	IDAllowRegex    *string `yaml:"id_allow_regex"`

	RequireAddress    *bool   `yaml:"require_address"`
	AddressMinLen     *int    `yaml:"address_min_len"`
	AddressMinWords   *int    `yaml:"address_min_words"`
	AddressAllowRegex *string `yaml:"address_allow_regex"`

	RequireEmail    *bool   `yaml:"require_email"`
	EmailAllowRegex *string `yaml:"email_allow_regex"`

	RequireFacePhoto *bool `yaml:"require_has_face_photo"`

	// Provenance, set by the loader.
	SourceID   string `yaml:"-"`
	OriginPath string `yaml:"-"`
}

// governsName reports whether any name knob is declared.
func (p *Policy) governsName() bool {
	return p.RequireName != nil || p.NameMinLen != nil || p.NameMaxLen != nil || p.NameAllowRegex != nil
}

func (p *Policy) governsDOB() bool {
	return p.RequireDOB != nil || p.MinAge != nil || p.MaxAge != nil
}

func (p *Policy) governsID() bool {
	return p.RequireIDNumber != nil || p.IDMinLen != nil || p.IDMaxLen != nil || p.IDAllowRegex != nil
}

func (p *Policy) governsAddress() bool {
	return p.RequireAddress != nil || p.AddressMinLen != nil || p.AddressMinWords != nil || p.AddressAllowRegex != nil
}

func (p *Policy) governsEmail() bool {
	return p.RequireEmail != nil || p.EmailAllowRegex != nil
}

func (p *Policy) governsFacePhoto() bool {
	return p.RequireFacePhoto != nil && *p.RequireFacePhoto
}

// Empty reports whether the policy declares no knobs at all.
func (p *Policy) Empty() bool {
	return !p.governsName() && !p.governsDOB() && !p.governsID() &&
		!p.governsAddress() && !p.governsEmail() && p.RequireFacePhoto == nil
}

// Violation is one policy finding. Citation names the policy knob that
// produced it, when there is one.
type Violation struct {
	Code     string `json:"code"`
	Text     string `json:"text"`
	Citation string `json:"citation,omitempty"`
}

// Result is the outcome of evaluating one payload against one policy.
// DecisionHint is REJECT iff Violations is non-empty.
type Result struct {
	Violations   []Violation `json:"violations"`
	DecisionHint string      `json:"decision_hint"`
	PolicySource string      `json:"policy_source"`
}

func addViolation(violations *[]Violation, code, text, citation string) {
	*violations = append(*violations, Violation{Code: code, Text: text, Citation: citation})
}
