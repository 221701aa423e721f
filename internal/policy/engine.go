package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	docotel "github.com/docugate-io/docugate/internal/otel"
)

// MaxPayloadBytes is the serialized-payload ceiling. Anything larger is
// rejected outright with PAYLOAD_TOO_LARGE before any other work.
const MaxPayloadBytes = 100_000

// ErrBadPayloadType is returned when a caller hands the engine something that
// is neither an object, a list, nor serialized JSON text. This is a
// collaborator contract violation, not bad user data, so it surfaces as an
// error instead of a violation.
var ErrBadPayloadType = errors.New("payload must be a map, slice, string, or []byte")

// Engine orchestrates policy loading, schema derivation, and field checks
// into one Evaluate call. It owns the policy cache through its Source;
// otherwise it is stateless and every call is an independent unit of work.
type Engine struct {
	source *Source
}

// NewEngine creates a validation engine over the given policy source.
func NewEngine(source *Source) *Engine {
	return &Engine{source: source}
}

// Evaluate validates payload against the policy for sourceID.
//
// It always returns a Result for any object/list/text payload: input problems
// (oversized, malformed, unknown fields) and a missing policy become REJECT
// violations, never errors. The only non-nil error is ErrBadPayloadType for
// payloads of an entirely wrong Go type.
func (e *Engine) Evaluate(ctx context.Context, sourceID string, payload any) (*Result, error) {
	ctx, span := tracer.Start(ctx, "policy.evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("policy.source_id", sourceID))

	evaluationsTotal.Add(ctx, 1)

	raw, size, err := rawBytes(payload)
	if err != nil {
		return nil, err
	}

	if size > MaxPayloadBytes {
		span.SetAttributes(attribute.Bool("policy.payload_too_large", true))
		return reject("n/a", Violation{
			Code:     CodePayloadTooLarge,
			Text:     "Payload exceeds limit",
			Citation: "size",
		}), nil
	}

	pol, err := e.source.Load(ctx, sourceID)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			return reject("missing", Violation{
				Code:     CodePolicyNotFound,
				Text:     fmt.Sprintf("No policy found for source_id %q", sourceID),
				Citation: "rules",
			}), nil
		}
		// Unreadable or unparseable policy document: same resolution failure
		// from the caller's perspective.
		log.Warn().Err(err).Str("source_id", sourceID).Msg("policy load failed")
		return reject("missing", Violation{
			Code:     CodePolicyNotFound,
			Text:     err.Error(),
			Citation: "rules",
		}), nil
	}

	obj, err := parsePayload(payload, raw)
	if err != nil {
		return reject(pol.OriginPath, Violation{
			Code:     CodePayloadInvalid,
			Text:     err.Error(),
			Citation: "json",
		}), nil
	}

	obj = stripIgnoredMetadata(obj)

	rec := NewRecord(obj)

	// Non-nil so an APPROVE serializes as "violations": [].
	violations := []Violation{}
	violations = append(violations, CheckSchema(pol, rec.NormalizedPayload(obj))...)
	violations = append(violations, RunFieldChecks(pol, rec)...)

	result := &Result{
		Violations:   violations,
		DecisionHint: DecisionApprove,
		PolicySource: pol.OriginPath,
	}
	if len(violations) > 0 {
		result.DecisionHint = DecisionReject
		rejectionsTotal.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int("policy.violations", len(violations)),
		attribute.String("policy.decision_hint", result.DecisionHint),
	)
	log.Debug().
		Str("source_id", sourceID).
		Str("decision_hint", result.DecisionHint).
		Int("violations", len(violations)).
		Func(docotel.LogTraceFields(ctx)).
		Msg("payload evaluated")
	return result, nil
}

func reject(policySource string, v Violation) *Result {
	return &Result{
		Violations:   []Violation{v},
		DecisionHint: DecisionReject,
		PolicySource: policySource,
	}
}

// rawBytes returns the serialized form of payload (for the size guard) and
// its byte length. Text payloads are measured as given; structured payloads
// are measured by their JSON encoding.
func rawBytes(payload any) (raw []byte, size int, err error) {
	switch p := payload.(type) {
	case string:
		return []byte(p), len(p), nil
	case []byte:
		return p, len(p), nil
	case json.RawMessage:
		return p, len(p), nil
	case map[string]any, []any:
		encoded, err := json.Marshal(p)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrBadPayloadType, err)
		}
		return nil, len(encoded), nil
	default:
		return nil, 0, ErrBadPayloadType
	}
}

// parsePayload produces the object under validation. Lists are wrapped under
// a "payload" key (which the closed schema will flag); text is decoded and
// must hold a top-level object.
func parsePayload(payload any, raw []byte) (map[string]any, error) {
	switch p := payload.(type) {
	case map[string]any:
		return p, nil
	case []any:
		return map[string]any{"payload": p}, nil
	default:
		var obj any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("payload is not valid JSON: %v", err)
		}
		m, ok := obj.(map[string]any)
		if !ok {
			return nil, errors.New("top-level JSON must be an object")
		}
		return m, nil
	}
}

// stripIgnoredMetadata returns a shallow copy of payload without the pipeline
// metadata keys, so the strict schema never flags them and the caller's map
// is left untouched.
func stripIgnoredMetadata(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if _, ignored := IgnoredMetadata[k]; ignored {
			continue
		}
		out[k] = v
	}
	return out
}
