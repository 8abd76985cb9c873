package validator

import (
	"fmt"
	"math"
	"strings"
)

// presence says how strictly a field must exist in the body.
type presence int

const (
	// optional fields are only checked when present and non-null.
	optional presence = iota
	// requireKey demands the key exists; a null value still reaches the
	// field's checks.
	requireKey
	// requireValue demands the key exists with a non-null, non-empty value.
	requireValue
)

// checkFn inspects one field value and reports the first violated
// constraint, if any. It is only called on values that passed the presence
// gate.
type checkFn func(field string, value any) Outcome

// rule binds one field to its ordered constraints.
type rule struct {
	field    string
	presence presence
	checks   []checkFn
}

// ruleSet is the fixed, ordered constraint table for one operation kind.
type ruleSet []rule

// apply evaluates the rules in declared order against a decoded body and
// returns the first failure, or a valid outcome. Given the same body it
// always returns the same outcome.
func (rs ruleSet) apply(body map[string]any) Outcome {
	if body == nil {
		return badRequest("Request body is required")
	}
	for _, r := range rs {
		value, present := body[r.field]
		switch r.presence {
		case requireKey:
			if !present {
				return badRequest(fmt.Sprintf("Field '%s' is required", r.field))
			}
		case requireValue:
			if !present || value == nil || value == "" {
				return badRequest(fmt.Sprintf("Field '%s' is required", r.field))
			}
		}
		if !present || (r.presence == optional && value == nil) {
			continue
		}
		for _, check := range r.checks {
			if out := check(r.field, value); !out.Valid {
				return out
			}
		}
	}
	return ok()
}

// toNumber accepts the numeric shapes a decoded JSON body (or a test
// fixture) can carry.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isWhole(f float64) bool {
	return f == math.Trunc(f)
}

// typeString requires a string value; message is the full complaint since
// some operations describe the expected encoding, not just the type.
func typeString(message string) checkFn {
	return func(field string, value any) Outcome {
		if _, isStr := value.(string); !isStr {
			return badRequest(message)
		}
		return ok()
	}
}

func maxLength(limit int) checkFn {
	return func(field string, value any) Outcome {
		if s, isStr := value.(string); isStr && len(s) > limit {
			return badRequest(fmt.Sprintf("Text exceeds maximum length of %d characters", limit))
		}
		return ok()
	}
}

func notBlank() checkFn {
	return func(field string, value any) Outcome {
		if s, isStr := value.(string); isStr && len(strings.TrimSpace(s)) == 0 {
			return badRequest(fmt.Sprintf("Field '%s' cannot be empty or whitespace only", field))
		}
		return ok()
	}
}

// maxBase64Size bounds the estimated decoded size of a base64 payload
// (base64 inflates by ~4/3) without paying for an actual decode.
func maxBase64Size(maxBytes int) checkFn {
	return func(field string, value any) Outcome {
		s, isStr := value.(string)
		if !isStr {
			return ok()
		}
		if len(s)*3/4 > maxBytes {
			return badRequest(fmt.Sprintf("Audio exceeds maximum size of %dMB", maxBytes/(1024*1024)))
		}
		return ok()
	}
}

func typeNumber() checkFn {
	return func(field string, value any) Outcome {
		if _, isNum := toNumber(value); !isNum {
			return badRequest(fmt.Sprintf("Field '%s' must be a number", field))
		}
		return ok()
	}
}

func inRange(min, max float64) checkFn {
	return func(field string, value any) Outcome {
		n, isNum := toNumber(value)
		if isNum && (n < min || n > max) {
			return badRequest(fmt.Sprintf("Field '%s' must be between %g and %g", field, min, max))
		}
		return ok()
	}
}

func typeArray() checkFn {
	return func(field string, value any) Outcome {
		if _, isArr := value.([]any); isArr {
			return ok()
		}
		if _, isArr := value.([]string); isArr {
			return ok()
		}
		return badRequest(fmt.Sprintf("Field '%s' must be an array", field))
	}
}

func supportedLanguage() checkFn {
	return func(field string, value any) Outcome {
		s, isStr := value.(string)
		if isStr && s == "" {
			return ok()
		}
		if !isStr || !SupportedLanguages[s] {
			return badRequest(fmt.Sprintf("Unsupported language '%v'. Supported: %s",
				value, strings.Join(supportedLanguageList, ", ")))
		}
		return ok()
	}
}

// coverageShape validates the nested pose-coverage summary attached to
// transcription requests.
func coverageShape() checkFn {
	return func(field string, value any) Outcome {
		cov, isObj := value.(map[string]any)
		if !isObj {
			return badRequest(fmt.Sprintf("Field '%s' must be an object", field))
		}
		if frac, isNum := toNumber(cov["skipFraction"]); !isNum || frac < 0 || frac > 1 {
			return badRequest(fmt.Sprintf("Field '%s.skipFraction' must be between 0 and 1", field))
		}
		for _, sub := range []string{"attemptedJoints", "skippedJoints"} {
			n, isNum := toNumber(cov[sub])
			if !isNum || !isWhole(n) || n < 0 {
				return badRequest(fmt.Sprintf("Field '%s.%s' must be a non-negative integer", field, sub))
			}
		}
		if top, present := cov["topSkippedJoints"]; present && top != nil {
			if out := typeArray()(field+".topSkippedJoints", top); !out.Valid {
				return out
			}
		}
		return ok()
	}
}
