package ucloud

import (
	"crypto/sha1" // #nosec G505 -- the provider's signature scheme is defined over SHA-1
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SignatureParam is added to a request after signing and never signed itself
const SignatureParam = "Signature"

// ErrUnsignable is wrapped by SignError for values that have no canonical form
var ErrUnsignable = errors.New("ucloud: unsignable parameter")

// SignError names the parameter that could not be canonicalized
type SignError struct {
	Param  string
	Reason string
}

func (e *SignError) Error() string {
	return fmt.Sprintf("ucloud: cannot sign parameter %q: %s", e.Param, e.Reason)
}

func (e *SignError) Unwrap() error {
	return ErrUnsignable
}

// Params is a flat set of request parameters. Values are strings, bools,
// integers or floats.
type Params map[string]any

// Sign computes the request signature: parameters sorted by name, each
// rendered as name followed by its canonical value, the private key
// appended, hashed with SHA-1 and hex encoded.
func Sign(params Params, privateKey string) (string, error) {
	canonical, err := CanonicalString(params)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(canonical + privateKey)) // #nosec G401
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalString renders params in signing order without the private key.
func CanonicalString(params Params) (string, error) {
	keys := lo.Without(lo.Keys(params), SignatureParam)
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		v, err := CanonicalValue(params[k])
		if err != nil {
			return "", &SignError{Param: k, Reason: err.Error()}
		}
		b.WriteString(k)
		b.WriteString(v)
	}
	return b.String(), nil
}

// CanonicalValue renders a single parameter value.
// Floats use plain decimal notation with no exponent and no trailing zeros,
// so 42.0 becomes "42" and 3.10 becomes "3.1".
func CanonicalValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case nil:
		return "", errors.New("nil value")
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v", f)
	}
	// covers -0
	if f == 0 {
		return "0", nil
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize), nil
}
