package aliexpress

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params is the parameter bag of one API call. Values are strings or
// numeric scalars; anything else is left out of both the signature and
// the query string.
type Params map[string]any

// Sign computes the request signature the affiliate API expects:
//
//	MD5(secret + k1 + v1 + k2 + v2 + ... + secret), upper-case hex
//
// with keys in byte-wise order. The "sign" key itself, nested values and
// strings starting with "@" are skipped.
func Sign(params Params, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(secret)
	for _, k := range keys {
		if k == "sign" {
			continue
		}
		v, ok := scalarString(params[k])
		if !ok {
			continue
		}
		if s, isString := params[k].(string); isString && strings.HasPrefix(s, "@") {
			continue
		}
		b.WriteString(k)
		b.WriteString(v)
	}
	b.WriteString(secret)

	sum := md5.Sum([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Values serializes the scalar entries of p for a query string.
func (p Params) Values() url.Values {
	vals := make(url.Values, len(p))
	for k, v := range p {
		if s, ok := scalarString(v); ok {
			vals.Set(k, s)
		}
	}
	return vals
}

func (p Params) clone() Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
