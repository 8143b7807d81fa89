package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// credentialValue strips the "<type> " prefix of a stored credential.
func credentialValue(credential string) string {
	parts := strings.Split(credential, " ")
	if len(parts) > 1 {
		return parts[1]
	}
	return credential
}

// decodeSegment decodes a token segment. Real tokens use unpadded base64url;
// standard base64 (with or without padding) is accepted as well.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := segmentParser.DecodeSegment(seg); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "="))
}

// expiresAt returns the "exp" claim of a stored credential.
//
// A credential without a payload segment, or a payload without a usable exp
// (absent, null or zero), yields ok=false and no error: the token does not
// expire. Any decoding failure is returned as an error.
func expiresAt(credential string) (exp time.Time, ok bool, err error) {
	segments := strings.Split(credentialValue(credential), ".")
	if len(segments) < 2 || segments[1] == "" {
		return time.Time{}, false, nil
	}

	raw, err := decodeSegment(segments[1])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims == nil {
		return time.Time{}, false, fmt.Errorf("%w: payload is not an object", common.ErrInvalidToken)
	}
	if v, present := claims["exp"]; present && v == nil {
		return time.Time{}, false, nil
	}

	nd, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if nd == nil {
		return time.Time{}, false, nil
	}
	return nd.Time, true, nil
}

// isExpired reports whether the credential must be treated as expired at
// now. Decoding failures count as expired.
func isExpired(credential string, now time.Time) bool {
	exp, ok, err := expiresAt(credential)
	if err != nil {
		return true
	}
	if !ok {
		return false
	}
	return !now.Before(exp)
}
