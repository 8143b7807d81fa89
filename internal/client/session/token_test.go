package session

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(js string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(js))
}

func TestCredentialValue(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", credentialValue("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", credentialValue("abc.def.ghi"))
	assert.Equal(t, "", credentialValue("Bearer "))
}

func TestExpiresAt(t *testing.T) {
	cases := []struct {
		name    string
		cred    string
		wantOK  bool
		wantExp int64
		wantErr bool
	}{
		{name: "exp present", cred: "Bearer x." + payload(`{"exp":1700000000}`) + ".y", wantOK: true, wantExp: 1700000000},
		{name: "std padded alphabet", cred: "Bearer x." + base64.StdEncoding.EncodeToString([]byte(`{"exp":1700000000}`)) + ".y", wantOK: true, wantExp: 1700000000},
		{name: "no exp", cred: "Bearer x." + payload(`{"sub":"1"}`) + ".y"},
		{name: "exp zero", cred: "Bearer x." + payload(`{"exp":0}`) + ".y"},
		{name: "exp null", cred: "Bearer x." + payload(`{"exp":null}`) + ".y"},
		{name: "single segment", cred: "Bearer opaque"},
		{name: "empty payload", cred: "Bearer x..y"},
		{name: "garbage payload", cred: "Bearer x.!!!.y", wantErr: true},
		{name: "not json", cred: "Bearer x." + payload(`not json`) + ".y", wantErr: true},
		{name: "json array", cred: "Bearer x." + payload(`[1,2]`) + ".y", wantErr: true},
		{name: "exp string", cred: "Bearer x." + payload(`{"exp":"soon"}`) + ".y", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp, ok, err := expiresAt(tc.cred)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantExp, exp.Unix())
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.False(t, isExpired("Bearer x."+payload(`{"exp":1700000060}`)+".y", now))
	assert.True(t, isExpired("Bearer x."+payload(`{"exp":1699999940}`)+".y", now))
	assert.True(t, isExpired("Bearer x."+payload(`{"exp":1700000000}`)+".y", now), "exp equal to now is expired")
	assert.False(t, isExpired("Bearer x."+payload(`{}`)+".y", now))
	assert.True(t, isExpired("Bearer x.%%%.y", now), "undecodable counts as expired")
}
