package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/keeper/internal/apperr"
)

func strptr(s string) *string { return &s }

func TestRequest_JSON(t *testing.T) {
	t.Parallel()

	req := Request{Nonce: 18446744073709551615, Payload: Call{Method: Login{Uname: "alice", Pword: "correct"}}}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nonce":18446744073709551615,"payload":{"Login":{"uname":"alice","pword":"correct"}}}`, string(data))

	var back Request
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req, back)
}

func TestCall_DecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"unknown method", `{"nonce":1,"payload":{"Logout":{}}}`},
		{"two tags", `{"nonce":1,"payload":{"Login":{},"Other":{}}}`},
		{"empty object", `{"nonce":1,"payload":{}}`},
		{"string payload", `{"nonce":1,"payload":"Login"}`},
		{"login not an object", `{"nonce":1,"payload":{"Login":[1]}}`},
		{"negative nonce", `{"nonce":-1,"payload":{"Login":{"uname":"a","pword":"b"}}}`},
		{"missing nonce", `{"payload":{"Login":{"uname":"a","pword":"b"}}}`},
		{"null nonce", `{"nonce":null,"payload":{"Login":{"uname":"a","pword":"b"}}}`},
		{"missing payload", `{"nonce":3}`},
		{"null payload", `{"nonce":3,"payload":null}`},
		{"not an object", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			assert.Error(t, json.Unmarshal([]byte(tt.in), &req))
		})
	}
}

func TestRequest_MissingFieldSentinel(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{"payload":{"Login":{"uname":"a","pword":"b"}}}`, `{"nonce":3}`, `{"nonce":3,"payload":null}`} {
		var req Request
		assert.ErrorIs(t, json.Unmarshal([]byte(in), &req), ErrMissingField, in)
	}
}

func TestRequest_ZeroNonceIsPresent(t *testing.T) {
	t.Parallel()

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"nonce":0,"payload":{"Login":{"uname":"a","pword":"b"}}}`), &req))
	assert.Equal(t, uint64(0), req.Nonce)
	assert.Equal(t, Login{Uname: "a", Pword: "b"}, req.Payload.Method)
}

func TestCall_UnknownVariantSentinel(t *testing.T) {
	t.Parallel()

	var c Call
	err := json.Unmarshal([]byte(`{"Register":{}}`), &c)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestResponse_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "success",
			resp: Response{Nonce: 7, Payload: Reply{Result: LoginReply{Result: LoginSuccess{Account: Account{ID: "alice-id", Name: strptr("Alice")}}}}},
			want: `{"nonce":7,"payload":{"Login":{"Success":{"id":"alice-id","name":"Alice"}}}}`,
		},
		{
			name: "success without name",
			resp: Response{Nonce: 8, Payload: Reply{Result: LoginReply{Result: LoginSuccess{Account: Account{ID: "bob-id"}}}}},
			want: `{"nonce":8,"payload":{"Login":{"Success":{"id":"bob-id","name":null}}}}`,
		},
		{
			name: "failed",
			resp: Response{Nonce: 9, Payload: Reply{Result: LoginReply{Result: LoginFailed{}}}},
			want: `{"nonce":9,"payload":{"Login":"Failed"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Response
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.resp, back)
		})
	}
}

func TestReply_DecodeErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		`{"Login":"Succeeded"}`,
		`{"Login":{"Denied":{}}}`,
		`{"Logout":"Failed"}`,
		`{"Login":{"Success":"alice"}}`,
	} {
		var r Reply
		assert.Error(t, json.Unmarshal([]byte(in), &r), in)
	}
}

func TestLogin_LogValueHidesPassword(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("call", "method", Login{Uname: "alice", Pword: "s3cr3t"})

	assert.Contains(t, buf.String(), "method.uname=alice")
	assert.NotContains(t, buf.String(), "s3cr3t")
}

func TestParseStreamInit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr error
		token   *string
	}{
		{name: "absent", raw: ""},
		{name: "whitespace", raw: "  \n"},
		{name: "null", raw: "null"},
		{name: "empty object", raw: "{}"},
		{name: "token null", raw: `{"token":null}`},
		{name: "token string", raw: `{"token":"abc"}`, token: strptr("abc")},
		{name: "extra keys ignored", raw: `{"token":"abc","client":"cli"}`, token: strptr("abc")},
		{name: "number token", raw: `{"token":42}`, wantErr: apperr.ErrProtocolInitTokenInvalidType},
		{name: "object token", raw: `{"token":{}}`, wantErr: apperr.ErrProtocolInitTokenInvalidType},
		{name: "string payload", raw: `"x"`, wantErr: apperr.ErrProtocolInitInvalidShape},
		{name: "array payload", raw: `[]`, wantErr: apperr.ErrProtocolInitInvalidShape},
		{name: "number payload", raw: `1`, wantErr: apperr.ErrProtocolInitInvalidShape},
		{name: "garbage", raw: `{`, wantErr: apperr.ErrProtocolInitInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStreamInit([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, got.Token)
		})
	}
}
