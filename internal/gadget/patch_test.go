package gadget

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBody(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestParsePatchDropsUnknownFields(t *testing.T) {
	_, err := ParsePatch(rawBody(t, `{"foo":"bar"}`))
	assert.ErrorIs(t, err, ErrNoValidFields)

	p, err := ParsePatch(rawBody(t, `{"foo":"bar","status":"DECOMMISSIONED"}`))
	require.NoError(t, err)
	require.NotNil(t, p.Status)
	assert.Equal(t, StatusDecommissioned, *p.Status)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.SuccessProbability)
}

func TestParsePatchValidatesValues(t *testing.T) {
	cases := map[string]error{
		`{"successProbability":101}`:  ErrInvalidProbability,
		`{"successProbability":-1}`:   ErrInvalidProbability,
		`{"successProbability":"50"}`: ErrInvalidProbability,
		`{"successProbability":5.5}`:  ErrInvalidProbability,
		`{"status":"LOST"}`:           ErrInvalidStatus,
		`{"status":7}`:                ErrInvalidStatus,
		`{"name":"  "}`:               ErrInvalidName,
		`{"name":null}`:               ErrInvalidName,
	}
	for body, want := range cases {
		_, err := ParsePatch(rawBody(t, body))
		assert.ErrorIs(t, err, want, body)
	}
}

func TestParsePatchAllFields(t *testing.T) {
	p, err := ParsePatch(rawBody(t, `{"name":" Velvet Scope ","successProbability":100,"status":"AVAILABLE"}`))
	require.NoError(t, err)

	g := Gadget{Name: "Old", SuccessProbability: 1, Status: StatusDestroyed}
	p.Apply(&g)
	assert.Equal(t, Gadget{Name: "Velvet Scope", SuccessProbability: 100, Status: StatusAvailable}, g)
}
