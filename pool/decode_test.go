package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeState(t *testing.T) {
	st, err := decodeState("srv1", `{"Name":"Pool1","State":"Started"}`)
	require.NoError(t, err)
	assert.Equal(t, &State{ComputerName: "srv1", Name: "Pool1", State: "Started"}, st)
}

func TestDecodeStateEmpty(t *testing.T) {
	st, err := decodeState("srv1", "  \n")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestDecodeStateStripsTransportMetadata(t *testing.T) {
	// Remote results must look exactly like local ones: no remoting
	// metadata survives decoding.
	st, err := decodeState("srv1",
		`{"Name":"Pool1","State":"Started","PSComputerName":"srv1","RunspaceId":"We969a8b","PSShowComputerName":true}`)
	require.NoError(t, err)
	assert.Equal(t, &State{ComputerName: "srv1", Name: "Pool1", State: "Started"}, st)
}

func TestDecodeStateMetadataCaseInsensitive(t *testing.T) {
	st, err := decodeState("srv1", `{"Name":"Pool1","State":"Started","runspaceid":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, &State{ComputerName: "srv1", Name: "Pool1", State: "Started"}, st)
}

func TestDecodeStateArrayTakesFirst(t *testing.T) {
	st, err := decodeState("srv1",
		`[{"Name":"Pool1","State":"Started"},{"Name":"Pool2","State":"Stopped"}]`)
	require.NoError(t, err)
	assert.Equal(t, "Pool1", st.Name)
}

func TestDecodeStateBadJSON(t *testing.T) {
	_, err := decodeState("srv1", "not json")
	assert.Error(t, err)
}

func TestDecodeSites(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["site1","site2"]`, []string{"site1", "site2"}},
		{"bare string", `"site1"`, []string{"site1"}},
		{"empty array", `[]`, nil},
		{"empty output", "", nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSites(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
