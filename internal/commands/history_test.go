package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryClearCmd(t *testing.T) {
	useTempDB(t)

	_, err := run(t, NewRecordCmd(), map[string]string{"kind": "timeout"})
	require.NoError(t, err)

	env, err := run(t, newHistoryClearCmd(), nil)
	require.NoError(t, err)
	assert.True(t, env.Success)

	list, err := run(t, newHistoryListCmd(), nil)
	require.NoError(t, err)
	var out struct {
		Count  int               `json:"count"`
		Events []json.RawMessage `json:"events"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &out))
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Events)
}

func TestAnalyzeCmd_DetectsPatterns(t *testing.T) {
	useTempDB(t)

	for _, kind := range []string{"cloud_unavailable", "cloud_sync_failed", "cloud_quota_exceeded"} {
		_, err := run(t, NewRecordCmd(), map[string]string{"kind": kind})
		require.NoError(t, err)
	}

	env, err := run(t, NewAnalyzeCmd(), nil)
	require.NoError(t, err)

	var out struct {
		Total              int      `json:"total"`
		MostCommonCategory string   `json:"most_common_category"`
		Patterns           []string `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, "cloud_sync", out.MostCommonCategory)
	assert.Equal(t, []string{"rapid_consecutive_errors", "repeated_cloud_sync"}, out.Patterns)
}

func TestConfigCmds_MaxEvents(t *testing.T) {
	useTempDB(t)

	env, err := run(t, newConfigGetCmd(), nil, "max-events")
	require.NoError(t, err)
	var got struct {
		Value  int  `json:"value"`
		Stored bool `json:"stored"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 50, got.Value)
	assert.False(t, got.Stored)

	env, err = run(t, newConfigSetCmd(), nil, "max-events", "500")
	require.NoError(t, err)
	var set struct {
		Value   int  `json:"value"`
		Clamped bool `json:"clamped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &set))
	assert.Equal(t, 200, set.Value)
	assert.True(t, set.Clamped)

	env, err = run(t, newConfigGetCmd(), nil, "max-events")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 200, got.Value)
	assert.True(t, got.Stored)

	_, err = run(t, newConfigSetCmd(), nil, "max-events", "lots")
	require.Error(t, err)
	_, err = run(t, newConfigGetCmd(), nil, "colour")
	require.Error(t, err)
}

func TestKindsCmd(t *testing.T) {
	env, err := run(t, NewKindsCmd(), nil)
	require.NoError(t, err)

	var out struct {
		Count int `json:"count"`
		Kinds []struct {
			Code          string   `json:"code"`
			Recoverable   bool     `json:"recoverable"`
			RequiredFlags []string `json:"required_flags"`
		} `json:"kinds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 31, out.Count)

	byCode := map[string][]string{}
	for _, k := range out.Kinds {
		byCode[k.Code] = k.RequiredFlags
	}
	assert.Equal(t, []string{"status"}, byCode["server_error"])
	assert.Equal(t, []string{"name"}, byCode["organization_in_use"])
	assert.Nil(t, byCode["timeout"])
}

func TestSchemaCmd_IncludesKindEnum(t *testing.T) {
	root := NewRootCmd("test")
	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	var record *commandArgSchema
	for i := range out {
		require.NotEqual(t, "mishap schema", out[i].Command)
		require.NotEqual(t, "mishap history", out[i].Command, "groups are skipped")
		if out[i].Command == "mishap record" {
			record = &out[i]
		}
	}
	require.NotNil(t, record)

	props := record.ArgsSchema["properties"].(map[string]any)
	kind := props["kind"].(map[string]any)
	assert.Contains(t, kind["enum"], "invalid_date_range")
	assert.Contains(t, record.ArgsSchema["required"], "kind")
	assert.Equal(t, "integer", props["retry"].(map[string]any)["type"])
}
