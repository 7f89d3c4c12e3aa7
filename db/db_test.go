package db

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldloop/cooler-controller/internal/model"
)

func TestSeedDefaults(t *testing.T) {
	dbConn, err := Open(":memory:")
	require.NoError(t, err)
	defer dbConn.Close()

	for _, channel := range model.Channels {
		profiles, err := GetProfilesByChannel(dbConn, channel)
		require.NoError(t, err)
		assert.Len(t, profiles, 3, "each channel ships Silent, Performance and Fixed")

		for _, p := range profiles {
			assert.NotEmpty(t, p.Steps)
			if p.SingleStep {
				assert.Len(t, p.Steps, 1)
			}
			for i := 1; i < len(p.Steps); i++ {
				assert.Less(t, p.Steps[i-1].Temperature, p.Steps[i].Temperature,
					"steps must be sorted ascending by temperature")
			}
		}
	}
}

func TestCurrentProfileUpsert(t *testing.T) {
	dbConn, err := Open(":memory:")
	require.NoError(t, err)
	defer dbConn.Close()

	profiles, err := GetProfilesByChannel(dbConn, model.ChannelFan)
	require.NoError(t, err)
	require.NotEmpty(t, profiles)

	t.Run("initially unset", func(t *testing.T) {
		current, err := GetCurrentProfile(dbConn, model.ChannelFan)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("set and reread", func(t *testing.T) {
		require.NoError(t, SetCurrentProfile(dbConn, model.ChannelFan, profiles[0].ID))

		current, err := GetCurrentProfile(dbConn, model.ChannelFan)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, profiles[0].ID, current.ID)
	})

	t.Run("setting twice keeps a single record", func(t *testing.T) {
		require.NoError(t, SetCurrentProfile(dbConn, model.ChannelFan, profiles[0].ID))
		require.NoError(t, SetCurrentProfile(dbConn, model.ChannelFan, profiles[1].ID))

		var count int
		require.NoError(t, dbConn.QueryRow(
			`SELECT COUNT(*) FROM current_speed_profiles WHERE channel = ?`,
			string(model.ChannelFan)).Scan(&count))
		assert.Equal(t, 1, count)

		current, err := GetCurrentProfile(dbConn, model.ChannelFan)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, profiles[1].ID, current.ID)
	})

	t.Run("channels are independent", func(t *testing.T) {
		current, err := GetCurrentProfile(dbConn, model.ChannelPump)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, ClearCurrentProfile(dbConn, model.ChannelFan))

		current, err := GetCurrentProfile(dbConn, model.ChannelFan)
		require.NoError(t, err)
		assert.Nil(t, current)
	})
}

func TestUpdateSingleStepDuty(t *testing.T) {
	dbConn, err := Open(":memory:")
	require.NoError(t, err)
	defer dbConn.Close()

	profiles, err := GetProfilesByChannel(dbConn, model.ChannelFan)
	require.NoError(t, err)

	var fixed, curve *model.SpeedProfile
	for i := range profiles {
		if profiles[i].SingleStep {
			fixed = &profiles[i]
		} else {
			curve = &profiles[i]
		}
	}
	require.NotNil(t, fixed)
	require.NotNil(t, curve)

	require.NoError(t, UpdateSingleStepDuty(dbConn, fixed.ID, 75))

	reloaded, err := GetProfileByID(dbConn, fixed.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Steps, 1)
	assert.Equal(t, 75, reloaded.Steps[0].Duty)

	assert.Error(t, UpdateSingleStepDuty(dbConn, curve.ID, 75), "curve profiles must be rejected")
}

func TestCreateAndDeleteProfile(t *testing.T) {
	dbConn, err := Open(":memory:")
	require.NoError(t, err)
	defer dbConn.Close()

	id, err := CreateProfile(dbConn, model.SpeedProfile{
		Channel: model.ChannelFan,
		Name:    "Custom",
		Steps: []model.SpeedStep{
			{Temperature: 20, Duty: 30},
			{Temperature: 40, Duty: 60},
		},
	})
	require.NoError(t, err)

	require.NoError(t, SetCurrentProfile(dbConn, model.ChannelFan, id))
	require.NoError(t, DeleteProfile(dbConn, id))

	p, err := GetProfileByID(dbConn, id)
	require.NoError(t, err)
	assert.Nil(t, p)

	current, err := GetCurrentProfile(dbConn, model.ChannelFan)
	require.NoError(t, err)
	assert.Nil(t, current, "deleting a profile clears its current record")
}

func TestSettings(t *testing.T) {
	dbConn, err := Open(":memory:")
	require.NoError(t, err)
	defer dbConn.Close()

	_, ok, err := GetSetting(dbConn, "refresh_interval_seconds")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetSetting(dbConn, "refresh_interval_seconds", "5"))
	require.NoError(t, SetSetting(dbConn, "refresh_interval_seconds", "10"))

	value, ok, err := GetSetting(dbConn, "refresh_interval_seconds")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10", value)
}
