package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

func TestNextMarketing(t *testing.T) {
	tests := []struct {
		name    string
		policy  MarketingPolicy
		current string
		tag     string
		want    string
		wantErr error
	}{
		{name: "bump minor", policy: BumpMinor, current: "1.2", want: "1.3"},
		{name: "bump minor past nine", policy: BumpMinor, current: "2.9", want: "2.10"},
		{name: "tag with v", policy: FromTag, current: "1.2", tag: "v1.4", want: "1.4"},
		{name: "tag without v", policy: FromTag, current: "1.2", tag: "3.0\n", want: "3.0"},
		{name: "tag with patch", policy: FromTag, tag: "v1.4.1", wantErr: ErrInvalidTag},
		{name: "tag not a version", policy: FromTag, tag: "nightly", wantErr: ErrInvalidTag},
		{name: "no tag", policy: FromTag, tag: "", wantErr: ErrInvalidTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextMarketing(tt.policy, tt.current, tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NextMarketing("calendar", "1.2", "")
	assert.Error(t, err)
}

func TestBuildNumber(t *testing.T) {
	got, err := BuildNumber(512, "a1b2c3d")
	require.NoError(t, err)
	assert.Equal(t, "512169552957", got)

	got, err = BuildNumber(7, "a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	assert.Equal(t, "7195481250647938683376319051", got)

	got, err = BuildNumber(0, "ffffffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, "01208925819614629174706175", got)

	for _, hash := range []string{"not-hex", "", "-a1", "+a1"} {
		_, err = BuildNumber(512, hash)
		assert.Error(t, err, hash)
	}

	_, err = BuildNumber(-1, "a1")
	assert.Error(t, err)
}

func TestNextProject(t *testing.T) {
	sig := Signals{Now: testDay, CommitCount: 512, CommitHash: "a1b2c3d"}

	t.Run("new day starts at zero", func(t *testing.T) {
		got, err := NextProject("20240306.512169552957.4", sig)
		require.NoError(t, err)
		assert.Equal(t, "20240307.512169552957.0", got)
	})

	t.Run("same day and commit increments patch", func(t *testing.T) {
		first, err := NextProject("1.0.0", sig)
		require.NoError(t, err)
		assert.Equal(t, "20240307.512169552957.0", first)

		second, err := NextProject(first, sig)
		require.NoError(t, err)
		assert.Equal(t, "20240307.512169552957.1", second)

		third, err := NextProject(second, sig)
		require.NoError(t, err)
		assert.Equal(t, "20240307.512169552957.2", third)
	})

	t.Run("build number prefix of another is not a match", func(t *testing.T) {
		short := Signals{Now: testDay, CommitCount: 5, CommitHash: "1"}
		got, err := NextProject("20240307.512.3", short)
		require.NoError(t, err)
		assert.Equal(t, "20240307.51.0", got)

		// 51 + 0x2 = "512", same build, so patch increments.
		same := Signals{Now: testDay, CommitCount: 51, CommitHash: "2"}
		got, err = NextProject("20240307.512.3", same)
		require.NoError(t, err)
		assert.Equal(t, "20240307.512.4", got)
	})
}

func TestDerive(t *testing.T) {
	sig := Signals{Now: testDay, CommitCount: 10, CommitHash: "ff", LatestTag: "v2.1"}

	got, err := Derive(Record{Marketing: "1.2", Project: "1.0.0"}, BumpMinor, sig)
	require.NoError(t, err)
	assert.Equal(t, Record{Marketing: "1.3", Project: "20240307.10255.0"}, got)

	got, err = Derive(Record{Marketing: "1.2", Project: "1.0.0"}, FromTag, sig)
	require.NoError(t, err)
	assert.Equal(t, Record{Marketing: "2.1", Project: "20240307.10255.0"}, got)
}

func TestMarketingPolicy(t *testing.T) {
	assert.True(t, FromTag.Valid())
	assert.True(t, BumpMinor.Valid())
	assert.False(t, MarketingPolicy("").Valid())
	assert.True(t, FromTag.NeedsTag())
	assert.False(t, BumpMinor.NeedsTag())
}
