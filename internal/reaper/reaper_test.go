package reaper

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	swept int
	live  int
}

func (r *fakeRegistry) Sweep() int { return r.swept }
func (r *fakeRegistry) Live() int  { return r.live }

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     *Config
		wantErr bool
	}{
		"valid config": {
			cfg: &Config{Path: t.TempDir(), Registry: &fakeRegistry{}, GCInterval: 30},
		},
		"missing path": {
			cfg:     &Config{Registry: &fakeRegistry{}, GCInterval: 30},
			wantErr: true,
		},
		"missing registry": {
			cfg:     &Config{Path: t.TempDir(), GCInterval: 30},
			wantErr: true,
		},
		"zero interval": {
			cfg:     &Config{Path: t.TempDir(), Registry: &fakeRegistry{}},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestReaper_Name(t *testing.T) {
	t.Parallel()
	r := &Reaper{}
	require.Equal(t, "Handle Reaper", r.Name())
}

func TestReaper_StartStop(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	r, err := New(&Config{Path: t.TempDir(), Registry: &fakeRegistry{}, GCInterval: 60})
	req.NoError(err)

	req.NoError(r.Start())
	// Start creates the GC log file
	_, err = os.Stat(r.filePath)
	req.NoError(err)

	req.NoError(r.Stop())
}

func TestReaper_Reap(t *testing.T) {
	t.Parallel()

	t.Run("records a sweep", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		registry := &fakeRegistry{swept: 4, live: 2}
		r, err := New(&Config{Path: t.TempDir(), Registry: registry, GCInterval: 60})
		req.NoError(err)
		req.NoError(r.verifyLogFile())

		r.reap()

		file, err := os.Open(r.filePath)
		req.NoError(err)
		defer file.Close()

		scanner := bufio.NewScanner(file)
		req.True(scanner.Scan())

		var rec reapRecord
		req.NoError(json.Unmarshal(scanner.Bytes(), &rec))
		req.Equal(4, rec.Swept)
		req.Equal(2, rec.Live)
		req.False(rec.Timestamp.IsZero())
	})

	t.Run("nothing swept writes nothing", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		r, err := New(&Config{Path: t.TempDir(), Registry: &fakeRegistry{}, GCInterval: 60})
		req.NoError(err)
		req.NoError(r.verifyLogFile())

		r.reap()

		data, err := os.ReadFile(r.filePath)
		req.NoError(err)
		req.Empty(data)
	})
}
