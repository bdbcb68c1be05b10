package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		level   zerolog.Level
		wantErr bool
	}{
		{name: "defaults", opts: Options{}, level: zerolog.InfoLevel},
		{name: "debug json", opts: Options{Level: "debug", Format: FormatJSON}, level: zerolog.DebugLevel},
		{name: "upper case level", opts: Options{Level: "WARN"}, level: zerolog.WarnLevel},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.level, log.GetLevel())
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Format: FormatJSON, Out: buf})
	require.NoError(t, err)

	log.Info().Str("table", "accounts").Msg("written")

	assert.Contains(t, buf.String(), `"table":"accounts"`)
	assert.Contains(t, buf.String(), `"message":"written"`)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestWithRun(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithRun(NewWithWriter(buf), "run-123")

	log.Info().Msg("sync started")

	assert.Contains(t, buf.String(), `"run_id":"run-123"`)
}
