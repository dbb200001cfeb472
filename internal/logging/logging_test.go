package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { Setup("info", "text") })

	Setup("debug", "json")
	require.Equal(t, log.DebugLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	require.True(t, isJSON)

	Setup("bogus", "text")
	require.Equal(t, log.InfoLevel, log.GetLevel())
}
