package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Configure("", ""))
	})

	require.NoError(t, Configure("debug", FormatJSON))
	require.Equal(t, logrus.DebugLevel, Base().GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, Base().Formatter)

	require.NoError(t, Configure("", FormatText))
	require.Equal(t, logrus.WarnLevel, Base().GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, Base().Formatter)

	require.Error(t, Configure("loud", ""))
}

func TestLoggerModuleField(t *testing.T) {
	hook := test.NewLocal(Base())
	t.Cleanup(func() {
		Base().ReplaceHooks(make(logrus.LevelHooks))
	})

	Logger().Warn("something happened")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "proxy", entry.Data["module"])
	require.Equal(t, "something happened", entry.Message)
}
