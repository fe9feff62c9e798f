package cmd

import (
	"github.com/spf13/pflag"

	"github.com/plzero/plc/internal/logging"
)

// logLevelValue lets --log-level take a level name and reject unknown ones
// at parse time.
type logLevelValue int

var _ pflag.Value = (*logLevelValue)(nil)

func (v *logLevelValue) String() string {
	return logging.LevelName(int(*v))
}

func (v *logLevelValue) Set(s string) error {
	level, err := logging.ParseLevel(s)
	if err != nil {
		return err
	}
	*v = logLevelValue(level)
	return nil
}

func (v *logLevelValue) Type() string {
	return "level"
}
