package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// setupLogging configures the global logger level from the verbose flag.
func setupLogging() {
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
