package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Parking management API.

Configuration is read from config.yaml and environment variables
(SERVER_*, DATABASE_*, RABBITMQ_*, AUTH_*, LOG_LEVEL).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
