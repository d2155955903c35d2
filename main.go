package main

import (
	"fmt"
	"os"
	"pcluster/pcui/bootstrap"
	"pcluster/pcui/util"

	"github.com/akamensky/argparse"
)

func main() {
	parser := argparse.NewParser("pcui", "ParallelCluster UI console backend")
	configFilename := parser.String("c", "config", &argparse.Options{
		Default: util.GetenvDefault("PCUI_CONFIG", "pcui.conf"),
		Help:    "Configuration file path",
	})
	webCmd := parser.NewCommand("web", "Start web server")
	genpwCmd := parser.NewCommand("genpw", "Generate password hash for a web user")
	versionCmd := parser.NewCommand("version", "Print version")
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}
	switch {
	case webCmd.Happened():
		bootstrap.Web(*configFilename)
	case genpwCmd.Happened():
		bootstrap.GenPassword()
	case versionCmd.Happened():
		fmt.Println(bootstrap.AppVersion)
	}
}
