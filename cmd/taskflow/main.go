package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"taskflow/internal/app"
	"taskflow/internal/config"
)

// @title                       TaskFlow API
// @version                     1.0
// @description                 Task assignment tracker: admins assign and approve, workers complete.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	var configPath string

	flagSet := pflag.NewFlagSet("taskflow", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "config/config.yaml", "path to YAML config")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	return app.Run(cfg)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `taskflow: task assignment tracker API.

Environment PORT, JWT_SECRET and DATABASE_URL override the config file.

Usage:
  taskflow [flags]

Flags:
%s`, flagSet.FlagUsages())
}
