package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"minicasino.hcl" type:"path" help:"Lobby configuration file (HCL); defaults apply when it does not exist"`
	LogLevel string `help:"Log level: debug, info, warn or error (overrides the config file)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Open the casino lobby"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds headlessly and report the return to player"`
	Odds     OddsCmd          `cmd:"" help:"Print payout tables"`
	Ver      VersionCmd       `cmd:"" name:"version" help:"Print the version"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("minicasino", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("minicasino"),
		kong.Description("Blackjack, Mines, Tower, Coinflip and Wheel in your terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
