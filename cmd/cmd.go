// Package cmd implements the warpjar command line interface.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var buildInfo BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	buildInfo = bArgs
	app := cli.App{
		Name:                  "warpjar",
		HelpName:              "warpjar",
		Usage:                 "A command line HTTP cookie jar.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "warpjar <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "fetch",
				Aliases:                []string{"f"},
				Usage:                  "send a request with the stored cookies",
				UsageText:              "fetch [flags] <url>",
				Description:            FetchDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 fetch,
				Flags:                  fetchFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "parse",
				Usage:              "show how a Set-Cookie line would be stored",
				UsageText:          "parse --url <url> <set-cookie line>",
				Description:        ParseDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             parse,
				Flags:              parseFlags,
			},
			{
				Name:               "header",
				Usage:              "print the Cookie header for a url",
				UsageText:          "header <url>",
				Description:        HeaderDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             header,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "display stored cookies",
				UsageText:              "list [flags] [url]",
				Description:            ListDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 list,
				Flags:                  lsFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "clear",
				Aliases:            []string{"c"},
				Usage:              "delete every stored cookie",
				Description:        ClearDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             clearJar,
			},
			{
				Name:               "import",
				Usage:              "import cookies from a browser or cookies.txt",
				UsageText:          "import --from <path> [--domain <domain>]",
				Description:        ImportDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             importCookies,
				Flags:              importFlags,
			},
			{
				Name:               "export",
				Usage:              "export cookies in cookies.txt format",
				UsageText:          "export [-o file]",
				Description:        ExportDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             exportCookies,
				Flags:              exportFlags,
			},
			{
				Name:               "serve",
				Usage:              "run the JSON-RPC daemon",
				UsageText:          "serve [--port <port>] --secret <token>",
				Description:        ServeDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             serve,
				Flags:              serveFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of warpjar",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
