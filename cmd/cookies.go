package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/internal/cookies"
)

var (
	importFrom   string
	importDomain string
	exportFile   string

	importFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "from, f",
			Usage:       "path to a Firefox/Chrome cookie database or a cookies.txt file",
			Destination: &importFrom,
		},
		cli.StringFlag{
			Name:        "domain",
			Usage:       "only import cookies for this domain (default: all)",
			Destination: &importDomain,
		},
	}

	exportFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "write to this file instead of stdout",
			Destination: &exportFile,
		},
	}
)

func importCookies(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return common.Help(ctx)
	}
	if importFrom == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie source provided, use --from"))
	}
	s, err := getJar(ctx, "import", nil)
	if err != nil {
		return nil
	}
	records, src, err := cookies.ImportCookies(importFrom, importDomain, s.log)
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "read_source", err)
		return nil
	}
	n := s.store.Restore(records)
	var session int
	for _, c := range records {
		if !c.Persistent {
			session++
		}
	}
	if s.save(ctx, "import") != nil {
		return nil
	}
	fmt.Printf("%s: imported %d cookie(s) from %s store %s\n", ctx.App.HelpName, n, src.Format, src.Path)
	if session > 0 {
		fmt.Printf("%s: %d session cookie(s) are not kept in the vault\n", ctx.App.HelpName, session)
	}
	return nil
}

func exportCookies(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return common.Help(ctx)
	}
	s, err := getJar(ctx, "export", nil)
	if err != nil {
		return nil
	}
	var w io.Writer = os.Stdout
	if exportFile != "" {
		f, err := os.OpenFile(exportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			common.PrintRuntimeErr(ctx, "export", "create_file", err)
			return nil
		}
		defer f.Close()
		w = f
	}
	records := s.store.Cookies()
	if err := cookies.WriteNetscape(w, records); err != nil {
		common.PrintRuntimeErr(ctx, "export", "write", err)
		return nil
	}
	if exportFile != "" {
		fmt.Printf("%s: exported %d cookie(s) to %s\n", ctx.App.HelpName, len(records), exportFile)
	}
	return nil
}
