package cmd

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
)

func clearJar(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return common.Help(ctx)
	}
	s, err := getJar(ctx, "clear", nil)
	if err != nil {
		return nil
	}
	n := s.store.Clear()
	if s.save(ctx, "clear") != nil {
		return nil
	}
	fmt.Printf("%s: removed %d cookie(s)\n", ctx.App.HelpName, n)
	return nil
}
