package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/pkg/jar"
)

var (
	showValues bool

	lsFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "values, v",
			Usage:       "include cookie values (default: false)",
			Destination: &showValues,
		},
	}
)

func header(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	} else if url == "help" {
		return common.Help(ctx)
	}
	s, err := getJar(ctx, "header", nil)
	if err != nil {
		return nil
	}
	h, ok := s.store.CookieHeaderFor(url)
	if !ok {
		fmt.Printf("%s: no cookies for %s\n", ctx.App.HelpName, url)
	} else {
		fmt.Printf("Cookie: %s\n", h)
	}
	s.save(ctx, "header")
	return nil
}

func list(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "help" {
		return common.Help(ctx)
	}
	s, err := getJar(ctx, "list", nil)
	if err != nil {
		return nil
	}
	var cookies []jar.Cookie
	if url != "" {
		cookies = s.store.Retrieve(url)
		s.save(ctx, "list")
	} else {
		s.store.RemoveExpired()
		cookies = s.store.Cookies()
	}
	if len(cookies) == 0 {
		fmt.Println("warpjar: no cookies found")
		return nil
	}
	fmt.Println(cookieTable(cookies, showValues))
	return nil
}

func cookieTable(cookies []jar.Cookie, values bool) string {
	txt := "Here are your cookies:"
	txt += "\n\n--------------------------------------------------------------------------------"
	txt += "\n|Num|        Name        |         Domain         |    Path    |     Flags     |"
	txt += "\n|---|--------------------|------------------------|------------|---------------|"
	for i, c := range cookies {
		txt += fmt.Sprintf("\n|%s|%s|%s|%s|%s|",
			common.Fit(fmt.Sprint(i+1), 3),
			common.Fit(c.Name, 20),
			common.Fit(c.Domain, 24),
			common.Fit(c.Path, 12),
			common.Fit(flagString(c), 15),
		)
		if values {
			txt += "\n|   |  value: " + c.Value
		}
	}
	txt += "\n--------------------------------------------------------------------------------"
	return txt
}
