package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/pkg/jar"
	"golang.org/x/net/publicsuffix"
)

var (
	parseURL string

	parseFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "url, u",
			Usage:       "url the response came from",
			Destination: &parseURL,
		},
	}
)

func parse(ctx *cli.Context) error {
	line := strings.Join(ctx.Args(), " ")
	if line == "help" {
		return common.Help(ctx)
	}
	if parseURL == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	}
	if line == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no Set-Cookie line provided"))
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "Set-Cookie:"))

	store := jar.New(&jar.Options{PublicSuffixList: publicsuffix.List})
	if err := store.SetCookie(parseURL, line); err != nil {
		fmt.Printf("discarded: %v\n", err)
		return nil
	}
	store.RemoveExpired()
	cookies := store.Cookies()
	if len(cookies) == 0 {
		fmt.Println("accepted, but already expired: nothing stored")
		return nil
	}
	printCookie(cookies[0], true)
	return nil
}

func printCookie(c jar.Cookie, showValue bool) {
	expires := "session"
	if c.Persistent {
		expires = c.Expires.UTC().Format(time.RFC1123)
	}
	fmt.Printf("Name\t: %s\n", c.Name)
	if showValue {
		fmt.Printf("Value\t: %s\n", c.Value)
	}
	fmt.Printf("Domain\t: %s\n", c.Domain)
	fmt.Printf("Path\t: %s\n", c.Path)
	fmt.Printf("Expires\t: %s\n", expires)
	fmt.Printf("Flags\t: %s\n", flagString(c))
}

func flagString(c jar.Cookie) string {
	var flags []string
	if c.HostOnly {
		flags = append(flags, "host-only")
	}
	if c.Secure {
		flags = append(flags, "secure")
	}
	if c.HttpOnly {
		flags = append(flags, "httponly")
	}
	if c.SameSite != jar.SameSiteDefault {
		flags = append(flags, "samesite="+c.SameSite.String())
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
