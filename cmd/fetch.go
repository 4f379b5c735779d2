package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/warpjar/cmd/common"
	config "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/jarhttp"
)

var (
	outputFile   string
	method       string
	body         string
	proxyURL     string
	maxRedirects int
	timeout      time.Duration

	fetchFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "save the response body to this file",
			Destination: &outputFile,
		},
		cli.StringSliceFlag{
			Name:  "header, H",
			Usage: "extra request header as 'Key: Value' (repeatable)",
		},
		cli.StringFlag{
			Name:        "method, X",
			Usage:       "HTTP method",
			Value:       http.MethodGet,
			Destination: &method,
		},
		cli.StringFlag{
			Name:        "data, d",
			Usage:       "request body",
			Destination: &body,
		},
		cli.StringFlag{
			Name:        "proxy",
			Usage:       "proxy url (http, https or socks5)",
			EnvVar:      config.ProxyEnv,
			Destination: &proxyURL,
		},
		cli.IntFlag{
			Name:        "max-redirects",
			Usage:       "maximum redirects to follow",
			Value:       jarhttp.DefaultMaxRedirects,
			Destination: &maxRedirects,
		},
		cli.DurationFlag{
			Name:        "timeout, t",
			Usage:       "overall request timeout (0 = none)",
			Value:       DEF_TIMEOUT,
			Destination: &timeout,
		},
	}
)

func fetch(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	} else if url == "help" {
		return common.Help(ctx)
	}
	headers, err := parseHeaderFlags(ctx.StringSlice("header"))
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}

	s, err := getJar(ctx, "fetch", &jarOpts{track: true})
	if err != nil {
		return nil
	}
	client, err := jarhttp.NewClient(proxyURL)
	if err != nil {
		common.PrintRuntimeErr(ctx, "fetch", "new_client", err)
		return nil
	}
	req := jarhttp.NewRequest(s.store, client, s.log)
	req.SetMaxRedirects(maxRedirects)

	rctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, timeout)
		defer cancel()
	}
	var data []byte
	if body != "" {
		data = []byte(body)
	}
	resp, err := req.Do(rctx, strings.ToUpper(method), url, headers, data)
	if err != nil {
		common.PrintRuntimeErr(ctx, "fetch", "request", err)
		s.save(ctx, "fetch")
		return nil
	}
	defer resp.Body.Close()

	fmt.Printf("%s %s\n", resp.Proto, resp.Status)
	if err := writeBody(resp); err != nil {
		common.PrintRuntimeErr(ctx, "fetch", "write_body", err)
	}

	stored := s.stored()
	if len(stored) == 0 {
		fmt.Println("no cookies stored")
	} else {
		fmt.Printf("stored %d cookie(s):\n", len(stored))
		for _, c := range stored {
			fmt.Printf("  %s (domain=%s path=%s)\n", c.Name, c.Domain, c.Path)
		}
	}
	s.save(ctx, "fetch")
	return nil
}

// writeBody saves the body to outputFile with a progress bar, or drains it
// when no file was asked for.
func writeBody(resp *http.Response) error {
	if outputFile == "" {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	p := mpb.New(mpb.WithWidth(64))
	bar := common.InitBar(p, "Fetching", resp.ContentLength)
	n, err := io.Copy(f, bar.ProxyReader(resp.Body))
	if err != nil {
		bar.Abort(false)
		p.Wait()
		return err
	}
	bar.SetTotal(-1, true)
	p.Wait()
	fmt.Printf("saved %d bytes to %s\n", n, outputFile)
	return nil
}

// parseHeaderFlags turns "Key: Value" strings into request headers.
func parseHeaderFlags(raw []string) (jarhttp.Headers, error) {
	var h jarhttp.Headers
	for _, line := range raw {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Key: Value'", line)
		}
		h = append(h, jarhttp.Header{Key: key, Value: strings.TrimSpace(value)})
	}
	return h, nil
}
