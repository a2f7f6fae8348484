package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const tokenEnv = "TOLLCTL_TOKEN"

type options struct {
	addr   string
	token  string
	format string
}

func newFlagSet(name string, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&opts.addr, "addr", "http://localhost:9115", "base address of the tollway service")
	fs.StringVar(&opts.token, "token", os.Getenv(tokenEnv), "auth token (defaults to $"+tokenEnv+")")
	fs.StringVar(&opts.format, "format", "json", "response format: json or csv")
	return fs
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tollctl <command> [flags]

commands:
  login             --username --passw
  healthcheck
  resetstations
  resetpasses
  addpasses
  tollstationpasses --station --from --to
  passanalysis      --stationop --tagop --from --to
  passescost        --stationop --tagop --from --to
  chargesby         --opid --from --to
  settlements

common flags: --addr, --token (or $` + tokenEnv + `), --format`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var opts options
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		fs := newFlagSet(cmd, &opts)
		username := fs.String("username", "", "account name")
		passw := fs.String("passw", "", "account password")
		fs.Parse(args)
		if *username == "" || *passw == "" {
			fatal("login requires --username and --passw")
		}
		form := url.Values{"username": {*username}, "password": {*passw}}
		do(opts, http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()),
			"application/x-www-form-urlencoded")

	case "healthcheck":
		newFlagSet(cmd, &opts).Parse(args)
		do(opts, http.MethodGet, "/api/admin/healthcheck", nil, "")

	case "resetstations":
		newFlagSet(cmd, &opts).Parse(args)
		do(opts, http.MethodPost, "/api/admin/resetstations", nil, "")

	case "resetpasses":
		newFlagSet(cmd, &opts).Parse(args)
		do(opts, http.MethodPost, "/api/admin/resetpasses", nil, "")

	case "addpasses":
		newFlagSet(cmd, &opts).Parse(args)
		do(opts, http.MethodPost, "/api/admin/addpasses", nil, "")

	case "tollstationpasses":
		fs := newFlagSet(cmd, &opts)
		station := fs.String("station", "", "toll station id")
		from := fs.String("from", "", "start date YYYYMMDD")
		to := fs.String("to", "", "end date YYYYMMDD")
		fs.Parse(args)
		if *station == "" || *from == "" || *to == "" {
			fatal("tollstationpasses requires --station, --from and --to")
		}
		do(opts, http.MethodGet, joinPath("tollStationPasses", *station, *from, *to), nil, "")

	case "passanalysis":
		fs := newFlagSet(cmd, &opts)
		stationOp := fs.String("stationop", "", "station operator id")
		tagOp := fs.String("tagop", "", "tag operator id")
		from := fs.String("from", "", "start date YYYYMMDD")
		to := fs.String("to", "", "end date YYYYMMDD")
		fs.Parse(args)
		if *stationOp == "" || *tagOp == "" || *from == "" || *to == "" {
			fatal("passanalysis requires --stationop, --tagop, --from and --to")
		}
		do(opts, http.MethodGet, joinPath("passAnalysis", *stationOp, *tagOp, *from, *to), nil, "")

	case "passescost":
		fs := newFlagSet(cmd, &opts)
		stationOp := fs.String("stationop", "", "station operator id")
		tagOp := fs.String("tagop", "", "tag operator id")
		from := fs.String("from", "", "start date YYYYMMDD")
		to := fs.String("to", "", "end date YYYYMMDD")
		fs.Parse(args)
		if *stationOp == "" || *tagOp == "" || *from == "" || *to == "" {
			fatal("passescost requires --stationop, --tagop, --from and --to")
		}
		do(opts, http.MethodGet, joinPath("passesCost", *stationOp, *tagOp, *from, *to), nil, "")

	case "chargesby":
		fs := newFlagSet(cmd, &opts)
		opID := fs.String("opid", "", "toll operator id")
		from := fs.String("from", "", "start date YYYYMMDD")
		to := fs.String("to", "", "end date YYYYMMDD")
		fs.Parse(args)
		if *opID == "" || *from == "" || *to == "" {
			fatal("chargesby requires --opid, --from and --to")
		}
		do(opts, http.MethodGet, joinPath("chargesBy", *opID, *from, *to), nil, "")

	case "settlements":
		newFlagSet(cmd, &opts).Parse(args)
		do(opts, http.MethodGet, "/api/settlements", nil, "")

	default:
		usage()
	}
}

func joinPath(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/api/" + strings.Join(escaped, "/")
}

func do(opts options, method, path string, body io.Reader, contentType string) {
	target := strings.TrimRight(opts.addr, "/") + path
	if opts.format == "csv" {
		target += "?format=csv"
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		fatal(err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts.token != "" {
		req.Header.Set("X-Observatory-Auth", opts.token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal(err.Error())
	}

	fmt.Println(strings.TrimRight(string(respBody), "\n"))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		os.Exit(1)
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "tollctl: "+msg)
	os.Exit(1)
}
