package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the HTTP API
//	-g string   gRPC endpoint address
//	-t string   transport, "http" or "grpc"
//	-w int      per-call timeout, seconds
//	-s string   session file, empty disables persistence
func parseFlags(cfg *Config, osArgs []string) {
	args := flagx.FilterArgs(osArgs, []string{"-a", "-g", "-t", "-w", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "HTTP API base URL")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC endpoint address")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport (http or grpc)")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session file")
	timeout := fs.Int("w", int(cfg.Timeout.Seconds()), "call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
}
