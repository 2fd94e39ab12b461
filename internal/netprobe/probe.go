// Package netprobe decides whether the network looks usable before the
// package index is refreshed. Both checks are heuristics and can report a
// working network that is not.
package netprobe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sznuper/updavail/internal/command"
	"github.com/sznuper/updavail/internal/failure"
)

const stage = "probe"

// DefaultHost is the mirror pinged when none is configured.
const DefaultHost = "us.archive.ubuntu.com"

// Prober checks for a default route and pings a reference host.
type Prober struct {
	Runner     command.Runner
	RouteTable string // path in /proc/net/route format
	Ping       []string
	Host       string
	Count      int
	Logger     *slog.Logger
}

// Probe returns nil when the network looks available, or a failure.NoNetwork
// error naming the check that failed.
func (p *Prober) Probe(ctx context.Context) error {
	ok, err := hasDefaultRoute(p.RouteTable)
	if err != nil {
		return failure.New(failure.NoNetwork, stage, fmt.Errorf("reading routing table: %w", err))
	}
	if !ok {
		return failure.Newf(failure.NoNetwork, stage, "no default route in table")
	}
	p.Logger.Debug("default route present", "table", p.RouteTable)

	argv := p.pingArgv()
	p.Logger.Debug("pinging reference host", "argv", argv)
	if _, err := p.Runner.Run(ctx, argv); err != nil {
		if code := command.ExitCode(err); code > 0 {
			return failure.Newf(failure.NoNetwork, stage, "ping failed with return code: %d", code)
		}
		return failure.New(failure.NoNetwork, stage, fmt.Errorf("ping: %w", err))
	}

	p.Logger.Info("network available", "host", p.Host)
	return nil
}

func (p *Prober) pingArgv() []string {
	count := p.Count
	if count < 1 {
		count = 1
	}
	argv := append([]string(nil), p.Ping...)
	return append(argv, "-c", strconv.Itoa(count), p.Host)
}

func hasDefaultRoute(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return scanDefaultRoute(f)
}

// scanDefaultRoute reports whether any row of a /proc/net/route table has an
// all-zero destination.
func scanDefaultRoute(r io.Reader) (bool, error) {
	sc := bufio.NewScanner(r)
	header := true
	for sc.Scan() {
		if header {
			header = false
			if !strings.HasPrefix(sc.Text(), "Iface") {
				return false, errors.New("unrecognized routing table header")
			}
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[1] == "00000000" {
			return true, nil
		}
	}
	return false, sc.Err()
}
