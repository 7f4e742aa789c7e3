// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// main.go - wirepack CLI: encode and decode packets against the schemas
// declared in a config file, list the registry, and publish or listen on the
// Redis relay.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/AndrewDonelson/wirepack"
)

const usage = `usage: wirepack [flags] <command> [args]

commands:
  schemas                      list registered schemas
  encode <schema> <values...>  print the packet as hex
  decode <hex>                 print the decoded packet as JSON
  publish <schema> <values...> publish a packet on the relay
  listen                       print every relay packet as JSON

value syntax: integers and floats as decimal, bool as true/false, raw as hex,
flags as a 0/1 string ("1011"), list16 as comma-separated hex packets,
json/msgpack/cbor as JSON text.

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wirepack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: search ./wirepack.yaml, ./configs, ~/.wirepack)")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, wirepack.Version())
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := wirepack.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "wirepack: %v\n", err)
		return 1
	}
	zl, err := wirepack.SetupZap(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "wirepack: %v\n", err)
		return 1
	}
	defer func() { _ = zl.Sync() }()

	p, err := wirepack.NewFromConfig(cfg, wirepack.NewZapLogger(zl), nil)
	if err != nil {
		fmt.Fprintf(stderr, "wirepack: %v\n", err)
		return 1
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "schemas":
		err = listSchemas(p, stdout)
	case "encode":
		err = encode(p, rest, stdout)
	case "decode":
		err = decode(p, rest, stdout)
	case "publish":
		err = publish(p, cfg.Relay, rest)
	case "listen":
		err = listen(p, cfg.Relay, stdout)
	default:
		fmt.Fprintf(stderr, "wirepack: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "wirepack: %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func listSchemas(p *wirepack.Packer, w io.Writer) error {
	for _, s := range p.Schemas() {
		fmt.Fprintf(w, "%3d  %-20s %s\n", s.ID, s.Name, strings.Join(s.FieldNames(), " "))
	}
	return nil
}

func encode(p *wirepack.Packer, args []string, w io.Writer) error {
	buf, err := packArgs(p, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, hex.EncodeToString(buf))
	return nil
}

func decode(p *wirepack.Packer, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errors.New("want exactly one hex argument")
	}
	buf, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[0]), "0x"))
	if err != nil {
		return fmt.Errorf("bad hex: %w", err)
	}
	pkt, err := p.Unpack(buf)
	if err != nil {
		return err
	}
	return printPacket(w, pkt)
}

func publish(p *wirepack.Packer, rc wirepack.RelayConfig, args []string) error {
	buf, err := packArgs(p, args)
	if err != nil {
		return err
	}
	r, err := wirepack.DialRelay(p, rc)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.PublishPacket(context.Background(), buf)
}

func listen(p *wirepack.Packer, rc wirepack.RelayConfig, w io.Writer) error {
	r, err := wirepack.DialRelay(p, rc)
	if err != nil {
		return err
	}
	defer r.Close()
	for _, s := range p.Schemas() {
		id := s.ID
		p.On(s.Name, func(name string, data []any) {
			_ = printPacket(w, &wirepack.Packet{ID: id, Name: name, Data: data})
		})
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Run(ctx)
}

// packArgs packs args[1:] with the schema named args[0].
func packArgs(p *wirepack.Packer, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("missing schema name")
	}
	s, err := p.Schema(args[0])
	if err != nil {
		return nil, err
	}
	raw := args[1:]
	if len(raw) != len(s.Fields) {
		return nil, fmt.Errorf("%w: %s takes %d values (%s), got %d",
			wirepack.ErrFieldCount, s.Name, len(s.Fields), strings.Join(s.FieldNames(), " "), len(raw))
	}
	values := make([]any, len(raw))
	for i, arg := range raw {
		v, err := parseValue(s.Fields[i].Name(), arg)
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, s.Fields[i].Name(), err)
		}
		values[i] = v
	}
	return p.Pack(s.Name, values...)
}

// parseValue converts a command line argument to the Go value the named
// field accepts.
func parseValue(field, arg string) (any, error) {
	field = strings.TrimPrefix(field, "sealed:")
	switch {
	case strings.HasPrefix(field, "int"):
		return strconv.ParseInt(arg, 10, 64)
	case strings.HasPrefix(field, "uint"):
		return strconv.ParseUint(arg, 10, 64)
	case strings.HasPrefix(field, "float"):
		return strconv.ParseFloat(arg, 64)
	case strings.HasPrefix(field, "string"):
		return arg, nil
	case strings.HasPrefix(field, "raw"):
		return hex.DecodeString(arg)
	case field == "bool":
		return strconv.ParseBool(arg)
	case field == "flags":
		out := make([]bool, len(arg))
		for i, c := range arg {
			switch c {
			case '0':
			case '1':
				out[i] = true
			default:
				return nil, fmt.Errorf("flags must be 0/1 digits, got %q", arg)
			}
		}
		return out, nil
	case field == "list16":
		if arg == "" {
			return [][]byte{}, nil
		}
		parts := strings.Split(arg, ",")
		out := make([][]byte, len(parts))
		for i, part := range parts {
			b, err := hex.DecodeString(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	}
	// serializer-backed objects take JSON text
	var v any
	if err := wirepack.JSON.Unmarshal([]byte(arg), &v); err != nil {
		return nil, fmt.Errorf("want JSON: %w", err)
	}
	return v, nil
}

type packetView struct {
	ID     uint8  `json:"id"`
	Schema string `json:"schema"`
	Data   []any  `json:"data"`
}

func printPacket(w io.Writer, pkt *wirepack.Packet) error {
	view := packetView{ID: pkt.ID, Schema: pkt.Name, Data: make([]any, len(pkt.Data))}
	for i, v := range pkt.Data {
		view.Data[i] = displayValue(v)
	}
	b, err := wirepack.JSON.Marshal(view)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// displayValue makes decoded values JSON friendly: bytes become hex and
// maps with non-string keys get string keys.
func displayValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return hex.EncodeToString(x)
	case [][]byte:
		out := make([]string, len(x))
		for i, e := range x {
			out[i] = hex.EncodeToString(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = displayValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = displayValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = displayValue(e)
		}
		return out
	}
	return v
}
