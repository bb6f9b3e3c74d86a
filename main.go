package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dulchik/pawn-hearts/board"
	"github.com/dulchik/pawn-hearts/config"
)

// loadConfig layers defaults, the optional config file, the environment,
// flags and finally the positional address pair.
func loadConfig(args []string) (config.Config, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] [address is_host]\n", fs.Name())
		fs.PrintDefaults()
	}

	path := fs.String("config", "", "YAML config file")
	addr := fs.String("addr", "", "address to host on or connect to (ip:port)")
	host := fs.Bool("host", false, "host the game instead of connecting")
	assets := fs.String("assets", "", "directory holding the fonts")
	debug := fs.Bool("debug", false, "log every board effect")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path, cfg); err != nil {
			return cfg, err
		}
	}
	cfg = config.FromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Address = *addr
		case "host":
			cfg.Host = *host
		case "assets":
			cfg.AssetDir = *assets
		}
	})
	board.Debug = *debug

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 2:
		isHost, err := strconv.ParseBool(rest[1])
		if err != nil {
			return cfg, fmt.Errorf("is_host %q: %w", rest[1], err)
		}
		cfg.Address, cfg.Host = rest[0], isHost
	default:
		return cfg, fmt.Errorf("expected address and is_host, got %d arguments", len(rest))
	}

	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	if err := loadFonts(cfg); err != nil {
		log.Printf("fonts: %v, using the built-in face", err)
	}

	app := NewApp(cfg)
	defer app.Close()

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Pawn Hearts")
	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
