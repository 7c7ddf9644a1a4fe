package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/konstantinfoerster/card-printings-go/internal/aio"
	"github.com/konstantinfoerster/card-printings-go/internal/cards"
	"github.com/konstantinfoerster/card-printings-go/internal/config"
	logger "github.com/konstantinfoerster/card-printings-go/internal/log"
	"github.com/konstantinfoerster/card-printings-go/internal/preferences"
	"github.com/konstantinfoerster/card-printings-go/internal/scryfall"
	"github.com/konstantinfoerster/card-printings-go/internal/storage"
	"github.com/konstantinfoerster/card-printings-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: card-printings-cli [options...]
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -f, --file path to the deck list, reads from stdin if empty
  --sets comma separated set codes, only printings of these sets are shown
  --set-types comma separated set types, stored as new default
  --set-order order of the sets, releaseDate or cardCount
  --card-order order of the cards inside a set, name, color, type or rarity
  -o, --out report name, the report is written into the storage location
  --show report name, prints a stored report instead of looking up printings
  -h, --help prints help information
`

type options struct {
	configPath string
	file       string
	sets       string
	setTypes   string
	setOrder   string
	cardOrder  string
	out        string
	show       string
}

func setup() (options, *config.Config) {
	logger.SetupConsoleLogger()

	var opts options
	flag.StringVar(&opts.configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&opts.configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&opts.file, "f", "", "path to the deck list, reads from stdin if empty")
	flag.StringVar(&opts.file, "file", "", "path to the deck list, reads from stdin if empty")
	flag.StringVar(&opts.sets, "sets", "", "comma separated set codes")
	flag.StringVar(&opts.setTypes, "set-types", "", "comma separated set types")
	flag.StringVar(&opts.setOrder, "set-order", "", "order of the sets, releaseDate or cardCount")
	flag.StringVar(&opts.cardOrder, "card-order", "", "order of the cards, name, color, type or rarity")
	flag.StringVar(&opts.out, "o", "", "report name")
	flag.StringVar(&opts.out, "out", "", "report name")
	flag.StringVar(&opts.show, "show", "", "prints a stored report")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		panic(err)
	}

	err = logger.SetLogLevel(cfg.Logging.LevelOrDefault())
	if err != nil {
		panic(err)
	}

	if opts.setOrder == "" {
		opts.setOrder = cfg.View.SetOrder
	}
	if opts.cardOrder == "" {
		opts.cardOrder = cfg.View.CardOrder
	}

	log.Debug().Msgf("OS\t\t %s", runtime.GOOS)
	log.Debug().Msgf("ARCH\t\t %s", runtime.GOARCH)
	log.Debug().Msgf("CPUs\t\t %d", runtime.NumCPU())

	return opts, cfg
}

func main() {
	opts, cfg := setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts, cfg, os.Stdout)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("printing lookup failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, out io.Writer) error {
	start := time.Now()
	defer func() {
		log.Info().Msgf("lookup took %s", time.Since(start))
	}()

	if opts.show != "" {
		return showReport(cfg.Storage, opts.show, out)
	}

	text, err := readDeckList(opts.file)
	if err != nil {
		return err
	}

	setOrder, err := cards.ParseSetOrder(opts.setOrder)
	if err != nil {
		return err
	}
	cardOrder, err := cards.ParseCardOrder(opts.cardOrder)
	if err != nil {
		return err
	}

	store, closeStore, err := preferences.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := closeStore(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to close preference store")
		}
	}()

	client := scryfall.NewClient(cfg.Scryfall, web.NewClient(cfg.Scryfall.Client, cfg.Scryfall.Client.HTTPClient()))
	session := cards.NewSession(client, client, client, store)

	if err := session.LoadPreferences(ctx); err != nil {
		log.Warn().Err(err).Msg("using default set types")
	}
	if types := splitList(opts.setTypes); len(types) > 0 {
		if err := session.SetSetTypes(ctx, types...); err != nil {
			log.Warn().Err(err).Msg("set types are not stored")
		}
	}
	session.SelectSets(splitList(opts.sets)...)
	session.SetSetOrder(setOrder)
	session.SetCardOrder(cardOrder)

	deck := session.SubmitDeckList(text)
	if deck.Len() == 0 {
		return errors.New("deck list contains no cards")
	}

	report, resolveErr := session.LoadPrintings(ctx)

	var buf bytes.Buffer
	render(&buf, session, report)
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output, %w", err)
	}

	if opts.out != "" {
		if err := saveReport(cfg.Storage, opts.out, buf.Bytes()); err != nil {
			return errors.Join(resolveErr, err)
		}
	}

	return resolveErr
}

func readDeckList(file string) (string, error) {
	if file == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read deck list from stdin, %w", err)
		}

		return string(b), nil
	}

	// #nosec G304 path is provided by the operator
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read deck list %s, %w", file, err)
	}

	return string(b), nil
}

func saveReport(cfg config.Storage, name string, content []byte) error {
	store, err := storage.NewLocalStorage(cfg)
	if err != nil {
		return err
	}

	f, err := storage.StoreReport(store, name, web.NewMimeType(web.MimeTypeText), bytes.NewReader(content))
	if err != nil {
		return err
	}
	log.Info().Msgf("report written to %s", f.AbsolutePath)

	return nil
}

func showReport(cfg config.Storage, name string, out io.Writer) (err error) {
	store, err := storage.NewLocalStorage(cfg)
	if err != nil {
		return err
	}

	r, err := storage.LoadReport(store, name, web.NewMimeType(web.MimeTypeText))
	if err != nil {
		return err
	}
	defer aio.CloseWithErr(r, &err)

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to print report %s, %w", name, err)
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}
